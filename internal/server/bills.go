package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	reportingdomain "github.com/wardbooklabs/wardbook/internal/reporting/domain"
	"github.com/wardbooklabs/wardbook/pkg/db/pagination"
)

const defaultPageSize = 50

func pageFromQuery(c *gin.Context) pagination.Pagination {
	size := defaultPageSize
	if raw := c.Query("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			size = parsed
		}
	}
	return pagination.Pagination{
		PageToken: c.Query("page_token"),
		PageSize:  size,
	}
}

// listBills godoc
// @Summary  List bills with optional status, patient and date filters
// @Tags     bills
// @Produce  json
// @Param    status     query string false "payment status filter"
// @Param    patient_id query string false "patient filter"
// @Param    from       query string false "created at or after (RFC3339)"
// @Param    to         query string false "created at or before (RFC3339)"
// @Success  200 {array} reportingdomain.BillSummary
// @Router   /billing/bills [get]
func (s *Server) listBills(c *gin.Context) {
	filter := reportingdomain.ListBillsFilter{
		Status: c.Query("status"),
		Page:   pageFromQuery(c),
	}

	if raw := c.Query("patient_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		filter.PatientID = &id
	}
	if raw := c.Query("from"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.abortWithError(c, billingdomain.ErrInvalidDateRange)
			return
		}
		filter.From = &at
	}
	if raw := c.Query("to"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.abortWithError(c, billingdomain.ErrInvalidDateRange)
			return
		}
		filter.To = &at
	}

	bills, info, err := s.reporting.ListBills(c.Request.Context(), filter)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondList(c, bills, info)
}

// listPendingBills godoc
// @Summary  List bills awaiting payment
// @Tags     bills
// @Produce  json
// @Success  200 {array} reportingdomain.BillSummary
// @Router   /billing/pending [get]
func (s *Server) listPendingBills(c *gin.Context) {
	bills, info, err := s.reporting.PendingBills(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondList(c, bills, info)
}

// getBill godoc
// @Summary  Fetch one bill with its line items and payment history
// @Tags     bills
// @Produce  json
// @Param    billId path string true "bill id"
// @Success  200 {object} reportingdomain.BillDetail
// @Router   /billing/{billId} [get]
func (s *Server) getBill(c *gin.Context) {
	billID, err := parseID(c.Param("billId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	detail, err := s.reporting.BillDetail(c.Request.Context(), billID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, detail)
}

// getPatientHistory godoc
// @Summary  List a patient's past bills
// @Tags     bills
// @Produce  json
// @Param    patientId path string true "patient id"
// @Success  200 {array} reportingdomain.BillSummary
// @Router   /billing/patient/{patientId}/history [get]
func (s *Server) getPatientHistory(c *gin.Context) {
	patientID, err := parseID(c.Param("patientId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	bills, info, err := s.reporting.PatientHistory(c.Request.Context(), patientID, pageFromQuery(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondList(c, bills, info)
}

// updateBill godoc
// @Summary  Amend an unpaid bill's discount, payment method or status
// @Tags     bills
// @Accept   json
// @Produce  json
// @Param    billId  path string true "bill id"
// @Param    request body billingdomain.UpdateBillRequest true "fields to update"
// @Success  200 {object} billingdomain.Bill
// @Router   /billing/{billId} [patch]
func (s *Server) updateBill(c *gin.Context) {
	billID, err := parseID(c.Param("billId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var req billingdomain.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	bill, err := s.billing.UpdateBill(c.Request.Context(), billID, req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, bill)
}

// deleteBill godoc
// @Summary  Delete a bill that has taken no payments
// @Tags     bills
// @Param    billId path string true "bill id"
// @Success  204
// @Router   /billing/{billId} [delete]
func (s *Server) deleteBill(c *gin.Context) {
	billID, err := parseID(c.Param("billId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	if err := s.billing.DeleteBill(c.Request.Context(), billID); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
