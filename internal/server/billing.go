package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
)

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, billingdomain.ErrInvalidIdentifier
	}
	return id, nil
}

// calculateIPD godoc
// @Summary  Preview inpatient charges for an admission
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    request body billingdomain.CalculateIPDRequest true "admission and optional discharge date"
// @Success  200 {object} billingdomain.Breakdown
// @Router   /billing/ipd/calculate [post]
func (s *Server) calculateIPD(c *gin.Context) {
	var req billingdomain.CalculateIPDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	breakdown, err := s.billing.CalculateIPD(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, breakdown)
}

// generateIPD godoc
// @Summary  Generate the final inpatient bill for an admission
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    request body billingdomain.GenerateIPDRequest true "admission, discount and payment method"
// @Success  201 {object} billingdomain.GenerateResult
// @Router   /billing/ipd/generate [post]
func (s *Server) generateIPD(c *gin.Context) {
	var req billingdomain.GenerateIPDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	result, err := s.billing.GenerateIPD(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	billsGenerated.WithLabelValues("ipd").Inc()
	respondData(c, http.StatusCreated, result)
}

// calculateOPD godoc
// @Summary  Preview outpatient charges over a date window
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    request body billingdomain.CalculateOPDRequest true "patient and optional date window"
// @Success  200 {object} billingdomain.Breakdown
// @Router   /billing/opd/calculate [post]
func (s *Server) calculateOPD(c *gin.Context) {
	var req billingdomain.CalculateOPDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	breakdown, err := s.billing.CalculateOPD(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, breakdown)
}

// generateOPD godoc
// @Summary  Generate an outpatient bill over a date window
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    request body billingdomain.GenerateOPDRequest true "patient, window, discount and payment method"
// @Success  201 {object} billingdomain.GenerateResult
// @Router   /billing/opd/generate [post]
func (s *Server) generateOPD(c *gin.Context) {
	var req billingdomain.GenerateOPDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	result, err := s.billing.GenerateOPD(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	billsGenerated.WithLabelValues("opd").Inc()
	respondData(c, http.StatusCreated, result)
}
