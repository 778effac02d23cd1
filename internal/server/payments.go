package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
)

// processPayment godoc
// @Summary  Apply a payment to a bill
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    billId  path string true "bill id"
// @Param    request body paymentdomain.ProcessRequest true "amount, method, reference number and notes"
// @Success  201 {object} paymentdomain.ProcessResult
// @Router   /billing/{billId}/payment [post]
func (s *Server) processPayment(c *gin.Context) {
	billID, err := parseID(c.Param("billId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var req paymentdomain.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	result, err := s.payments.Process(c.Request.Context(), billID, req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	paymentsProcessed.Inc()
	paymentAmount.Add(float64(req.AmountCents))
	respondData(c, http.StatusCreated, result)
}

// overrideStatus godoc
// @Summary  Administratively override a bill's payment status
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    billId  path string true "bill id"
// @Param    request body paymentdomain.OverrideStatusRequest true "target status"
// @Success  200 {object} billingdomain.Bill
// @Router   /billing/{billId}/status [patch]
func (s *Server) overrideStatus(c *gin.Context) {
	billID, err := parseID(c.Param("billId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var req paymentdomain.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, err)
		return
	}

	bill, err := s.payments.OverrideStatus(c.Request.Context(), billID, req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, bill)
}
