package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	"go.uber.org/zap"
)

// abortWithError translates domain errors into API status codes. Anything
// unmapped is a 500 and gets logged with the request id.
func (s *Server) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, billingdomain.ErrBillNotFound),
		errors.Is(err, encounterdomain.ErrPatientNotFound),
		errors.Is(err, encounterdomain.ErrAdmissionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, billingdomain.ErrInvalidIdentifier),
		errors.Is(err, billingdomain.ErrInvalidDateRange),
		errors.Is(err, billingdomain.ErrInvalidDischarge),
		errors.Is(err, billingdomain.ErrInvalidDiscount),
		errors.Is(err, billingdomain.ErrNoUpdatableFields),
		errors.Is(err, billingdomain.ErrInvalidBillStatus),
		errors.Is(err, billingdomain.ErrInvalidPaymentMeth),
		errors.Is(err, paymentdomain.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, billingdomain.ErrBillHasPayments):
		status = http.StatusConflict
	case errors.Is(err, billingdomain.ErrMissingActor):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
