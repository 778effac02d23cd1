package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// getInvoice godoc
// @Summary  Download a bill's invoice as PDF
// @Tags     bills
// @Produce  application/pdf
// @Param    billId path string true "bill id"
// @Success  200 {file} binary
// @Router   /billing/{billId}/invoice [get]
func (s *Server) getInvoice(c *gin.Context) {
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

	pdf, err := s.renderer.Render(detail)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", detail.Bill.ID.String())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
