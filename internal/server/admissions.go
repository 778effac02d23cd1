package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getStats godoc
// @Summary  Billing dashboard statistics
// @Tags     reporting
// @Produce  json
// @Success  200 {object} reportingdomain.Stats
// @Router   /billing/stats [get]
func (s *Server) getStats(c *gin.Context) {
	stats, err := s.reporting.Stats(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}

// listActiveAdmissions godoc
// @Summary  Roster of active admissions for the billing desk
// @Tags     reporting
// @Produce  json
// @Success  200 {array} reportingdomain.ActiveAdmission
// @Router   /billing/active-admissions [get]
func (s *Server) listActiveAdmissions(c *gin.Context) {
	rows, err := s.reporting.ActiveAdmissions(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondList(c, rows, nil)
}

// getPatientAdmission godoc
// @Summary  A patient's current admission, if any
// @Tags     reporting
// @Produce  json
// @Param    patientId path string true "patient id"
// @Success  200 {object} encounterdomain.AdmissionDetail
// @Router   /billing/patient/{patientId}/admission [get]
func (s *Server) getPatientAdmission(c *gin.Context) {
	patientID, err := parseID(c.Param("patientId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	detail, err := s.reporting.PatientActiveAdmission(c.Request.Context(), patientID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, detail)
}
