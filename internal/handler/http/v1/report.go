package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// generateReport
// @Summary Generate a monthly report
// @Description An empty region produces the consolidated city-wide report. Civil defense only.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body GenerateReportRequest true "Report generation request"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid period or region"
// @Failure 403 {object} map[string]string "Civil defense role required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) generateReport(c *gin.Context) {
	var input GenerateReportRequest
	log := h.logger.WithField("method", "generateReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		report *models.Report
		err    error
	)
	if input.Region == "" {
		report, err = h.reportService.GenerateConsolidated(c.Request.Context(), input.Period)
	} else {
		report, err = h.reportService.GenerateForRegion(c.Request.Context(), input.Period, input.Region)
	}
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(report))
}

// generateNeighborhoodReports
// @Summary Generate one report per neighborhood for a month, plus the consolidated report
// @Description Civil defense only.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param period query string true "Month in YYYY-MM format"
// @Success 201 {array} ReportResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 403 {object} map[string]string "Civil defense role required"
// @Router /reports/neighborhoods [post]
func (h *Handler) generateNeighborhoodReports(c *gin.Context) {
	log := h.logger.WithField("method", "generateNeighborhoodReports")

	reports, err := h.reportService.GeneratePerNeighborhood(c.Request.Context(), c.Query("period"))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelsToReportResponses(reports))
}

// listReports
// @Summary List generated reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "Filter by month (YYYY-MM)"
// @Param region query string false "Filter by region"
// @Success 200 {array} ReportResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	var (
		reports []*models.Report
		err     error
	)
	switch {
	case c.Query("period") != "":
		reports, err = h.reportService.ListByPeriod(c.Request.Context(), c.Query("period"))
	case c.Query("region") != "":
		reports, err = h.reportService.ListByRegion(c.Request.Context(), c.Query("region"))
	default:
		reports, err = h.reportService.ListAll(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// getReport
// @Summary Get a report by ID
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid report ID"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [get]
func (h *Handler) getReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}
	log := h.logger.WithField("method", "getReport").WithField("id", id)

	report, err := h.reportService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}
