package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// publishAlert
// @Summary Publish a civil defense alert
// @Description Stores the alert and notifies every resident of the affected neighborhoods. Civil defense only.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body CreateAlertRequest true "Alert publication request"
// @Success 201 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 403 {object} map[string]string "Civil defense role required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) publishAlert(c *gin.Context) {
	var input CreateAlertRequest
	log := h.logger.WithField("method", "publishAlert")

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

	model := &models.Alert{
		Title:                 input.Title,
		Description:           input.Description,
		AffectedNeighborhoods: input.AffectedNeighborhoods,
	}
	if input.Level != "" {
		level, err := models.ParseRiskLevel(input.Level)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		model.Level = level
	}
	if input.StartsAt != nil {
		model.StartsAt = *input.StartsAt
	}

	if err := h.alertService.Publish(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToAlertResponse(model))
}

// listAlerts
// @Summary List alerts
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active alerts"
// @Param nivelRisco query string false "Filter by risk level (baixo, médio, alto)"
// @Success 200 {array} AlertResponse
// @Failure 400 {object} map[string]string "Invalid risk level"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	if raw := c.Query("nivelRisco"); raw != "" {
		level, err := models.ParseRiskLevel(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		alerts, err := h.alertService.ListByLevel(c.Request.Context(), level)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
		return
	}

	var (
		alerts []*models.Alert
		err    error
	)
	if c.Query("active") == "true" {
		alerts, err = h.alertService.ListActive(c.Request.Context())
	} else {
		alerts, err = h.alertService.ListAll(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
}

// getAlert
// @Summary Get an alert by ID
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID"
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id} [get]
func (h *Handler) getAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}
	log := h.logger.WithField("method", "getAlert").WithField("id", id)

	alert, err := h.alertService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}

// updateAlert
// @Summary Update an alert without re-notifying residents
// @Description Civil defense only.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param alert body UpdateAlertRequest true "Alert update request"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 403 {object} map[string]string "Civil defense role required"
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id} [put]
func (h *Handler) updateAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}
	log := h.logger.WithField("method", "updateAlert").WithField("id", id)

	var input UpdateAlertRequest
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

	stored, err := h.alertService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	stored.Title = input.Title
	stored.Description = input.Description
	if input.Level != "" {
		level, err := models.ParseRiskLevel(input.Level)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored.Level = level
	}

	if err := h.alertService.Update(c.Request.Context(), stored); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(stored))
}

// deactivateAlert
// @Summary Deactivate an alert
// @Description Civil defense only.
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 204 "No content"
// @Failure 403 {object} map[string]string "Civil defense role required"
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id}/deactivate [post]
func (h *Handler) deactivateAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}
	log := h.logger.WithField("method", "deactivateAlert").WithField("id", id)

	if err := h.alertService.Deactivate(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteAlert
// @Summary Delete an alert
// @Description Civil defense only.
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 204 "No content"
// @Failure 403 {object} map[string]string "Civil defense role required"
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id} [delete]
func (h *Handler) deleteAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}
	log := h.logger.WithField("method", "deleteAlert").WithField("id", id)

	if err := h.alertService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
