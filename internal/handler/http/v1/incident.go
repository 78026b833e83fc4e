package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// The flood and landslide routes share these handlers; the kind is bound at
// route registration time.

// createIncident
// @Summary Register a flood or landslide occurrence
// @Description Registering a landslide immediately recomputes the risk of the affected address.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident registration request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "Address not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /floods [post]
func (h *Handler) createIncident(kind models.IncidentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateIncidentRequest
		log := h.logger.WithField("method", "createIncident").WithField("kind", kind)

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

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		model := &models.Incident{
			UserID:      userID,
			AddressID:   input.AddressID,
			Description: input.Description,
		}
		if input.OccurredAt != nil {
			model.OccurredAt = *input.OccurredAt
		}

		if err := h.incidentService.Create(c.Request.Context(), kind, model); err != nil {
			h.respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
	}
}

// listIncidents
// @Summary List all occurrences of one incident kind
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param mine query bool false "Only the caller's own occurrences"
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /floods [get]
func (h *Handler) listIncidents(kind models.IncidentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithField("method", "listIncidents").WithField("kind", kind)

		if c.Query("mine") == "true" {
			userID, ok := userIDFromContext(c)
			if !ok {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
				return
			}
			incidents, err := h.incidentService.ListMine(c.Request.Context(), kind, userID)
			if err != nil {
				h.respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
			return
		}

		incidents, err := h.incidentService.ListAll(c.Request.Context(), kind)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
	}
}

// getIncident
// @Summary Get an occurrence by ID
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /floods/{id} [get]
func (h *Handler) getIncident(kind models.IncidentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
			return
		}
		log := h.logger.WithField("method", "getIncident").WithField("kind", kind).WithField("id", id)

		incident, err := h.incidentService.GetByID(c.Request.Context(), kind, id)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
	}
}

// updateIncident
// @Summary Update an occurrence
// @Description Only the reporting user may update an occurrence.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Not the reporting user"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /floods/{id} [put]
func (h *Handler) updateIncident(kind models.IncidentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
			return
		}
		log := h.logger.WithField("method", "updateIncident").WithField("kind", kind).WithField("id", id)

		var input UpdateIncidentRequest
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

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		model := &models.Incident{ID: id, Description: input.Description}
		if input.OccurredAt != nil {
			model.OccurredAt = *input.OccurredAt
		}

		if err := h.incidentService.Update(c.Request.Context(), kind, userID, model); err != nil {
			h.respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ModelToIncidentResponse(model))
	}
}

// deleteIncident
// @Summary Delete an occurrence
// @Description Only the reporting user may delete an occurrence.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 204 "No content"
// @Failure 403 {object} map[string]string "Not the reporting user"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /floods/{id} [delete]
func (h *Handler) deleteIncident(kind models.IncidentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
			return
		}
		log := h.logger.WithField("method", "deleteIncident").WithField("kind", kind).WithField("id", id)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		if err := h.incidentService.Delete(c.Request.Context(), kind, userID, id); err != nil {
			h.respondError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
