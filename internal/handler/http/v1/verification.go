package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// createVerification
// @Summary Confirm or deny a reported incident
// @Description The payload must reference exactly one of flood_id or landslide_id. One vote per user per incident.
// @Tags Verifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param verification body CreateVerificationRequest true "Verification request"
// @Success 201 {object} VerificationResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Incident already verified by user"
// @Router /verifications [post]
func (h *Handler) createVerification(c *gin.Context) {
	var input CreateVerificationRequest
	log := h.logger.WithField("method", "createVerification")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	model := &models.Verification{
		UserID:      userID,
		FloodID:     input.FloodID,
		LandslideID: input.LandslideID,
		Confirmed:   input.Confirmed,
	}
	if err := h.verificationService.Create(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToVerificationResponse(model))
}

// listMyVerifications
// @Summary List the caller's verifications
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} VerificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /verifications/mine [get]
func (h *Handler) listMyVerifications(c *gin.Context) {
	log := h.logger.WithField("method", "listMyVerifications")

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	verifications, err := h.verificationService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToVerificationResponses(verifications))
}

// listVerificationsByFlood
// @Summary List the verifications of a flood
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flood ID"
// @Success 200 {array} VerificationResponse
// @Failure 400 {object} map[string]string "Invalid flood ID"
// @Router /verifications/flood/{id} [get]
func (h *Handler) listVerificationsByFlood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flood ID"})
		return
	}
	log := h.logger.WithField("method", "listVerificationsByFlood").WithField("id", id)

	verifications, err := h.verificationService.ListByFlood(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToVerificationResponses(verifications))
}

// listVerificationsByLandslide
// @Summary List the verifications of a landslide
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Landslide ID"
// @Success 200 {array} VerificationResponse
// @Failure 400 {object} map[string]string "Invalid landslide ID"
// @Router /verifications/landslide/{id} [get]
func (h *Handler) listVerificationsByLandslide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid landslide ID"})
		return
	}
	log := h.logger.WithField("method", "listVerificationsByLandslide").WithField("id", id)

	verifications, err := h.verificationService.ListByLandslide(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToVerificationResponses(verifications))
}

// getFloodVerificationStats
// @Summary Get the vote totals of a flood
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flood ID"
// @Success 200 {object} VerificationStatsResponse
// @Failure 400 {object} map[string]string "Invalid flood ID"
// @Router /verifications/flood/{id}/stats [get]
func (h *Handler) getFloodVerificationStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flood ID"})
		return
	}
	log := h.logger.WithField("method", "getFloodVerificationStats").WithField("id", id)

	stats, err := h.verificationService.StatsByFlood(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVerificationStatsResponse(stats))
}

// getLandslideVerificationStats
// @Summary Get the vote totals of a landslide
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Landslide ID"
// @Success 200 {object} VerificationStatsResponse
// @Failure 400 {object} map[string]string "Invalid landslide ID"
// @Router /verifications/landslide/{id}/stats [get]
func (h *Handler) getLandslideVerificationStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid landslide ID"})
		return
	}
	log := h.logger.WithField("method", "getLandslideVerificationStats").WithField("id", id)

	stats, err := h.verificationService.StatsByLandslide(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVerificationStatsResponse(stats))
}

// updateVerification
// @Summary Change the caller's vote on an incident
// @Tags Verifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Verification ID"
// @Param verification body UpdateVerificationRequest true "Verification update request"
// @Success 200 {object} VerificationResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Not the voter"
// @Failure 404 {object} map[string]string "Verification not found"
// @Router /verifications/{id} [put]
func (h *Handler) updateVerification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification ID"})
		return
	}
	log := h.logger.WithField("method", "updateVerification").WithField("id", id)

	var input UpdateVerificationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	model := &models.Verification{ID: id, Confirmed: input.Confirmed}
	if err := h.verificationService.Update(c.Request.Context(), userID, model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVerificationResponse(model))
}

// deleteVerification
// @Summary Withdraw the caller's vote on an incident
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Verification ID"
// @Success 204 "No content"
// @Failure 403 {object} map[string]string "Not the voter"
// @Failure 404 {object} map[string]string "Verification not found"
// @Router /verifications/{id} [delete]
func (h *Handler) deleteVerification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification ID"})
		return
	}
	log := h.logger.WithField("method", "deleteVerification").WithField("id", id)

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := h.verificationService.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
