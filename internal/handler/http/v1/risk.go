package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// listRisks
// @Summary List all risk records
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param nivelRisco query string false "Filter by risk level (baixo, médio, alto)"
// @Success 200 {array} RiskResponse
// @Failure 400 {object} map[string]string "Invalid risk level"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /risks [get]
func (h *Handler) listRisks(c *gin.Context) {
	log := h.logger.WithField("method", "listRisks")

	if raw := c.Query("nivelRisco"); raw != "" {
		level, err := models.ParseRiskLevel(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records, err := h.riskService.ListByLevel(c.Request.Context(), level)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ModelsToRiskResponses(records))
		return
	}

	records, err := h.riskService.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToRiskResponses(records))
}

// getRisk
// @Summary Get a risk record by ID
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Risk record ID"
// @Success 200 {object} RiskResponse
// @Failure 400 {object} map[string]string "Invalid risk record ID"
// @Failure 404 {object} map[string]string "Risk record not found"
// @Router /risks/{id} [get]
func (h *Handler) getRisk(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk record ID"})
		return
	}
	log := h.logger.WithField("method", "getRisk").WithField("id", id)

	record, err := h.riskService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToRiskResponse(record))
}

// getRiskByAddress
// @Summary Get the current risk of an address
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Success 200 {object} RiskResponse
// @Failure 400 {object} map[string]string "Invalid address ID"
// @Failure 404 {object} map[string]string "No risk record for address"
// @Router /addresses/{id}/risk [get]
func (h *Handler) getRiskByAddress(c *gin.Context) {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
		return
	}
	log := h.logger.WithField("method", "getRiskByAddress").WithField("address_id", addressID)

	record, err := h.riskService.GetByAddress(c.Request.Context(), addressID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToRiskResponse(record))
}

// recomputeRisk
// @Summary Recompute the risk of an address
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Success 200 {object} RiskResponse
// @Failure 400 {object} map[string]string "Invalid address ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /addresses/{id}/risk/recompute [post]
func (h *Handler) recomputeRisk(c *gin.Context) {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
		return
	}
	log := h.logger.WithField("method", "recomputeRisk").WithField("address_id", addressID)

	record, err := h.riskService.Recompute(c.Request.Context(), addressID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToRiskResponse(record))
}

// recomputeAllRisks
// @Summary Recompute the risk of every address with incidents
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Success 204 "No content"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /risks/recompute [post]
func (h *Handler) recomputeAllRisks(c *gin.Context) {
	log := h.logger.WithField("method", "recomputeAllRisks")

	if err := h.riskService.RecomputeAll(c.Request.Context()); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteRisk
// @Summary Delete a risk record
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Risk record ID"
// @Success 204 "No content"
// @Failure 400 {object} map[string]string "Invalid risk record ID"
// @Failure 404 {object} map[string]string "Risk record not found"
// @Router /risks/{id} [delete]
func (h *Handler) deleteRisk(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk record ID"})
		return
	}
	log := h.logger.WithField("method", "deleteRisk").WithField("id", id)

	if err := h.riskService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
