package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createAddress
// @Summary Register a monitored address
// @Tags Addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param address body AddressRequest true "Address creation request"
// @Success 201 {object} AddressResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /addresses [post]
func (h *Handler) createAddress(c *gin.Context) {
	var input AddressRequest
	log := h.logger.WithField("method", "createAddress")

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

	model, err := DTOToAddressModel(input)
	if err != nil {
		log.WithError(err).Warn("Invalid address enum value")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.addressService.Create(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToAddressResponse(model))
}

// listAddresses
// @Summary List monitored addresses
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AddressResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /addresses [get]
func (h *Handler) listAddresses(c *gin.Context) {
	log := h.logger.WithField("method", "listAddresses")

	addresses, err := h.addressService.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAddressResponses(addresses))
}

// getAddress
// @Summary Get an address by ID
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Success 200 {object} AddressResponse
// @Failure 400 {object} map[string]string "Invalid address ID"
// @Failure 404 {object} map[string]string "Address not found"
// @Router /addresses/{id} [get]
func (h *Handler) getAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
		return
	}
	log := h.logger.WithField("method", "getAddress").WithField("id", id)

	address, err := h.addressService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAddressResponse(address))
}

// updateAddress
// @Summary Update an address
// @Tags Addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Param address body AddressRequest true "Address update request"
// @Success 200 {object} AddressResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "Address not found"
// @Router /addresses/{id} [put]
func (h *Handler) updateAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
		return
	}
	log := h.logger.WithField("method", "updateAddress").WithField("id", id)

	var input AddressRequest
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

	model, err := DTOToAddressModel(input)
	if err != nil {
		log.WithError(err).Warn("Invalid address enum value")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model.ID = id

	if err := h.addressService.Update(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAddressResponse(model))
}

// deleteAddress
// @Summary Delete an address
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Success 204 "No content"
// @Failure 400 {object} map[string]string "Invalid address ID"
// @Failure 404 {object} map[string]string "Address not found"
// @Router /addresses/{id} [delete]
func (h *Handler) deleteAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
		return
	}
	log := h.logger.WithField("method", "deleteAddress").WithField("id", id)

	if err := h.addressService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
