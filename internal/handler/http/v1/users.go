package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// register
// @Summary Register a new user with their address
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration request"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")

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

	address, err := DTOToAddressModel(input.Address)
	if err != nil {
		log.WithError(err).Warn("Invalid address enum value")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := DTOToUserModel(input)
	if err := h.authService.Register(c.Request.Context(), user, address, input.Password); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToUserResponse(user))
}

// login
// @Summary Authenticate and receive an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

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

	token, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// me
// @Summary Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	log := h.logger.WithField("method", "me")

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}
