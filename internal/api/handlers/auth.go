package handlers

import (
	"net/http"
	"time"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	service services.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger.Named("auth")}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a username and password for a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      dto.LoginRequest  true  "Credentials"
// @Success      200 {object}  dto.LoginResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      401 {object}  map[string]string "Invalid credentials"
// @Router       /auth/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "log in")
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		Employee:  MapEmployeeToResponse(result.Employee),
	})
}
