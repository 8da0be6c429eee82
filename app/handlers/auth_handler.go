package handlers

import (
	"net/http"
	"strings"

	"fleetmon/app/dto"
	"fleetmon/app/services"
	"fleetmon/app/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles dashboard session endpoints
type AuthHandler struct {
	authService *services.AuthService
	jwtService  *services.JWTService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Login handles POST /auth/login and issues a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	ok, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check credentials", nil)
		return
	}
	if !ok {
		respondError(c, http.StatusUnauthorized, "invalid username or password", nil)
		return
	}

	token, err := h.jwtService.GenerateToken(req.Username)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate token", nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresIn: 86400,
	})
}

// ChangePassword handles POST /auth/change_password for the logged-in user
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	username := c.GetString(ContextUserKey)
	if username == "" {
		respondError(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}

// ContextUserKey is the gin context key holding the authenticated username
const ContextUserKey = "auth_username"

// RequireSession is a middleware enforcing a valid Bearer session token on
// dashboard endpoints.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}

		username, err := h.jwtService.ValidateToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, username)
		c.Next()
	}
}
