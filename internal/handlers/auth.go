package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/auth"
	"github.com/socio-africa/backend/internal/util"
)

// Register creates a new account in standalone mode
// POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid registration details")
		return
	}

	resp, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			util.RespondConflict(c, "Email")
		case errors.Is(err, auth.ErrUsernameExists):
			util.RespondConflict(c, "Username")
		default:
			util.RespondInternalError(c, "Registration failed")
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates email/password in standalone mode
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Email and password are required")
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "Invalid email or password")
			return
		}
		util.RespondInternalError(c, "Login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe returns the caller's own profile
// GET /api/v1/me
func (h *Handlers) GetMe(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
