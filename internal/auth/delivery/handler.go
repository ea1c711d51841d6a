package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdomain "corretora-backend/internal/auth/domain"
	authdto "corretora-backend/internal/auth/dto"
	"corretora-backend/internal/auth/usecase"
	"corretora-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles login, token and user administration requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	validation.RegisterJSONTagNames()
	return &AuthHandler{authUsecase: authUsecase, log: zap.L().Named("auth.http")}
}

// Login authenticates with username and password
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, authdomain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	resp, err := h.authUsecase.RefreshToken(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidToken),
			errors.Is(err, authdomain.ErrUserNotFound),
			errors.Is(err, authdomain.ErrUserInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes a refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	if err := h.authUsecase.Logout(req.RefreshToken); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns every user
// GET /api/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authUsecase.ListUsers()
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser adds a user account
// POST /api/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req authdto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	user, err := h.authUsecase.CreateUser(&req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser edits a user account
// PUT /api/users/:id
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req authdto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	user, err := h.authUsecase.UpdateUser(id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ToggleUserActive enables or disables a user account
// POST /api/users/:id/toggle
func (h *AuthHandler) ToggleUserActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.authUsecase.ToggleUserActive(id, c.GetUint(ContextUserID))
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "active": user.Active})
}

func (h *AuthHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authdomain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, authdomain.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, authdomain.ErrCannotDisableSelf):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		h.internalError(c, err)
	}
}

func (h *AuthHandler) internalError(c *gin.Context, err error) {
	h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
