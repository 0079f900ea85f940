package handlers

import (
	"errors"
	"net/http"

	"campaigndash-be/config"
	"campaigndash-be/internal/middleware"
	"campaigndash-be/internal/models"
	"campaigndash-be/internal/store"
	"campaigndash-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg   *config.Config
	users *store.UserStore
	log   *zap.Logger
}

func NewAuthHandler(cfg *config.Config, users *store.UserStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users, log: log}
}

// Login godoc
// @Summary Authenticate with email and password
// @Description Verifies credentials against the user directory and returns a signed access token
// @Tags auth
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Email and password are required",
			Details: err.Error(),
		})
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
			return
		}
		h.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	role := "user"
	if user.IsAdmin() {
		role = "admin"
	}
	token, err := utils.GenerateAccessToken(user.ID, user.Email, role, user.AllowedCampaigns, h.cfg.JWTSecret, h.cfg.JWTAccessExpiration)
	if err != nil {
		h.log.Error("failed to sign access token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: token,
		User:        user,
	})
}

// Me godoc
// @Summary Return the authenticated user
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "User no longer exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}
