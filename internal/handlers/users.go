package handlers

import (
	"errors"
	"net/http"

	"campaigndash-be/internal/models"
	"campaigndash-be/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	users *store.UserStore
	log   *zap.Logger
}

func NewUserHandler(users *store.UserStore, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// List godoc
// @Summary List all users
// @Tags admin
// @Security ApiKeyAuth
// @Success 200 {object} object
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Create godoc
// @Summary Create a user
// @Tags admin
// @Security ApiKeyAuth
// @Param request body models.CreateUserRequest true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email and password are required"})
		return
	}
	if len(req.AllowedCampaigns) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "At least one campaign access is required"})
		return
	}

	user, err := h.users.Create(req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "User with this email already exists"})
			return
		}
		h.log.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Partially update a user
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	if req.Password == nil && req.DisplayName == nil && req.AllowedCampaigns == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "At least one field must be provided for update"})
		return
	}

	user, err := h.users.Update(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		h.log.Error("failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	err := h.users.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		if errors.Is(err, store.ErrBootstrapAdmin) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Cannot delete admin user"})
			return
		}
		h.log.Error("failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
