package handlers

import (
	"errors"
	"net/http"

	"campaigndash-be/internal/models"
	"campaigndash-be/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboards *store.DashboardStore
	log        *zap.Logger
}

func NewDashboardHandler(dashboards *store.DashboardStore, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, log: log}
}

// Create godoc
// @Summary Create a saved dashboard from a campaign selection
// @Tags dashboards
// @Security ApiKeyAuth
// @Param request body models.CreateDashboardRequest true "Dashboard definition"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /create-dashboard [post]
func (h *DashboardHandler) Create(c *gin.Context) {
	var req models.CreateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	if req.Name == "" || len(req.SelectedCampaigns) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Name and selected campaigns are required"})
		return
	}

	slug := store.Slugify(req.Name)
	if slug == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid dashboard name"})
		return
	}

	dashboard, err := h.dashboards.Create(req, slug)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Dashboard with this name already exists"})
			return
		}
		h.log.Error("failed to create dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"slug":              dashboard.Slug,
		"name":              dashboard.Name,
		"url":               "/" + dashboard.Slug + "-campaigns",
		"selectedCampaigns": len(dashboard.SelectedCampaigns),
		"primaryCategory":   dashboard.PrimaryCategory,
	})
}

// List godoc
// @Summary List saved dashboards
// @Tags dashboards
// @Security ApiKeyAuth
// @Success 200 {object} object
// @Router /dashboards [get]
func (h *DashboardHandler) List(c *gin.Context) {
	dashboards, err := h.dashboards.List()
	if err != nil {
		h.log.Error("failed to list dashboards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch dashboards"})
		return
	}
	if dashboards == nil {
		dashboards = []models.Dashboard{}
	}
	c.JSON(http.StatusOK, gin.H{"dashboards": dashboards})
}

// Delete godoc
// @Summary Delete a saved dashboard
// @Tags dashboards
// @Security ApiKeyAuth
// @Param id path string true "Dashboard ID"
// @Success 200 {object} object
// @Failure 404 {object} models.ErrorResponse
// @Router /dashboards/{id} [delete]
func (h *DashboardHandler) Delete(c *gin.Context) {
	if err := h.dashboards.Delete(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Dashboard not found"})
			return
		}
		h.log.Error("failed to delete dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Dashboard deleted successfully"})
}
