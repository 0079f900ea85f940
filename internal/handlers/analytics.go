package handlers

import (
	"errors"
	"net/http"

	"campaigndash-be/internal/aggregator"
	"campaigndash-be/internal/middleware"
	"campaigndash-be/internal/models"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	agg *aggregator.Aggregator
	log *zap.Logger
}

func NewAnalyticsHandler(agg *aggregator.Aggregator, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{agg: agg, log: log}
}

// canAccessCategory checks the session's category grants. The token carries
// the same email and grants the directory holds, so the decision delegates
// to the user model.
func canAccessCategory(claims *utils.Claims, category models.Category) bool {
	if claims == nil {
		return false
	}
	if claims.Role == "admin" {
		return true
	}
	user := models.User{Email: claims.Email, AllowedCampaigns: claims.AllowedCampaigns}
	return user.CanAccess(category)
}

func requireCategoryAccess(c *gin.Context, category models.Category) bool {
	if !canAccessCategory(middleware.GetClaims(c), category) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access to this campaign category is not allowed"})
		return false
	}
	return true
}

func scopeFromQuery(c *gin.Context) aggregator.Scope {
	return aggregator.Scope{
		Category:    models.Category(c.Query("category")),
		CampaignID:  c.Query("campaign_id"),
		WorkspaceID: c.Query("workspace_id"),
	}
}

// queryOrEmpty filters out the literal "null"/"undefined" strings some
// dashboard builds send for unset parameters.
func queryOrEmpty(c *gin.Context, key string) string {
	v := c.Query(key)
	if v == "null" || v == "undefined" {
		return ""
	}
	return v
}

// upstreamStatus translates an upstream failure into a response status.
func upstreamStatus(err error) int {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return http.StatusBadGateway
}

// UnifiedAnalytics godoc
// @Summary Aggregated analytics across every campaign in a category
// @Tags analytics
// @Security ApiKeyAuth
// @Param category query string false "roger, reachify, prusa or all"
// @Param campaign_id query string false "Narrow to one campaign"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} models.UnifiedAnalyticsResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /unified-analytics [get]
func (h *AnalyticsHandler) UnifiedAnalytics(c *gin.Context) {
	scope := scopeFromQuery(c)
	if !requireCategoryAccess(c, scope.Category) {
		return
	}

	resp := h.agg.UnifiedAnalytics(c.Request.Context(), scope, c.Query("start_date"), c.Query("end_date"))
	c.JSON(http.StatusOK, resp)
}

// DailyAnalytics godoc
// @Summary Daily activity, merged by date across campaigns
// @Description With campaign_id set, proxies that campaign's daily rows directly; otherwise aggregates the category.
// @Tags analytics
// @Security ApiKeyAuth
// @Param category query string false "roger, reachify, prusa or all"
// @Param campaign_id query string false "Single campaign mode"
// @Param workspace_id query string false "Workspace for single campaign mode" default(1)
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} models.DailyAnalyticsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /daily-analytics [get]
func (h *AnalyticsHandler) DailyAnalytics(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	if campaignID := c.Query("campaign_id"); campaignID != "" {
		workspaceID := c.DefaultQuery("workspace_id", "1")
		entries, err := h.agg.DailyForCampaign(c.Request.Context(), workspaceID, campaignID, startDate, endDate)
		if err != nil {
			if errors.Is(err, aggregator.ErrNoAPIKey) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No API key configured for workspace " + workspaceID})
				return
			}
			c.JSON(upstreamStatus(err), models.ErrorResponse{Error: "Failed to fetch daily analytics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entries, "campaign_id": campaignID})
		return
	}

	scope := scopeFromQuery(c)
	if !requireCategoryAccess(c, scope.Category) {
		return
	}
	resp := h.agg.DailyAnalytics(c.Request.Context(), scope, startDate, endDate)
	c.JSON(http.StatusOK, resp)
}

// CampaignsAnalytics godoc
// @Summary Raw upstream campaign analytics for one workspace
// @Tags analytics
// @Security ApiKeyAuth
// @Param workspace_id query string true "Workspace ID"
// @Param id query string false "Campaign ID"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param exclude_total_leads_count query bool false "Skip the slow total leads count"
// @Success 200 {array} upstream.CampaignAnalytics
// @Failure 400 {object} models.ErrorResponse
// @Router /campaigns-analytics [get]
func (h *AnalyticsHandler) CampaignsAnalytics(c *gin.Context) {
	workspaceID := queryOrEmpty(c, "workspace_id")
	if workspaceID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid workspace ID provided"})
		return
	}
	campaignID := c.Query("id")
	if campaignID == "null" || campaignID == "undefined" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid campaign ID provided"})
		return
	}

	analytics, err := h.agg.CampaignsAnalytics(c.Request.Context(), workspaceID, upstream.AnalyticsQuery{
		CampaignID:        campaignID,
		StartDate:         queryOrEmpty(c, "start_date"),
		EndDate:           queryOrEmpty(c, "end_date"),
		ExcludeTotalLeads: c.Query("exclude_total_leads_count") == "true",
	})
	if err != nil {
		if errors.Is(err, aggregator.ErrNoAPIKey) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "API key not configured for selected workspace"})
			return
		}
		h.log.Warn("campaigns analytics proxy failed", zap.Error(err))
		c.JSON(upstreamStatus(err), models.ErrorResponse{Error: "Failed to fetch campaign analytics", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// CampaignBreakdown godoc
// @Summary Campaign analytics with per-step variant rows
// @Tags analytics
// @Security ApiKeyAuth
// @Param workspace_id query string true "Workspace ID"
// @Param campaign_id query string true "Campaign ID"
// @Success 200 {array} models.CampaignBreakdown
// @Failure 400 {object} models.ErrorResponse
// @Router /campaigns/breakdown [get]
func (h *AnalyticsHandler) CampaignBreakdown(c *gin.Context) {
	workspaceID := queryOrEmpty(c, "workspace_id")
	if workspaceID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid workspace ID provided"})
		return
	}
	campaignID := queryOrEmpty(c, "campaign_id")
	if campaignID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Campaign ID is required"})
		return
	}

	breakdown, err := h.agg.CampaignBreakdown(c.Request.Context(), workspaceID, campaignID)
	if err != nil {
		if errors.Is(err, aggregator.ErrNoAPIKey) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "API key not configured for selected workspace"})
			return
		}
		c.JSON(upstreamStatus(err), models.ErrorResponse{Error: "Failed to fetch campaign breakdown"})
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// StepAnalytics godoc
// @Summary Raw step-level analytics proxy
// @Tags analytics
// @Security ApiKeyAuth
// @Param workspace_id query string false "Workspace ID"
// @Param campaign_id query string false "Campaign ID"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} object
// @Failure 500 {object} models.ErrorResponse
// @Router /steps [get]
func (h *AnalyticsHandler) StepAnalytics(c *gin.Context) {
	raw, err := h.agg.StepAnalytics(c.Request.Context(), c.Query("workspace_id"), c.Query("campaign_id"),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		if errors.Is(err, aggregator.ErrNoAPIKey) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "API key not configured for selected workspace"})
			return
		}
		c.JSON(upstreamStatus(err), models.ErrorResponse{Error: "Failed to fetch step analytics"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// CampaignsByWorkspace godoc
// @Summary List a workspace's exposed campaigns with analytics
// @Tags analytics
// @Security ApiKeyAuth
// @Param workspace_id query string true "Workspace ID"
// @Success 200 {object} models.WorkspaceCampaignsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /campaigns-by-workspace [get]
func (h *AnalyticsHandler) CampaignsByWorkspace(c *gin.Context) {
	workspaceID := c.Query("workspace_id")
	if workspaceID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Workspace ID is required"})
		return
	}

	resp, err := h.agg.WorkspaceCampaigns(c.Request.Context(), workspaceID)
	if err != nil {
		if errors.Is(err, aggregator.ErrNoAPIKey) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "No API key found for workspace " + workspaceID})
			return
		}
		h.log.Warn("workspace campaign listing failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		c.JSON(upstreamStatus(err), models.ErrorResponse{Error: "Failed to fetch campaigns", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
