package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"campaigndash-be/internal/aggregator"
	"campaigndash-be/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LeadHandler struct {
	agg *aggregator.Aggregator
	log *zap.Logger
}

func NewLeadHandler(agg *aggregator.Aggregator, log *zap.Logger) *LeadHandler {
	return &LeadHandler{agg: agg, log: log}
}

// LeadsInbox godoc
// @Summary Merged lead inbox across every campaign in scope
// @Tags leads
// @Security ApiKeyAuth
// @Param category query string false "roger, reachify, prusa or all"
// @Param campaign_id query string false "Narrow to one campaign"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} models.LeadsInboxResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /leads-inbox [post]
func (h *LeadHandler) LeadsInbox(c *gin.Context) {
	scope := scopeFromQuery(c)
	if !requireCategoryAccess(c, scope.Category) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	resp := h.agg.LeadsInbox(c.Request.Context(), scope, limit, offset)
	c.JSON(http.StatusOK, resp)
}

// Leads godoc
// @Summary Cursor-paginated lead listing for one workspace
// @Tags leads
// @Security ApiKeyAuth
// @Param workspace_id query string false "Workspace ID"
// @Param campaign_id query string false "Campaign ID"
// @Param page query int false "Display page number" default(1)
// @Param starting_after query string false "Pagination cursor"
// @Success 200 {object} models.LeadListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) Leads(c *gin.Context) {
	workspaceID := c.Query("workspace_id")
	if workspaceID == "" {
		workspaceID = c.Query("workspaceId")
	}
	campaignID := c.Query("campaign_id")
	if campaignID == "" {
		campaignID = c.Query("campaignId")
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	resp, err := h.agg.Leads(c.Request.Context(), workspaceID, campaignID, c.Query("starting_after"), page)
	if err != nil {
		if errors.Is(err, aggregator.ErrNoAPIKey) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "API key not configured for selected workspace"})
			return
		}
		h.log.Warn("lead listing failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		c.JSON(upstreamStatus(err), models.ErrorResponse{Error: "Failed to fetch leads", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PositiveResponses godoc
// @Summary Leads marked interested or out-of-office
// @Tags leads
// @Security ApiKeyAuth
// @Param category query string false "roger, reachify, prusa or all"
// @Param campaign_id query string false "Narrow to one campaign"
// @Param limit query int false "Maximum leads returned" default(50)
// @Success 200 {object} models.PositiveResponsesResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /positive-responses [post]
func (h *LeadHandler) PositiveResponses(c *gin.Context) {
	scope := scopeFromQuery(c)
	if !requireCategoryAccess(c, scope.Category) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp := h.agg.PositiveResponses(c.Request.Context(), scope, limit)
	c.JSON(http.StatusOK, resp)
}
