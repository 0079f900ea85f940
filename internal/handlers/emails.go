package handlers

import (
	"net/http"
	"strconv"

	"campaigndash-be/internal/aggregator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmailHandler struct {
	agg *aggregator.Aggregator
	log *zap.Logger
}

func NewEmailHandler(agg *aggregator.Aggregator, log *zap.Logger) *EmailHandler {
	return &EmailHandler{agg: agg, log: log}
}

// ListEmails godoc
// @Summary Recent emails merged across every campaign in scope
// @Tags emails
// @Security ApiKeyAuth
// @Param category query string false "roger, reachify, prusa or all"
// @Param campaign_id query string false "Narrow to one campaign"
// @Param limit query int false "Maximum emails returned" default(50)
// @Param email_type query string false "received, sent or all"
// @Param is_unread query bool false "Unread only"
// @Param search query string false "Search term"
// @Param i_status query string false "Interest status filter"
// @Param thread_id query string false "Single thread"
// @Success 200 {object} models.EmailListResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /emails [get]
func (h *EmailHandler) ListEmails(c *gin.Context) {
	scope := scopeFromQuery(c)
	if !requireCategoryAccess(c, scope.Category) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp := h.agg.Emails(c.Request.Context(), scope, aggregator.EmailOptions{
		Limit:     limit,
		EmailType: c.DefaultQuery("email_type", "all"),
		IsUnread:  c.Query("is_unread") == "true",
		Search:    c.Query("search"),
		IStatus:   c.Query("i_status"),
		ThreadID:  c.Query("thread_id"),
	})
	c.JSON(http.StatusOK, resp)
}

// EmailTemplates godoc
// @Summary Subject/body templates extracted from campaign sequences
// @Tags emails
// @Security ApiKeyAuth
// @Param category query string false "roger, reachify, prusa or all"
// @Param campaign_id query string false "Narrow to one campaign"
// @Success 200 {object} models.EmailTemplatesResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /email-templates [get]
func (h *EmailHandler) EmailTemplates(c *gin.Context) {
	scope := scopeFromQuery(c)
	if !requireCategoryAccess(c, scope.Category) {
		return
	}

	resp := h.agg.EmailTemplates(c.Request.Context(), scope)
	c.JSON(http.StatusOK, resp)
}
