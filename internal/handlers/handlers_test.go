package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campaigndash-be/config"
	"campaigndash-be/internal/aggregator"
	"campaigndash-be/internal/catalog"
	"campaigndash-be/internal/middleware"
	"campaigndash-be/internal/models"
	"campaigndash-be/internal/store"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	users  *store.UserStore
}

// newTestEnv builds the full route tree against a stub upstream and a fresh
// data directory. A nil handler serves 404 for every upstream call.
func newTestEnv(t *testing.T, upstreamHandler http.HandlerFunc) *testEnv {
	t.Helper()
	if upstreamHandler == nil {
		upstreamHandler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}
	}
	srv := httptest.NewServer(upstreamHandler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		JWTSecret:           "test-secret",
		JWTAccessExpiration: time.Hour,
		UpstreamBaseURL:     srv.URL,
		UpstreamTimeout:     5 * time.Second,
		WorkspaceAPIKeys:    map[string]string{"1": "k1", "2": "k2", "4": "k4"},
		DataDir:             t.TempDir(),
	}
	logger := zap.NewNop()

	users := store.NewUserStore(cfg.DataDir, logger)
	dashboards := store.NewDashboardStore(cfg.DataDir, logger)

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	creds := workspace.NewResolver(cfg)
	cat := catalog.New(client, creds, logger)
	agg := aggregator.New(client, cat, creds, logger)

	authHandler := NewAuthHandler(cfg, users, logger)
	analyticsHandler := NewAnalyticsHandler(agg, logger)
	emailHandler := NewEmailHandler(agg, logger)
	leadHandler := NewLeadHandler(agg, logger)
	userHandler := NewUserHandler(users, logger)
	dashboardHandler := NewDashboardHandler(dashboards, logger)

	r := gin.New()
	public := r.Group("/api")
	public.POST("/auth/login", authHandler.Login)

	protected := r.Group("/api")
	protected.Use(middleware.AuthRequired(cfg.JWTSecret))
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/unified-analytics", analyticsHandler.UnifiedAnalytics)
	protected.GET("/daily-analytics", analyticsHandler.DailyAnalytics)
	protected.GET("/campaigns-analytics", analyticsHandler.CampaignsAnalytics)
	protected.GET("/campaigns/breakdown", analyticsHandler.CampaignBreakdown)
	protected.GET("/steps", analyticsHandler.StepAnalytics)
	protected.GET("/campaigns-by-workspace", analyticsHandler.CampaignsByWorkspace)
	protected.GET("/emails", emailHandler.ListEmails)
	protected.GET("/email-templates", emailHandler.EmailTemplates)
	protected.POST("/leads-inbox", leadHandler.LeadsInbox)
	protected.GET("/leads", leadHandler.Leads)
	protected.POST("/positive-responses", leadHandler.PositiveResponses)
	protected.POST("/create-dashboard", dashboardHandler.Create)
	protected.GET("/dashboards", dashboardHandler.List)
	protected.DELETE("/dashboards/:id", dashboardHandler.Delete)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	return &testEnv{router: r, users: users}
}

func (e *testEnv) request(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// createViewer registers a non-admin account directly in the store and
// returns its access token.
func (e *testEnv) createViewer(t *testing.T, email string, campaigns []string) string {
	t.Helper()
	_, err := e.users.Create(models.CreateUserRequest{
		Email:            email,
		Password:         "viewer-pass",
		AllowedCampaigns: campaigns,
	})
	require.NoError(t, err)
	return e.login(t, email, "viewer-pass")
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": models.AdminEmail})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", errorBody(t, w).Error)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": models.AdminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", errorBody(t, w).Error)

	token := env.login(t, models.AdminEmail, "admin123")

	w = env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, models.AdminEmail, me.Email)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.request(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header required", errorBody(t, w).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authorization header format", errorBody(t, rec).Error)

	w = env.request(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, w).Error)
}

func TestCategoryAccessEnforcement(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	viewer := env.createViewer(t, "roger-only@example.com", []string{"roger"})

	w := env.request(t, http.MethodGet, "/api/unified-analytics?category=roger", viewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, target := range []string{
		"/api/unified-analytics?category=prusa",
		"/api/unified-analytics",
		"/api/daily-analytics?category=prusa",
		"/api/emails?category=prusa",
		"/api/email-templates?category=prusa",
	} {
		w := env.request(t, http.MethodGet, target, viewer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
		assert.Equal(t, "Access to this campaign category is not allowed", errorBody(t, w).Error, target)
	}
	for _, target := range []string{
		"/api/leads-inbox?category=prusa",
		"/api/positive-responses?category=prusa",
	} {
		w := env.request(t, http.MethodPost, target, viewer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}

	// The unified grant opens every category, including the implicit all.
	unified := env.createViewer(t, "unified@example.com", []string{"unified"})
	w = env.request(t, http.MethodGet, "/api/unified-analytics?category=reachify", unified, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnifiedAnalyticsEndToEnd(t *testing.T) {
	const reportingID = "d4e3c5ea-2bd6-46c2-9a32-2586cd7d1856"
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id != reportingID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"campaign_id":"` + id + `","leads_count":100,"emails_sent_count":50,"open_count":25,"reply_count":5}]`))
	})
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/unified-analytics?category=roger", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UnifiedAnalyticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, 100, resp.Totals.LeadsCount)
	assert.Equal(t, 50, resp.Totals.EmailsSentCount)
	assert.Equal(t, 25, resp.Totals.OpenCount)
	assert.Equal(t, 5, resp.Totals.ReplyCount)
	assert.Equal(t, 0, resp.Totals.BouncedCount)
	assert.Equal(t, models.CategoryCounts{Roger: 1}, resp.Categories)
	assert.Equal(t, "Fetched analytics for 1 campaigns", resp.Message)
}

func TestDailyAnalyticsSingleCampaignMode(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/campaigns/analytics/daily", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"date":"2024-03-01","sent":10}]`))
	})
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/daily-analytics?campaign_id=c-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data       []upstream.DailyEntry `json:"data"`
		CampaignID string                `json:"campaign_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "c-1", resp.CampaignID)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 10, resp.Data[0].Sent)

	w = env.request(t, http.MethodGet, "/api/daily-analytics?campaign_id=c-1&workspace_id=9", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No API key configured for workspace 9", errorBody(t, w).Error)
}

func TestCampaignsAnalyticsValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/campaigns-analytics?workspace_id=null", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid workspace ID provided", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/campaigns-analytics?workspace_id=1&id=undefined", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid campaign ID provided", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/campaigns-analytics?workspace_id=9", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API key not configured for selected workspace", errorBody(t, w).Error)

	// The stub 404 passes through as the response status.
	w = env.request(t, http.MethodGet, "/api/campaigns-analytics?workspace_id=1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Failed to fetch campaign analytics", errorBody(t, w).Error)
}

func TestCampaignsByWorkspace(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"campaign_id":"c-1","campaign_name":"Roger Real Estate Offices","emails_sent_count":10},
			{"campaign_id":"c-2","campaign_name":"Unrelated"}
		]`))
	})
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/campaigns-by-workspace", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Workspace ID is required", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/campaigns-by-workspace?workspace_id=9", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No API key found for workspace 9", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/campaigns-by-workspace?workspace_id=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.WorkspaceCampaignsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Found 1 campaigns in workspace 1", resp.Message)
}

func TestStepAnalyticsPassthrough(t *testing.T) {
	raw := `[{"step":1,"variant":0,"sent":12}]`
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/campaigns/analytics/steps", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(raw))
	})
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/steps?workspace_id=1&campaign_id=c-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, raw, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestEmailsEndpointPaginates(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/emails", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"e-1","subject":"One","timestamp_created":"2024-03-02T00:00:00Z"},
			{"id":"e-2","subject":"Two","timestamp_created":"2024-03-01T00:00:00Z"}
		]}`))
	})
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/emails?category=reachify&limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.EmailListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Emails, 1)
	assert.Equal(t, "e-1", resp.Emails[0].ID)
	assert.True(t, resp.HasMore)
}

func TestLeadsEndpoint(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/leads/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"l-1","first_name":"Ada","email":"ada@x.co","lt_interest_status":2}]}`))
	})
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodGet, "/api/leads?workspaceId=9", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API key not configured for selected workspace", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/leads?workspace_id=1&campaign_id=c-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LeadListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Ada", resp.Items[0].Name)
	assert.Equal(t, "Meeting Booked", resp.Items[0].InterestStatusText)
	assert.False(t, resp.HasMore)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.login(t, models.AdminEmail, "admin123")
	viewer := env.createViewer(t, "viewer@example.com", []string{"roger"})

	w := env.request(t, http.MethodGet, "/api/admin/users", viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Users, 2)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = env.request(t, http.MethodPost, "/api/admin/users", admin, gin.H{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", errorBody(t, w).Error)

	w = env.request(t, http.MethodPost, "/api/admin/users", admin, gin.H{"email": "x@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one campaign access is required", errorBody(t, w).Error)

	w = env.request(t, http.MethodPost, "/api/admin/users", admin, gin.H{
		"email": "x@example.com", "password": "pw", "allowedCampaigns": []string{"prusa"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, []string{"prusa"}, created.AllowedCampaigns)

	w = env.request(t, http.MethodPost, "/api/admin/users", admin, gin.H{
		"email": "X@EXAMPLE.COM", "password": "pw", "allowedCampaigns": []string{"roger"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists", errorBody(t, w).Error)

	w = env.request(t, http.MethodPut, "/api/admin/users/"+created.ID, admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one field must be provided for update", errorBody(t, w).Error)

	w = env.request(t, http.MethodPut, "/api/admin/users/missing", admin, gin.H{"displayName": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", errorBody(t, w).Error)

	w = env.request(t, http.MethodPut, "/api/admin/users/"+created.ID, admin, gin.H{"displayName": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.DisplayName)

	users, err := env.users.List()
	require.NoError(t, err)
	var adminID string
	for _, u := range users {
		if u.IsAdmin() {
			adminID = u.ID
		}
	}
	w = env.request(t, http.MethodDelete, "/api/admin/users/"+adminID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete admin user", errorBody(t, w).Error)

	w = env.request(t, http.MethodDelete, "/api/admin/users/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/admin/users/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User deleted successfully")
}

func TestDashboardEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, models.AdminEmail, "admin123")

	w := env.request(t, http.MethodPost, "/api/create-dashboard", token, gin.H{"name": "No Selection"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and selected campaigns are required", errorBody(t, w).Error)

	w = env.request(t, http.MethodPost, "/api/create-dashboard", token, gin.H{
		"name": "!!!", "selectedCampaigns": []string{"c-1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid dashboard name", errorBody(t, w).Error)

	create := gin.H{
		"name":              "Roger Overview",
		"selectedCampaigns": []string{"c-1"},
		"campaigns": []gin.H{
			{"id": "c-1", "name": "One", "category": "roger"},
		},
	}
	w = env.request(t, http.MethodPost, "/api/create-dashboard", token, create)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var createResp struct {
		Success         bool   `json:"success"`
		Slug            string `json:"slug"`
		URL             string `json:"url"`
		PrimaryCategory string `json:"primaryCategory"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	assert.True(t, createResp.Success)
	assert.Equal(t, "rogeroverview", createResp.Slug)
	assert.Equal(t, "/rogeroverview-campaigns", createResp.URL)
	assert.Equal(t, "roger", createResp.PrimaryCategory)

	w = env.request(t, http.MethodPost, "/api/create-dashboard", token, create)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Dashboard with this name already exists", errorBody(t, w).Error)

	w = env.request(t, http.MethodGet, "/api/dashboards", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Dashboards []models.Dashboard `json:"dashboards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Dashboards, 1)

	w = env.request(t, http.MethodDelete, "/api/dashboards/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Dashboard not found", errorBody(t, w).Error)

	w = env.request(t, http.MethodDelete, "/api/dashboards/"+listResp.Dashboards[0].ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dashboard deleted successfully")

	w = env.request(t, http.MethodGet, "/api/dashboards", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"dashboards":[]`))
}
