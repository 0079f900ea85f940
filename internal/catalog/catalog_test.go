package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaigndash-be/config"
	"campaigndash-be/internal/models"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const prusaPayload = `[
	{"campaign_id":"p-1","campaign_name":"PRUSA Compass 7.9M+"},
	{"campaign_id":"p-2","campaign_name":"Internal test campaign"},
	{"campaign_id":"51bab480-545d-4241-94e5-26d9e3fe34ad","campaign_name":"Renamed Campaign"},
	{"campaign_id":"p-3","campaign_name":"Candytrail Past Compass"}
]`

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(srv.URL, 5*time.Second, zap.NewNop())
	creds := workspace.NewResolver(&config.Config{
		DefaultAPIKey:    "default-key",
		WorkspaceAPIKeys: map[string]string{"1": "k1", "2": "k2", "4": "k4"},
	})
	return New(client, creds, zap.NewNop())
}

func TestCampaignsByCategoryUsesStaticSets(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("static categories must not hit the upstream")
	})

	roger := cat.Campaigns(context.Background(), models.CategoryRoger)
	require.Len(t, roger, 3)
	for _, c := range roger {
		assert.Equal(t, models.CategoryRoger, c.Category)
		assert.Equal(t, "1", c.WorkspaceID)
	}

	reachify := cat.Campaigns(context.Background(), models.CategoryReachify)
	require.Len(t, reachify, 1)
	assert.Equal(t, "477533b0-ad87-4f25-8a61-a296f384578e", reachify[0].CampaignID)
}

func TestPrusaCampaignsApplyAllowList(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer k2", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(prusaPayload))
	})

	prusa := cat.Campaigns(context.Background(), models.CategoryPrusa)
	require.Len(t, prusa, 3)

	ids := make([]string, 0, len(prusa))
	for _, c := range prusa {
		ids = append(ids, c.CampaignID)
		assert.Equal(t, models.CategoryPrusa, c.Category)
		assert.Equal(t, "Paramount Realty USA", c.WorkspaceName)
		assert.Equal(t, "prusa-"+c.CampaignID, c.ID)
	}
	// The renamed campaign passes on the id exception; the internal one is
	// dropped.
	assert.Contains(t, ids, "51bab480-545d-4241-94e5-26d9e3fe34ad")
	assert.NotContains(t, ids, "p-2")
}

func TestAllUnionDedupes(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(prusaPayload))
	})

	all := cat.Campaigns(context.Background(), models.CategoryAll)
	// 4 static + 3 allowed PRUSA.
	require.Len(t, all, 7)

	seen := make(map[string]bool)
	for _, c := range all {
		assert.False(t, seen[c.CampaignID], "duplicate campaign %s", c.CampaignID)
		seen[c.CampaignID] = true
	}

	// Empty category behaves like all.
	assert.Len(t, cat.Campaigns(context.Background(), ""), 7)
}

func TestPrusaFailureFallsBackToStatic(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	all := cat.Campaigns(context.Background(), models.CategoryAll)
	assert.Len(t, all, 4)

	assert.Empty(t, cat.Campaigns(context.Background(), models.CategoryPrusa))
}

func TestUnknownCategoryYieldsNothing(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	assert.Empty(t, cat.Campaigns(context.Background(), "mystery"))
}

func TestAllowedInWorkspace(t *testing.T) {
	assert.True(t, AllowedInWorkspace("1", "Roger New Real Estate Leads", "x"))
	assert.False(t, AllowedInWorkspace("1", "Unrelated Campaign", "x"))
	assert.True(t, AllowedInWorkspace("2", "PRUSA Compass 7.9M+", "x"))
	assert.True(t, AllowedInWorkspace("2", "Whatever", "51bab480-545d-4241-94e5-26d9e3fe34ad"))
	assert.False(t, AllowedInWorkspace("2", "Whatever", "x"))
	assert.True(t, AllowedInWorkspace("4", "Anything", "x"))
}
