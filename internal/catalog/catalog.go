package catalog

import (
	"context"
	"strings"

	"campaigndash-be/internal/models"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/workspace"

	"go.uber.org/zap"
)

// Static campaign records for the roger and reachify client lines. PRUSA
// campaigns are discovered live (see prusaCampaigns).
var staticCampaigns = []models.Campaign{
	{
		ID:            "roger-new-real-estate-leads",
		Name:          "Roger New Real Estate Leads",
		CampaignID:    "d4e3c5ea-2bd6-46c2-9a32-2586cd7d1856",
		WorkspaceID:   "1",
		WorkspaceName: "Wings Over Campaign",
		Category:      models.CategoryRoger,
	},
	{
		ID:            "roger-real-estate-offices",
		Name:          "Roger Real Estate Offices",
		CampaignID:    "6ffe8ad9-9695-4f4d-973f-0c20425268eb",
		WorkspaceID:   "1",
		WorkspaceName: "Wings Over Campaign",
		Category:      models.CategoryRoger,
	},
	{
		ID:            "roger-hospitals-chapel-hill",
		Name:          "Roger Hospitals Chapel Hill",
		CampaignID:    "a59eefd0-0c1a-478d-bb2f-6216798fa757",
		WorkspaceID:   "1",
		WorkspaceName: "Wings Over Campaign",
		Category:      models.CategoryRoger,
	},
	{
		ID:            "reachify-campaign",
		Name:          "Reachify Campaign",
		CampaignID:    "477533b0-ad87-4f25-8a61-a296f384578e",
		WorkspaceID:   "4",
		WorkspaceName: "Reachify (5 accounts)",
		Category:      models.CategoryReachify,
	},
}

// The PRUSA workspace contains campaigns that are out of scope for this
// product. Only names on this list (or the one id exception below) may be
// exposed; everything else is dropped before it leaves the catalog.
var prusaAllowedNames = []string{
	"Candytrail Past Compass",
	"PRUSA external company 7.9M+",
	"PRUSA New Compass Leads",
	"PRUSA Compass 7.9M+",
	"PRUSA Target Company 7.9M+",
}

const prusaAllowedID = "51bab480-545d-4241-94e5-26d9e3fe34ad"

func prusaAllowed(name, campaignID string) bool {
	if campaignID == prusaAllowedID {
		return true
	}
	for _, allowed := range prusaAllowedNames {
		if name == allowed {
			return true
		}
	}
	return false
}

const prusaWorkspaceID = "2"

// Roger's workspace also hosts unrelated campaigns; the workspace listing
// matches on these name fragments.
var rogerAllowedNames = []string{
	"New Real Estate Leads",
	"Real Estate Offices",
	"Hospitals Chapel Hill",
}

// AllowedInWorkspace applies the per-workspace exposure rules used by the
// workspace campaign listing. Workspaces without rules expose everything.
func AllowedInWorkspace(workspaceID, name, campaignID string) bool {
	switch workspaceID {
	case "1":
		for _, fragment := range rogerAllowedNames {
			if strings.Contains(name, fragment) {
				return true
			}
		}
		return false
	case prusaWorkspaceID:
		return prusaAllowed(name, campaignID)
	}
	return true
}

// Catalog resolves the campaign set for a logical category.
type Catalog struct {
	client *upstream.Client
	creds  *workspace.Resolver
	log    *zap.Logger
}

func New(client *upstream.Client, creds *workspace.Resolver, log *zap.Logger) *Catalog {
	return &Catalog{client: client, creds: creds, log: log}
}

// Static returns the fixed roger+reachify records.
func Static() []models.Campaign {
	out := make([]models.Campaign, len(staticCampaigns))
	copy(out, staticCampaigns)
	return out
}

// Campaigns resolves the candidate campaign set for category. Unknown
// categories yield an empty set. A PRUSA discovery failure degrades to the
// static set rather than failing the request.
func (c *Catalog) Campaigns(ctx context.Context, category models.Category) []models.Campaign {
	switch category {
	case models.CategoryRoger, models.CategoryReachify:
		var out []models.Campaign
		for _, campaign := range staticCampaigns {
			if campaign.Category == category {
				out = append(out, campaign)
			}
		}
		return out

	case models.CategoryPrusa:
		prusa, err := c.prusaCampaigns(ctx)
		if err != nil {
			c.log.Warn("failed to fetch PRUSA campaigns", zap.Error(err))
			return nil
		}
		return prusa

	case models.CategoryAll, "":
		out := Static()
		prusa, err := c.prusaCampaigns(ctx)
		if err != nil {
			c.log.Warn("failed to fetch PRUSA campaigns, serving static set only", zap.Error(err))
			return out
		}
		seen := make(map[string]bool, len(out))
		for _, campaign := range out {
			seen[campaign.CampaignID] = true
		}
		for _, campaign := range prusa {
			if !seen[campaign.CampaignID] {
				seen[campaign.CampaignID] = true
				out = append(out, campaign)
			}
		}
		return out
	}

	// Unknown categories are excluded, not defaulted.
	return nil
}

func (c *Catalog) prusaCampaigns(ctx context.Context) ([]models.Campaign, error) {
	apiKey, ok := c.creds.APIKey(prusaWorkspaceID)
	if !ok {
		c.log.Warn("no API key for PRUSA workspace", zap.String("workspace_id", prusaWorkspaceID))
		return nil, nil
	}

	analytics, err := c.client.CampaignAnalytics(ctx, apiKey, upstream.AnalyticsQuery{})
	if err != nil {
		return nil, err
	}

	var out []models.Campaign
	for _, a := range analytics {
		if !prusaAllowed(a.CampaignName, a.CampaignID) {
			continue
		}
		out = append(out, models.Campaign{
			ID:            "prusa-" + a.CampaignID,
			Name:          a.CampaignName,
			CampaignID:    a.CampaignID,
			WorkspaceID:   prusaWorkspaceID,
			WorkspaceName: "Paramount Realty USA",
			Category:      models.CategoryPrusa,
		})
	}
	return out, nil
}
