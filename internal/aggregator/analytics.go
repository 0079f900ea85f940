package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"campaigndash-be/internal/catalog"
	"campaigndash-be/internal/models"
	"campaigndash-be/internal/normalize"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/workspace"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UnifiedAnalytics fetches the analytics roll-up for every campaign in scope
// in parallel and sums the counters. Campaigns whose fetch fails are skipped,
// never zero-filled, so totals only reflect campaigns that actually reported.
func (a *Aggregator) UnifiedAnalytics(ctx context.Context, scope Scope, startDate, endDate string) *models.UnifiedAnalyticsResponse {
	candidates := a.resolveCampaigns(ctx, scope)

	results := make([]*models.Campaign, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelFetchLimit)

	for i, campaign := range candidates {
		g.Go(func() error {
			apiKey, ok := a.creds.APIKey(campaign.WorkspaceID)
			if !ok {
				a.log.Warn("no API key for workspace, skipping campaign",
					zap.String("workspace_id", campaign.WorkspaceID),
					zap.String("campaign", campaign.Name))
				return nil
			}

			var analytics []upstream.CampaignAnalytics
			err := a.defaultRetry.Do(gctx, a.log, func(ctx context.Context) error {
				var err error
				analytics, err = a.client.CampaignAnalytics(ctx, apiKey, upstream.AnalyticsQuery{
					CampaignID:        campaign.CampaignID,
					StartDate:         startDate,
					EndDate:           endDate,
					ExcludeTotalLeads: true,
				})
				return err
			})
			if err != nil {
				a.log.Warn("failed to fetch campaign analytics, skipping",
					zap.String("campaign_id", campaign.CampaignID),
					zap.Error(err))
				return nil
			}

			annotated := campaign
			annotated.Analytics = &models.CampaignAnalytics{}
			if len(analytics) > 0 {
				raw := analytics[0]
				annotated.Status = raw.CampaignStatus
				annotated.Analytics = &models.CampaignAnalytics{
					LeadsCount:            raw.LeadsCount,
					ContactedCount:        raw.ContactedCount,
					EmailsSentCount:       raw.EmailsSentCount,
					OpenCount:             raw.OpenCount,
					ReplyCount:            raw.ReplyCount,
					LinkClickCount:        raw.LinkClickCount,
					BouncedCount:          raw.BouncedCount,
					UnsubscribedCount:     raw.UnsubscribedCount,
					CompletedCount:        raw.CompletedCount,
					TotalOpportunities:    raw.TotalOpportunities,
					TotalOpportunityValue: raw.TotalOpportunityValue,
				}
			}
			normalize.FillRates(annotated.Analytics)
			results[i] = &annotated
			return nil
		})
	}
	_ = g.Wait() // goroutines only log, failures are skips

	campaigns := make([]models.Campaign, 0, len(results))
	var totals models.CampaignAnalytics
	var counts models.CategoryCounts
	for _, r := range results {
		if r == nil {
			continue
		}
		campaigns = append(campaigns, *r)
		totals.Add(*r.Analytics)
		switch r.Category {
		case models.CategoryRoger:
			counts.Roger++
		case models.CategoryReachify:
			counts.Reachify++
		case models.CategoryPrusa:
			counts.Prusa++
		}
	}
	normalize.FillRates(&totals)

	return &models.UnifiedAnalyticsResponse{
		Campaigns:  campaigns,
		Totals:     totals,
		Categories: counts,
		Message:    fmt.Sprintf("Fetched analytics for %d campaigns", len(campaigns)),
	}
}

// DailyAnalytics fetches per-day activity for every campaign in scope and
// merges rows by calendar date. The merge is plain addition, so the order
// campaigns complete in does not affect the result.
func (a *Aggregator) DailyAnalytics(ctx context.Context, scope Scope, startDate, endDate string) *models.DailyAnalyticsResponse {
	candidates := a.resolveCampaigns(ctx, scope)

	type dailyResult struct {
		campaign models.Campaign
		entries  []upstream.DailyEntry
	}

	results := make([]*dailyResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelFetchLimit)

	for i, campaign := range candidates {
		g.Go(func() error {
			apiKey, ok := a.creds.APIKey(campaign.WorkspaceID)
			if !ok {
				a.log.Warn("no API key for workspace, skipping campaign",
					zap.String("workspace_id", campaign.WorkspaceID),
					zap.String("campaign", campaign.Name))
				return nil
			}

			var entries []upstream.DailyEntry
			err := a.defaultRetry.Do(gctx, a.log, func(ctx context.Context) error {
				var err error
				entries, err = a.client.DailyAnalytics(ctx, apiKey, campaign.CampaignID, startDate, endDate)
				return err
			})
			if err != nil {
				a.log.Warn("failed to fetch daily analytics, skipping",
					zap.String("campaign_id", campaign.CampaignID),
					zap.Error(err))
				return nil
			}
			results[i] = &dailyResult{campaign: campaign, entries: entries}
			return nil
		})
	}
	_ = g.Wait()

	byDate := make(map[string]*models.DailyAnalyticsPoint)
	var refs []models.CampaignRef
	for _, r := range results {
		if r == nil {
			continue
		}
		refs = append(refs, models.CampaignRef{CampaignID: r.campaign.CampaignID, CampaignName: r.campaign.Name})
		for _, e := range r.entries {
			point, ok := byDate[e.Date]
			if !ok {
				point = &models.DailyAnalyticsPoint{Date: e.Date}
				byDate[e.Date] = point
			}
			point.Sent += e.Sent
			point.Contacted += e.Contacted
			point.Opened += e.Opened
			point.UniqueOpened += e.UniqueOpened
			point.Replies += e.Replies
			point.UniqueReplies += e.UniqueReplies
			point.RepliesAutomatic += e.RepliesAutomatic
			point.UniqueRepliesAutomatic += e.UniqueRepliesAutomatic
			point.Clicks += e.Clicks
			point.UniqueClicks += e.UniqueClicks
			point.Opportunities += e.Opportunities
			point.UniqueOpportunities += e.UniqueOpportunities
		}
	}

	data := make([]models.DailyAnalyticsPoint, 0, len(byDate))
	for _, point := range byDate {
		data = append(data, *point)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Date < data[j].Date })

	return &models.DailyAnalyticsResponse{
		Data:      data,
		Campaigns: refs,
		Message:   fmt.Sprintf("Fetched daily analytics for %d campaigns", len(refs)),
	}
}

// DailyForCampaign proxies one campaign's daily analytics without merging.
func (a *Aggregator) DailyForCampaign(ctx context.Context, workspaceID, campaignID, startDate, endDate string) ([]upstream.DailyEntry, error) {
	apiKey, ok := a.creds.APIKey(workspaceID)
	if !ok {
		return nil, ErrNoAPIKey
	}

	var entries []upstream.DailyEntry
	err := a.defaultRetry.Do(ctx, a.log, func(ctx context.Context) error {
		var err error
		entries, err = a.client.DailyAnalytics(ctx, apiKey, campaignID, startDate, endDate)
		return err
	})
	return entries, err
}

// CampaignsAnalytics proxies the raw upstream analytics listing for one
// workspace, optionally narrowed to a single campaign or date window.
func (a *Aggregator) CampaignsAnalytics(ctx context.Context, workspaceID string, q upstream.AnalyticsQuery) ([]upstream.CampaignAnalytics, error) {
	apiKey, ok := a.creds.APIKey(workspaceID)
	if !ok {
		return nil, ErrNoAPIKey
	}

	var analytics []upstream.CampaignAnalytics
	err := a.defaultRetry.Do(ctx, a.log, func(ctx context.Context) error {
		var err error
		analytics, err = a.client.CampaignAnalytics(ctx, apiKey, q)
		return err
	})
	return analytics, err
}

// WorkspaceCampaigns lists every exposed campaign of one workspace with its
// analytics attached. The per-workspace allow-lists are applied before the
// result leaves the server.
func (a *Aggregator) WorkspaceCampaigns(ctx context.Context, workspaceID string) (*models.WorkspaceCampaignsResponse, error) {
	apiKey, ok := a.creds.APIKey(workspaceID)
	if !ok {
		return nil, ErrNoAPIKey
	}

	var analytics []upstream.CampaignAnalytics
	err := a.defaultRetry.Do(ctx, a.log, func(ctx context.Context) error {
		var err error
		analytics, err = a.client.CampaignAnalytics(ctx, apiKey, upstream.AnalyticsQuery{})
		return err
	})
	if err != nil {
		return nil, err
	}

	campaigns := make([]models.Campaign, 0, len(analytics))
	for _, raw := range analytics {
		if !catalog.AllowedInWorkspace(workspaceID, raw.CampaignName, raw.CampaignID) {
			continue
		}
		stats := &models.CampaignAnalytics{
			LeadsCount:            raw.LeadsCount,
			ContactedCount:        raw.ContactedCount,
			EmailsSentCount:       raw.EmailsSentCount,
			OpenCount:             raw.OpenCount,
			ReplyCount:            raw.ReplyCount,
			LinkClickCount:        raw.LinkClickCount,
			BouncedCount:          raw.BouncedCount,
			UnsubscribedCount:     raw.UnsubscribedCount,
			CompletedCount:        raw.CompletedCount,
			TotalOpportunities:    raw.TotalOpportunities,
			TotalOpportunityValue: raw.TotalOpportunityValue,
		}
		normalize.FillRates(stats)
		campaigns = append(campaigns, models.Campaign{
			ID:            raw.CampaignID,
			Name:          raw.CampaignName,
			CampaignID:    raw.CampaignID,
			Status:        raw.CampaignStatus,
			WorkspaceID:   workspaceID,
			WorkspaceName: workspace.Name(workspaceID),
			Category:      workspace.Category(workspaceID),
			Analytics:     stats,
		})
	}

	return &models.WorkspaceCampaignsResponse{
		Campaigns:     campaigns,
		WorkspaceID:   workspaceID,
		WorkspaceName: workspace.Name(workspaceID),
		Total:         len(campaigns),
		Message:       fmt.Sprintf("Found %d campaigns in workspace %s", len(campaigns), workspaceID),
	}, nil
}

var variantLabels = map[string]string{"0": "A", "1": "B", "2": "C", "3": "D", "4": "E"}

// CampaignBreakdown fetches one campaign's analytics and step rows together
// and attaches the steps to the campaign. Either side failing degrades to an
// empty contribution, matching the partial-failure stance elsewhere.
func (a *Aggregator) CampaignBreakdown(ctx context.Context, workspaceID, campaignID string) ([]models.CampaignBreakdown, error) {
	apiKey, ok := a.creds.APIKey(workspaceID)
	if !ok {
		return nil, ErrNoAPIKey
	}

	var analytics []upstream.CampaignAnalytics
	var steps []upstream.StepEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := a.defaultRetry.Do(gctx, a.log, func(ctx context.Context) error {
			var err error
			analytics, err = a.client.CampaignAnalytics(ctx, apiKey, upstream.AnalyticsQuery{CampaignID: campaignID})
			return err
		})
		if err != nil {
			a.log.Warn("failed to fetch campaign analytics for breakdown",
				zap.String("campaign_id", campaignID), zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		err := a.defaultRetry.Do(gctx, a.log, func(ctx context.Context) error {
			var err error
			steps, err = a.client.StepEntries(ctx, apiKey, campaignID, "", "")
			return err
		})
		if err != nil {
			a.log.Warn("failed to fetch step analytics for breakdown",
				zap.String("campaign_id", campaignID), zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	out := make([]models.CampaignBreakdown, 0, len(analytics))
	for _, c := range analytics {
		breakdown := models.CampaignBreakdown{
			CampaignID:            c.CampaignID,
			CampaignName:          c.CampaignName,
			CampaignStatus:        c.CampaignStatus,
			LeadsCount:            c.LeadsCount,
			ContactedCount:        c.ContactedCount,
			EmailsSentCount:       c.EmailsSentCount,
			OpenCount:             c.OpenCount,
			ReplyCount:            c.ReplyCount,
			LinkClickCount:        c.LinkClickCount,
			BouncedCount:          c.BouncedCount,
			UnsubscribedCount:     c.UnsubscribedCount,
			CompletedCount:        c.CompletedCount,
			TotalOpportunities:    c.TotalOpportunities,
			TotalOpportunityValue: c.TotalOpportunityValue,
			Steps:                 []models.StepBreakdown{},
		}
		for _, s := range steps {
			if s.CampaignID != "" && s.CampaignID != c.CampaignID {
				continue
			}
			variant := s.Variant.String()
			if label, ok := variantLabels[variant]; ok {
				variant = label
			}
			breakdown.Steps = append(breakdown.Steps, models.StepBreakdown{
				Step:          s.Step.String(),
				Variant:       variant,
				Sent:          s.Sent,
				Opened:        s.UniqueOpened,
				UniqueOpened:  s.UniqueOpened,
				Replies:       s.UniqueReplies,
				UniqueReplies: s.UniqueReplies,
				Clicks:        s.UniqueClicks,
				UniqueClicks:  s.UniqueClicks,
			})
		}
		sort.Slice(breakdown.Steps, func(i, j int) bool {
			return breakdown.Steps[i].Variant < breakdown.Steps[j].Variant
		})
		out = append(out, breakdown)
	}
	return out, nil
}

// StepAnalytics proxies step-level analytics for one campaign untouched.
func (a *Aggregator) StepAnalytics(ctx context.Context, workspaceID, campaignID, startDate, endDate string) (json.RawMessage, error) {
	apiKey, ok := a.creds.APIKey(workspaceID)
	if !ok {
		return nil, ErrNoAPIKey
	}

	var raw json.RawMessage
	err := a.defaultRetry.Do(ctx, a.log, func(ctx context.Context) error {
		var err error
		raw, err = a.client.StepAnalytics(ctx, apiKey, campaignID, startDate, endDate)
		return err
	})
	return raw, err
}
