package aggregator

import (
	"context"
	"fmt"

	"campaigndash-be/internal/models"
	"campaigndash-be/internal/normalize"
	"campaigndash-be/internal/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LeadsInbox fetches the first lead page of every campaign in scope in
// parallel, merges them, and paginates the merged list by offset/limit.
// A failed campaign contributes nothing instead of failing the request.
func (a *Aggregator) LeadsInbox(ctx context.Context, scope Scope, limit, offset int) *models.LeadsInboxResponse {
	if limit <= 0 {
		limit = maxLeadPageSize
	}
	if offset < 0 {
		offset = 0
	}
	candidates := a.resolveCampaigns(ctx, scope)
	results := a.fetchLeads(ctx, candidates, maxLeadPageSize)

	var all []models.Lead
	for _, leads := range results {
		all = append(all, leads...)
	}
	normalize.SortLeadsRecent(all)

	page, hasMore := normalize.Paginate(all, offset, limit)
	return &models.LeadsInboxResponse{
		Leads:     page,
		Total:     len(all),
		Limit:     limit,
		Offset:    offset,
		HasMore:   hasMore,
		Campaigns: len(candidates),
		Message:   countMessage("Found", len(all), len(candidates), "leads"),
	}
}

// PositiveResponses keeps only leads marked interested or out-of-office and
// returns the most recent ones first.
func (a *Aggregator) PositiveResponses(ctx context.Context, scope Scope, limit int) *models.PositiveResponsesResponse {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit
	if fetchLimit > maxLeadPageSize {
		fetchLimit = maxLeadPageSize
	}
	candidates := a.resolveCampaigns(ctx, scope)
	results := a.fetchLeads(ctx, candidates, fetchLimit)

	var positive []models.Lead
	for _, leads := range results {
		for _, lead := range leads {
			if normalize.IsPositiveStatus(lead.LtInterestStatus) {
				positive = append(positive, lead)
			}
		}
	}
	normalize.SortPositiveRecent(positive)

	limited, _ := normalize.Paginate(positive, 0, limit)
	return &models.PositiveResponsesResponse{
		Leads:   limited,
		Total:   len(limited),
		Message: countMessage("Found", len(limited), len(candidates), "positive responses"),
	}
}

// fetchLeads runs the per-campaign lead listing fan-out. The returned slice
// is indexed by candidate; failed entries are nil.
func (a *Aggregator) fetchLeads(ctx context.Context, candidates []models.Campaign, limit int) [][]models.Lead {
	results := make([][]models.Lead, len(candidates))
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

			var page *upstream.LeadPage
			err := a.defaultRetry.Do(gctx, a.log, func(ctx context.Context) error {
				var err error
				page, err = a.client.ListLeads(ctx, apiKey, upstream.LeadQuery{
					Campaign: campaign.CampaignID,
					Limit:    limit,
				})
				return err
			})
			if err != nil {
				a.log.Warn("failed to fetch leads for campaign",
					zap.String("campaign_id", campaign.CampaignID),
					zap.Error(err))
				return nil
			}

			leads := make([]models.Lead, 0, len(page.Items))
			for _, item := range page.Items {
				leads = append(leads, mapLead(item, campaign))
			}
			results[i] = leads
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func mapLead(l upstream.Lead, campaign models.Campaign) models.Lead {
	id := l.ID
	if id == "" {
		id = l.Email
	}
	status := l.LtInterestStatus
	if status == nil {
		status = l.Status
	}
	updated := l.TimestampUpdated
	if updated == "" {
		updated = l.TimestampCreated
	}
	return models.Lead{
		ID:                          id,
		Email:                       l.Email,
		FirstName:                   l.FirstName,
		LastName:                    l.LastName,
		CompanyName:                 l.CompanyName,
		LtInterestStatus:            status,
		TimestampCreated:            l.TimestampCreated,
		TimestampUpdated:            updated,
		TimestampLastReply:          l.TimestampLastReply,
		TimestampLastInterestChange: l.TimestampLastInterestChange,
		EmailOpenCount:              l.EmailOpenCount,
		EmailReplyCount:             l.EmailReplyCount,
		VerificationStatus:          l.VerificationStatus,
		CampaignName:                campaign.Name,
		CampaignID:                  campaign.CampaignID,
		WorkspaceName:               campaign.WorkspaceName,
		Category:                    campaign.Category,
	}
}

// Leads is the single-workspace cursor-paginated listing. Unlike the inbox
// it proxies one upstream page and enriches each lead with display fields.
func (a *Aggregator) Leads(ctx context.Context, workspaceID, campaignID, startingAfter string, page int) (*models.LeadListResponse, error) {
	apiKey, ok := a.creds.APIKey(workspaceID)
	if !ok {
		return nil, ErrNoAPIKey
	}
	if page < 1 {
		page = 1
	}

	var result *upstream.LeadPage
	err := a.defaultRetry.Do(ctx, a.log, func(ctx context.Context) error {
		var err error
		result, err = a.client.ListLeads(ctx, apiKey, upstream.LeadQuery{
			Campaign:      campaignID,
			Limit:         maxLeadPageSize,
			StartingAfter: startingAfter,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.LeadDetail, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, models.LeadDetail{
			ID:                   l.ID,
			Name:                 fullName(l.FirstName, l.LastName),
			FirstName:            l.FirstName,
			LastName:             l.LastName,
			Email:                l.Email,
			CompanyName:          l.CompanyName,
			CompanyDomain:        l.CompanyDomain,
			Phone:                l.Phone,
			Website:              l.Website,
			LtInterestStatus:     intOrZero(l.LtInterestStatus),
			InterestStatusText:   normalize.InterestStatusText(l.LtInterestStatus),
			Status:               l.Status,
			Campaign:             l.Campaign,
			EmailOpenCount:       l.EmailOpenCount,
			EmailReplyCount:      l.EmailReplyCount,
			EmailClickCount:      l.EmailClickCount,
			VerificationStatus:   l.VerificationStatus,
			TimestampCreated:     l.TimestampCreated,
			TimestampUpdated:     l.TimestampUpdated,
			TimestampLastContact: l.TimestampLastContact,
			TimestampLastOpen:    l.TimestampLastOpen,
			TimestampLastReply:   l.TimestampLastReply,
		})
	}

	return &models.LeadListResponse{
		Items:             items,
		TotalLeads:        len(items),
		NextStartingAfter: result.NextStartingAfter,
		HasMore:           result.NextStartingAfter != "",
		CurrentPage:       page,
		Message:           fmt.Sprintf("Fetched %d leads for page %d", len(items), page),
	}, nil
}
