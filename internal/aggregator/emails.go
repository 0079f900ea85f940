package aggregator

import (
	"context"
	"fmt"

	"campaigndash-be/internal/models"
	"campaigndash-be/internal/normalize"
	"campaigndash-be/internal/upstream"

	"go.uber.org/zap"
)

// Rate-limit hits tolerated before a sequential scan gives up on the
// remaining campaigns.
const maxRateLimitHits = 2

// Per-campaign page size for the email endpoint. Kept small on purpose, the
// endpoint rate-limits aggressively.
const emailFetchLimit = 50

// EmailOptions carries the caller-facing filters for Emails.
type EmailOptions struct {
	Limit     int
	EmailType string
	IsUnread  bool
	Search    string
	IStatus   string
	ThreadID  string
}

// Emails fetches recent emails for every campaign in scope, one campaign at
// a time with a pause between requests. After maxRateLimitHits 429s the scan
// stops early and returns whatever was collected.
func (a *Aggregator) Emails(ctx context.Context, scope Scope, opts EmailOptions) *models.EmailListResponse {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	candidates := a.truncateForScan(a.resolveCampaigns(ctx, scope))

	search := opts.Search
	if opts.ThreadID != "" {
		search = "thread:" + opts.ThreadID
	}

	var all []models.Email
	rateLimitHits := 0
	for i, campaign := range candidates {
		apiKey, ok := a.creds.APIKey(campaign.WorkspaceID)
		if !ok {
			a.log.Warn("no API key for workspace, skipping campaign",
				zap.String("workspace_id", campaign.WorkspaceID),
				zap.String("campaign", campaign.Name))
			continue
		}

		if i > 0 {
			if err := a.pause(ctx, a.timing.InterRequest); err != nil {
				break
			}
		}

		var items []upstream.Email
		err := a.emailRetry.Do(ctx, a.log, func(ctx context.Context) error {
			var err error
			items, err = a.client.Emails(ctx, apiKey, upstream.EmailQuery{
				CampaignID: campaign.CampaignID,
				Limit:      emailFetchLimit,
				EmailType:  opts.EmailType,
				IsUnread:   opts.IsUnread,
				Search:     search,
				IStatus:    opts.IStatus,
			})
			return err
		})
		if err != nil {
			a.log.Warn("failed to fetch emails for campaign",
				zap.String("campaign_id", campaign.CampaignID),
				zap.Error(err))
			if upstream.IsRateLimit(err) {
				rateLimitHits++
				if rateLimitHits >= maxRateLimitHits {
					a.log.Warn("too many rate limit hits, stopping email scan",
						zap.Int("hits", rateLimitHits))
					break
				}
				if err := a.pause(ctx, a.timing.RateLimitCooldown); err != nil {
					break
				}
			}
			continue
		}

		for _, item := range items {
			all = append(all, mapEmail(item, campaign))
		}
	}

	if opts.Search != "" && opts.ThreadID == "" {
		all = normalize.FilterEmailsBySearch(all, opts.Search)
	}
	normalize.SortEmailsRecent(all)

	total := len(all)
	limited, _ := normalize.Paginate(all, 0, opts.Limit)
	return &models.EmailListResponse{
		Emails:    limited,
		Total:     total,
		Limit:     opts.Limit,
		HasMore:   opts.Limit < total,
		Campaigns: len(candidates),
		Message:   countMessage("Found", total, len(candidates), "emails"),
	}
}

func mapEmail(e upstream.Email, campaign models.Campaign) models.Email {
	body := models.EmailBody{Text: e.ContentPreview}
	if e.Body != nil {
		body = models.EmailBody{
			Text: e.Body.Text,
			HTML: normalize.SanitizeHTML(e.Body.HTML),
		}
	}
	return models.Email{
		ID:                 e.ID,
		FromAddressEmail:   e.FromAddressEmail,
		ToAddressEmailList: e.ToAddressEmailList,
		Subject:            e.Subject,
		Body:               body,
		TimestampEmail:     e.TimestampEmail,
		TimestampCreated:   e.TimestampCreated,
		UEType:             e.UEType,
		CampaignName:       campaign.Name,
		CampaignID:         campaign.CampaignID,
		WorkspaceName:      campaign.WorkspaceName,
		Category:           campaign.Category,
		IsUnread:           e.IsUnread,
		ContentPreview:     e.ContentPreview,
		Lead:               e.Lead,
		ThreadID:           e.ThreadID,
		IStatus:            e.IStatus,
		LeadFirstName:      e.LeadFirstName,
		LeadLastName:       e.LeadLastName,
		LeadCompany:        e.LeadCompany,
	}
}

// EmailTemplates walks each campaign's sequence structure and extracts every
// subject/body variant. Campaigns that expose no usable structure still get
// a placeholder entry so the dashboard can show they exist.
func (a *Aggregator) EmailTemplates(ctx context.Context, scope Scope) *models.EmailTemplatesResponse {
	candidates := a.truncateForScan(a.resolveCampaigns(ctx, scope))

	var all []models.EmailTemplate
	for i, campaign := range candidates {
		apiKey, ok := a.creds.APIKey(campaign.WorkspaceID)
		if !ok {
			a.log.Warn("no API key for workspace, skipping campaign",
				zap.String("workspace_id", campaign.WorkspaceID),
				zap.String("campaign", campaign.Name))
			continue
		}

		if i > 0 {
			if err := a.pause(ctx, a.timing.TemplateDelay); err != nil {
				break
			}
		}

		var detail *upstream.CampaignDetail
		err := a.templateRetry.Do(ctx, a.log, func(ctx context.Context) error {
			var err error
			detail, err = a.client.Campaign(ctx, apiKey, campaign.CampaignID)
			return err
		})
		if err != nil {
			a.log.Warn("failed to fetch campaign detail",
				zap.String("campaign_id", campaign.CampaignID),
				zap.Error(err))
			all = append(all, errorTemplate(campaign, err))
			continue
		}

		before := len(all)
		all = appendSequenceTemplates(all, campaign, detail.Sequences, sequenceSource{})

		for j, ref := range detail.Subsequences {
			if j > 0 {
				if err := a.pause(ctx, a.timing.SubsequenceDelay); err != nil {
					break
				}
			}
			var subseq *upstream.SubsequenceDetail
			err := a.templateRetry.Do(ctx, a.log, func(ctx context.Context) error {
				var err error
				subseq, err = a.client.Subsequence(ctx, apiKey, ref.ID)
				return err
			})
			if err != nil {
				a.log.Warn("failed to fetch subsequence",
					zap.String("subsequence_id", ref.ID),
					zap.Error(err))
				continue
			}
			all = appendSequenceTemplates(all, campaign, subseq.Sequences, sequenceSource{ID: ref.ID, Name: ref.Name})
		}

		if len(all) == before {
			all = appendStepTemplates(all, campaign, detail.Steps)
		}
		if len(all) == before {
			all = append(all, placeholderTemplate(campaign))
		}
	}

	return &models.EmailTemplatesResponse{
		EmailTemplates: all,
		Total:          len(all),
		Campaigns:      len(candidates),
		Message:        countMessage("Found", len(all), len(candidates), "email templates"),
	}
}

// sequenceSource identifies where a sequence came from: zero value for the
// campaign's own sequences, otherwise the subsequence ref.
type sequenceSource struct {
	ID   string
	Name string
}

func appendSequenceTemplates(dst []models.EmailTemplate, campaign models.Campaign, sequences []upstream.Sequence, src sequenceSource) []models.EmailTemplate {
	for seqIdx, seq := range sequences {
		for stepIdx, step := range seq.Steps {
			for varIdx, variant := range step.Variants {
				if variant.Subject == "" && variant.Body == "" {
					continue
				}

				id := fmt.Sprintf("%s-seq-%d-%d-%d", campaign.CampaignID, seqIdx, stepIdx, varIdx)
				subseqID := fmt.Sprintf("sequence-%d", seqIdx)
				subseqName := seq.Name
				if subseqName == "" {
					subseqName = fmt.Sprintf("Sequence %d", seqIdx+1)
				}
				if src.ID != "" {
					id = fmt.Sprintf("%s-%s-%d-%d-%d", campaign.CampaignID, src.ID, seqIdx, stepIdx, varIdx)
					subseqID = src.ID
					subseqName = src.Name
					if subseqName == "" {
						subseqName = "Subsequence " + src.ID
					}
				}

				dst = append(dst, models.EmailTemplate{
					ID:              id,
					CampaignName:    campaign.Name,
					CampaignID:      campaign.CampaignID,
					WorkspaceName:   campaign.WorkspaceName,
					Category:        campaign.Category,
					SubsequenceID:   subseqID,
					SubsequenceName: subseqName,
					SequenceIndex:   seqIdx + 1,
					StepIndex:       stepIdx + 1,
					VariantIndex:    varIdx + 1,
					Subject:         orDefault(variant.Subject, "No Subject"),
					Body:            orDefault(normalize.SanitizeHTML(variant.Body), "No Content"),
					StepName:        orDefault(step.Name, fmt.Sprintf("Step %d", stepIdx+1)),
					VariantName:     orDefault(variant.Name, fmt.Sprintf("Variant %d", varIdx+1)),
				})
			}
		}
	}
	return dst
}

// appendStepTemplates is the fallback for campaigns that carry bare steps
// instead of sequences.
func appendStepTemplates(dst []models.EmailTemplate, campaign models.Campaign, steps []upstream.Step) []models.EmailTemplate {
	for stepIdx, step := range steps {
		if step.Subject == "" && step.Body == "" && step.Content == "" {
			continue
		}
		subject := step.Subject
		if subject == "" {
			subject = step.Title
		}
		body := step.Body
		if body == "" {
			body = step.Content
		}
		dst = append(dst, models.EmailTemplate{
			ID:              fmt.Sprintf("%s-step-%d", campaign.CampaignID, stepIdx),
			CampaignName:    campaign.Name,
			CampaignID:      campaign.CampaignID,
			WorkspaceName:   campaign.WorkspaceName,
			Category:        campaign.Category,
			SubsequenceID:   "main",
			SubsequenceName: "Main Sequence",
			SequenceIndex:   1,
			StepIndex:       stepIdx + 1,
			VariantIndex:    1,
			Subject:         orDefault(subject, "No Subject"),
			Body:            orDefault(normalize.SanitizeHTML(body), "No Content"),
			StepName:        orDefault(step.Name, fmt.Sprintf("Step %d", stepIdx+1)),
			VariantName:     "Default",
		})
	}
	return dst
}

func placeholderTemplate(campaign models.Campaign) models.EmailTemplate {
	return models.EmailTemplate{
		ID:              campaign.CampaignID + "-placeholder",
		CampaignName:    campaign.Name,
		CampaignID:      campaign.CampaignID,
		WorkspaceName:   campaign.WorkspaceName,
		Category:        campaign.Category,
		SubsequenceID:   "unknown",
		SubsequenceName: "Unknown Structure",
		SequenceIndex:   1,
		StepIndex:       1,
		VariantIndex:    1,
		Subject:         "Email content structure not found",
		Body: fmt.Sprintf("Campaign: %s\nWorkspace: %s\nCategory: %s\n\n"+
			"This campaign exists but its email content structure could not be determined from the available APIs.",
			campaign.Name, campaign.WorkspaceName, campaign.Category),
		StepName:    "Unknown",
		VariantName: "Unknown",
	}
}

func errorTemplate(campaign models.Campaign, err error) models.EmailTemplate {
	return models.EmailTemplate{
		ID:              campaign.CampaignID + "-error",
		CampaignName:    campaign.Name,
		CampaignID:      campaign.CampaignID,
		WorkspaceName:   campaign.WorkspaceName,
		Category:        campaign.Category,
		SubsequenceID:   "error",
		SubsequenceName: "Error Loading",
		SequenceIndex:   1,
		StepIndex:       1,
		VariantIndex:    1,
		Subject:         "Error loading email content",
		Body:            fmt.Sprintf("Campaign: %s\nError: %v\n\nThis campaign could not be loaded.", campaign.Name, err),
		StepName:        "Error",
		VariantName:     "Error",
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
