// Package aggregator fans requests out across every campaign in scope and
// merges the per-campaign results into single dashboard responses. Partial
// upstream failure is absorbed here; it never propagates to handlers.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campaigndash-be/internal/catalog"
	"campaigndash-be/internal/models"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/workspace"

	"go.uber.org/zap"
)

// ErrNoAPIKey is returned by single-workspace operations when the resolved
// credential slot is empty. Multi-campaign operations skip instead.
var ErrNoAPIKey = errors.New("no API key configured for workspace")

// Sequential endpoints cap the campaign set so one request cannot burn the
// upstream rate budget.
const maxCampaignsPerScan = 5

// Upstream caps lead listing at 100 per request.
const maxLeadPageSize = 100

const parallelFetchLimit = 5

// Timing holds the pacing knobs for sequential fetch loops. Tests zero these
// out; production uses DefaultTiming.
type Timing struct {
	InterRequest      time.Duration
	TemplateDelay     time.Duration
	SubsequenceDelay  time.Duration
	RateLimitCooldown time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		InterRequest:      time.Second,
		TemplateDelay:     500 * time.Millisecond,
		SubsequenceDelay:  200 * time.Millisecond,
		RateLimitCooldown: 5 * time.Second,
	}
}

// Scope narrows which campaigns an operation covers. Zero value means every
// known campaign.
type Scope struct {
	Category    models.Category
	CampaignID  string
	WorkspaceID string
}

type Aggregator struct {
	client  *upstream.Client
	catalog *catalog.Catalog
	creds   *workspace.Resolver
	log     *zap.Logger

	timing        Timing
	defaultRetry  upstream.RetryPolicy
	emailRetry    upstream.RetryPolicy
	templateRetry upstream.RetryPolicy
}

func New(client *upstream.Client, cat *catalog.Catalog, creds *workspace.Resolver, log *zap.Logger) *Aggregator {
	return &Aggregator{
		client:        client,
		catalog:       cat,
		creds:         creds,
		log:           log,
		timing:        DefaultTiming(),
		defaultRetry:  upstream.DefaultRetry(),
		emailRetry:    upstream.EmailRetry(),
		templateRetry: upstream.DefaultRetry(),
	}
}

// resolveCampaigns expands the scope's category through the catalog and then
// applies the optional campaign/workspace narrowing.
func (a *Aggregator) resolveCampaigns(ctx context.Context, scope Scope) []models.Campaign {
	campaigns := a.catalog.Campaigns(ctx, scope.Category)

	if scope.CampaignID != "" {
		var narrowed []models.Campaign
		for _, c := range campaigns {
			if c.CampaignID == scope.CampaignID {
				narrowed = append(narrowed, c)
			}
		}
		campaigns = narrowed
	}
	if scope.WorkspaceID != "" {
		var narrowed []models.Campaign
		for _, c := range campaigns {
			if c.WorkspaceID == scope.WorkspaceID {
				narrowed = append(narrowed, c)
			}
		}
		campaigns = narrowed
	}
	return campaigns
}

// truncateForScan caps the campaign set for the sequential endpoints.
func (a *Aggregator) truncateForScan(campaigns []models.Campaign) []models.Campaign {
	if len(campaigns) > maxCampaignsPerScan {
		a.log.Info("limiting campaign scan to avoid rate limits",
			zap.Int("total", len(campaigns)),
			zap.Int("limit", maxCampaignsPerScan))
		return campaigns[:maxCampaignsPerScan]
	}
	return campaigns
}

func (a *Aggregator) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func countMessage(verb string, found, campaigns int, noun string) string {
	return fmt.Sprintf("%s %d %s across %d campaigns", verb, found, noun, campaigns)
}

// fullName joins a lead's name parts, falling back to "Unknown" so the
// dashboard never renders an empty cell.
func fullName(first, last string) string {
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
