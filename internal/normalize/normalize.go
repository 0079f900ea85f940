// Package normalize reshapes merged upstream data into the dashboard's
// stable output schema: recency ordering, pagination, defaulting, derived
// rates, and body sanitizing all live here rather than at call sites.
package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"campaigndash-be/internal/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sahilm/fuzzy"
)

var htmlPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips unsafe markup from upstream-supplied email bodies
// before they are served to the dashboard.
func SanitizeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlPolicy.Sanitize(s)
}

// ParseTime returns the first parseable timestamp from the fallback chain,
// or the zero time when none parses. Upstream mixes RFC3339 variants.
func ParseTime(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, c); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// SortEmailsRecent orders emails most-recent-first by timestamp_email,
// falling back to timestamp_created. The sort is stable; ties keep arrival
// order.
func SortEmailsRecent(emails []models.Email) {
	sort.SliceStable(emails, func(i, j int) bool {
		a := ParseTime(emails[i].TimestampEmail, emails[i].TimestampCreated)
		b := ParseTime(emails[j].TimestampEmail, emails[j].TimestampCreated)
		return a.After(b)
	})
}

// SortLeadsRecent orders leads by last reply, then last update, then
// creation time, most recent first.
func SortLeadsRecent(leads []models.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a := ParseTime(leads[i].TimestampLastReply, leads[i].TimestampUpdated, leads[i].TimestampCreated)
		b := ParseTime(leads[j].TimestampLastReply, leads[j].TimestampUpdated, leads[j].TimestampCreated)
		return a.After(b)
	})
}

// SortPositiveRecent orders positive-response leads by the most recent
// interest change first, then reply, then update time.
func SortPositiveRecent(leads []models.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a := ParseTime(leads[i].TimestampLastInterestChange, leads[i].TimestampLastReply, leads[i].TimestampUpdated)
		b := ParseTime(leads[j].TimestampLastInterestChange, leads[j].TimestampLastReply, leads[j].TimestampUpdated)
		return a.After(b)
	})
}

// Paginate slices items by offset/limit and reports whether more remain.
func Paginate[T any](items []T, offset, limit int) ([]T, bool) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset < len(items)
	}
	if offset >= len(items) {
		return nil, false
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], end < len(items)
}

// Rate guards division by zero: a malformed upstream state with a zero
// denominator yields 0, never NaN or Inf.
func Rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// FillRates computes the derived percentage fields on a roll-up. Rates are
// never persisted; they are recomputed on every response.
func FillRates(a *models.CampaignAnalytics) {
	a.OpenRate = Rate(a.OpenCount, a.EmailsSentCount)
	a.ReplyRate = Rate(a.ReplyCount, a.EmailsSentCount)
	a.ClickRate = Rate(a.LinkClickCount, a.EmailsSentCount)
	a.BounceRate = Rate(a.BouncedCount, a.EmailsSentCount)
}

// InterestStatusText maps the lead sentiment enum to display text. Values
// outside the known set render as a custom status instead of erroring.
// TODO: status 0 is shown as "Referral" in one legacy dashboard view;
// confirm the canonical meaning with the product owner.
func InterestStatusText(status *int) string {
	if status == nil {
		return "No Status Set"
	}
	switch *status {
	case 0:
		return "Out of Office"
	case 1:
		return "Interested"
	case 2:
		return "Meeting Booked"
	case 3:
		return "Meeting Completed"
	case 4:
		return "Closed"
	case -1:
		return "Not Interested"
	case -2:
		return "Wrong Person"
	case -3:
		return "Lost"
	default:
		return fmt.Sprintf("Custom Status (%d)", *status)
	}
}

// IsPositiveStatus reports whether a lead counts as a positive response
// (interested or out-of-office auto-reply).
func IsPositiveStatus(status *int) bool {
	return status != nil && (*status == 0 || *status == 1)
}

// FilterEmailsBySearch keeps emails whose subject, addresses, or lead match
// the term, by substring first and fuzzy match second. Applied after the
// merge so results are consistent across campaigns regardless of what the
// upstream's own search matched per campaign.
func FilterEmailsBySearch(emails []models.Email, term string) []models.Email {
	if term == "" {
		return emails
	}
	lower := strings.ToLower(term)

	var out []models.Email
	var haystack []string
	var candidates []models.Email
	for _, e := range emails {
		target := strings.ToLower(e.Subject + " " + e.FromAddressEmail + " " + e.ToAddressEmailList + " " + e.Lead)
		if strings.Contains(target, lower) {
			out = append(out, e)
			continue
		}
		haystack = append(haystack, target)
		candidates = append(candidates, e)
	}

	for _, m := range fuzzy.Find(lower, haystack) {
		out = append(out, candidates[m.Index])
	}
	return out
}
