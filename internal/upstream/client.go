package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client talks to the Instantly v2 API. Every call authenticates with the
// bearer token of the workspace it targets; the client itself holds no
// credentials.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// AnalyticsQuery narrows a campaign analytics request.
type AnalyticsQuery struct {
	CampaignID        string
	StartDate         string
	EndDate           string
	ExcludeTotalLeads bool
}

func (c *Client) CampaignAnalytics(ctx context.Context, apiKey string, q AnalyticsQuery) ([]CampaignAnalytics, error) {
	params := url.Values{}
	if q.CampaignID != "" {
		params.Set("id", q.CampaignID)
	}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.ExcludeTotalLeads {
		params.Set("exclude_total_leads_count", "true")
	}

	var out []CampaignAnalytics
	if err := c.getJSON(ctx, apiKey, "/api/v2/campaigns/analytics", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DailyAnalytics(ctx context.Context, apiKey, campaignID, startDate, endDate string) ([]DailyEntry, error) {
	params := url.Values{}
	params.Set("campaign_id", campaignID)
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}

	var out []DailyEntry
	if err := c.getJSON(ctx, apiKey, "/api/v2/campaigns/analytics/daily", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StepAnalytics proxies step-level analytics; the payload is passed through
// untouched.
func (c *Client) StepAnalytics(ctx context.Context, apiKey, campaignID, startDate, endDate string) (json.RawMessage, error) {
	params := url.Values{}
	if campaignID != "" {
		params.Set("campaign_id", campaignID)
	}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}

	var out json.RawMessage
	if err := c.getJSON(ctx, apiKey, "/api/v2/campaigns/analytics/steps", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StepEntries is the typed variant of StepAnalytics for callers that merge
// step rows into campaign breakdowns.
func (c *Client) StepEntries(ctx context.Context, apiKey, campaignID, startDate, endDate string) ([]StepEntry, error) {
	raw, err := c.StepAnalytics(ctx, apiKey, campaignID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	var out []StepEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding step analytics: %w", err)
	}
	return out, nil
}

// EmailQuery narrows an email listing request. Filters are applied upstream
// where supported.
type EmailQuery struct {
	CampaignID string
	Limit      int
	EmailType  string
	IsUnread   bool
	Search     string
	IStatus    string
}

func (c *Client) Emails(ctx context.Context, apiKey string, q EmailQuery) ([]Email, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("campaign_id", q.CampaignID)
	params.Set("sort_order", "desc") // Most recent first
	if q.EmailType != "" && q.EmailType != "all" {
		params.Set("email_type", q.EmailType)
	}
	if q.IsUnread {
		params.Set("is_unread", "true")
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.IStatus != "" {
		params.Set("i_status", q.IStatus)
	}

	var page EmailPage
	if err := c.getJSON(ctx, apiKey, "/api/v2/emails", params, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// LeadQuery narrows a lead listing request. The upstream caps limit at 100.
type LeadQuery struct {
	Campaign      string
	Limit         int
	Offset        int
	StartingAfter string
}

func (c *Client) ListLeads(ctx context.Context, apiKey string, q LeadQuery) (*LeadPage, error) {
	body := map[string]interface{}{
		"limit": q.Limit,
	}
	if q.Campaign != "" {
		body["campaign"] = q.Campaign
	}
	if q.Offset > 0 {
		body["offset"] = q.Offset
	}
	if q.StartingAfter != "" {
		body["starting_after"] = q.StartingAfter
	}

	var page LeadPage
	if err := c.postJSON(ctx, apiKey, "/api/v2/leads/list", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Campaign(ctx context.Context, apiKey, campaignID string) (*CampaignDetail, error) {
	var out CampaignDetail
	if err := c.getJSON(ctx, apiKey, "/api/v2/campaigns/"+campaignID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Subsequence(ctx context.Context, apiKey, subsequenceID string) (*SubsequenceDetail, error) {
	var out SubsequenceDetail
	if err := c.getJSON(ctx, apiKey, "/api/v2/subsequences/"+subsequenceID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, apiKey, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, apiKey, out)
}

func (c *Client) postJSON(ctx context.Context, apiKey, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return c.do(req, apiKey, out)
}

func (c *Client) do(req *http.Request, apiKey string, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep a short body excerpt for diagnostics; never fail on read.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(excerpt)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding upstream response: %w", err)
	}
	return nil
}
