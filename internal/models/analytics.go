package models

// DailyAnalyticsPoint is one calendar day of activity, summed across every
// campaign that reported for that date.
type DailyAnalyticsPoint struct {
	Date                   string `json:"date"`
	Sent                   int    `json:"sent"`
	Contacted              int    `json:"contacted"`
	Opened                 int    `json:"opened"`
	UniqueOpened           int    `json:"unique_opened"`
	Replies                int    `json:"replies"`
	UniqueReplies          int    `json:"unique_replies"`
	RepliesAutomatic       int    `json:"replies_automatic"`
	UniqueRepliesAutomatic int    `json:"unique_replies_automatic"`
	Clicks                 int    `json:"clicks"`
	UniqueClicks           int    `json:"unique_clicks"`
	Opportunities          int    `json:"opportunities"`
	UniqueOpportunities    int    `json:"unique_opportunities"`
}

type DailyAnalyticsResponse struct {
	Data      []DailyAnalyticsPoint `json:"data"`
	Campaigns []CampaignRef         `json:"campaigns"`
	Message   string                `json:"message"`
}

// StepBreakdown is one step/variant row of a campaign breakdown. Variant
// numbers 0..4 render as the letters A..E.
type StepBreakdown struct {
	Step          string `json:"step"`
	Variant       string `json:"variant"`
	Sent          int    `json:"sent"`
	Opened        int    `json:"opened"`
	UniqueOpened  int    `json:"unique_opened"`
	Replies       int    `json:"replies"`
	UniqueReplies int    `json:"unique_replies"`
	Clicks        int    `json:"clicks"`
	UniqueClicks  int    `json:"unique_clicks"`
}

// CampaignBreakdown pairs a campaign's analytics roll-up with its per-step
// rows.
type CampaignBreakdown struct {
	CampaignID            string          `json:"campaign_id"`
	CampaignName          string          `json:"campaign_name"`
	CampaignStatus        int             `json:"campaign_status"`
	LeadsCount            int             `json:"leads_count"`
	ContactedCount        int             `json:"contacted_count"`
	EmailsSentCount       int             `json:"emails_sent_count"`
	OpenCount             int             `json:"open_count"`
	ReplyCount            int             `json:"reply_count"`
	LinkClickCount        int             `json:"link_click_count"`
	BouncedCount          int             `json:"bounced_count"`
	UnsubscribedCount     int             `json:"unsubscribed_count"`
	CompletedCount        int             `json:"completed_count"`
	TotalOpportunities    int             `json:"total_opportunities"`
	TotalOpportunityValue float64         `json:"total_opportunity_value"`
	Steps                 []StepBreakdown `json:"steps"`
}
