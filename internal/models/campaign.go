package models

// Category is the logical client grouping a campaign belongs to.
type Category string

const (
	CategoryRoger    Category = "roger"
	CategoryReachify Category = "reachify"
	CategoryPrusa    Category = "prusa"
	CategoryAll      Category = "all"
)

// KnownCategory reports whether c names one of the three client categories.
// "all" is a request-level selector, not a campaign category.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryRoger, CategoryReachify, CategoryPrusa:
		return true
	}
	return false
}

type Campaign struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CampaignID    string             `json:"campaignId"`
	Status        int                `json:"status,omitempty"`
	WorkspaceID   string             `json:"workspaceId"`
	WorkspaceName string             `json:"workspaceName"`
	Category      Category           `json:"category"`
	Analytics     *CampaignAnalytics `json:"analytics,omitempty"`
}

// CampaignAnalytics is the roll-up for one campaign. Counters default to 0
// when the upstream omits them so rate math never sees missing values.
type CampaignAnalytics struct {
	LeadsCount            int     `json:"leads_count"`
	ContactedCount        int     `json:"contacted_count"`
	EmailsSentCount       int     `json:"emails_sent_count"`
	OpenCount             int     `json:"open_count"`
	ReplyCount            int     `json:"reply_count"`
	LinkClickCount        int     `json:"link_click_count"`
	BouncedCount          int     `json:"bounced_count"`
	UnsubscribedCount     int     `json:"unsubscribed_count"`
	CompletedCount        int     `json:"completed_count"`
	TotalOpportunities    int     `json:"total_opportunities"`
	TotalOpportunityValue float64 `json:"total_opportunity_value"`
	OpenRate              float64 `json:"open_rate"`
	ReplyRate             float64 `json:"reply_rate"`
	ClickRate             float64 `json:"click_rate"`
	BounceRate            float64 `json:"bounce_rate"`
}

// Add accumulates other into a. Addition is commutative, so merge order
// across campaigns does not matter.
func (a *CampaignAnalytics) Add(other CampaignAnalytics) {
	a.LeadsCount += other.LeadsCount
	a.ContactedCount += other.ContactedCount
	a.EmailsSentCount += other.EmailsSentCount
	a.OpenCount += other.OpenCount
	a.ReplyCount += other.ReplyCount
	a.LinkClickCount += other.LinkClickCount
	a.BouncedCount += other.BouncedCount
	a.UnsubscribedCount += other.UnsubscribedCount
	a.CompletedCount += other.CompletedCount
	a.TotalOpportunities += other.TotalOpportunities
	a.TotalOpportunityValue += other.TotalOpportunityValue
}

type CategoryCounts struct {
	Roger    int `json:"roger"`
	Reachify int `json:"reachify"`
	Prusa    int `json:"prusa"`
}

type UnifiedAnalyticsResponse struct {
	Campaigns  []Campaign        `json:"campaigns"`
	Totals     CampaignAnalytics `json:"totals"`
	Categories CategoryCounts    `json:"categories"`
	Message    string            `json:"message"`
}

// CampaignRef identifies a campaign that contributed to an aggregate.
type CampaignRef struct {
	CampaignID   string `json:"campaignId"`
	CampaignName string `json:"campaignName"`
}

type WorkspaceCampaignsResponse struct {
	Campaigns     []Campaign `json:"campaigns"`
	WorkspaceID   string     `json:"workspaceId"`
	WorkspaceName string     `json:"workspaceName"`
	Total         int        `json:"total"`
	Message       string     `json:"message"`
}
