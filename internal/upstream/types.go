package upstream

import "encoding/json"

// Raw payload shapes of the Instantly v2 API. Numeric counters are value
// types so missing fields decode to 0; timestamps stay strings and are
// parsed only where ordering matters.

type CampaignAnalytics struct {
	CampaignID            string  `json:"campaign_id"`
	CampaignName          string  `json:"campaign_name"`
	CampaignStatus        int     `json:"campaign_status"`
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
}

type DailyEntry struct {
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

type EmailBody struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

type Email struct {
	ID                 string     `json:"id"`
	FromAddressEmail   string     `json:"from_address_email"`
	ToAddressEmailList string     `json:"to_address_email_list"`
	Subject            string     `json:"subject"`
	Body               *EmailBody `json:"body"`
	ContentPreview     string     `json:"content_preview"`
	TimestampEmail     string     `json:"timestamp_email"`
	TimestampCreated   string     `json:"timestamp_created"`
	UEType             int        `json:"ue_type"`
	IsUnread           bool       `json:"is_unread"`
	IStatus            *int       `json:"i_status"`
	Lead               string     `json:"lead"`
	ThreadID           string     `json:"thread_id"`
	LeadFirstName      string     `json:"lead_first_name"`
	LeadLastName       string     `json:"lead_last_name"`
	LeadCompany        string     `json:"lead_company"`
}

type EmailPage struct {
	Items []Email `json:"items"`
}

type Lead struct {
	ID                          string `json:"id"`
	Email                       string `json:"email"`
	FirstName                   string `json:"first_name"`
	LastName                    string `json:"last_name"`
	CompanyName                 string `json:"company_name"`
	CompanyDomain               string `json:"company_domain"`
	Phone                       string `json:"phone"`
	Website                     string `json:"website"`
	LtInterestStatus            *int   `json:"lt_interest_status"`
	Status                      *int   `json:"status"`
	Campaign                    string `json:"campaign"`
	EmailOpenCount              int    `json:"email_open_count"`
	EmailReplyCount             int    `json:"email_reply_count"`
	EmailClickCount             int    `json:"email_click_count"`
	VerificationStatus          int    `json:"verification_status"`
	TimestampCreated            string `json:"timestamp_created"`
	TimestampUpdated            string `json:"timestamp_updated"`
	TimestampLastContact        string `json:"timestamp_last_contact"`
	TimestampLastOpen           string `json:"timestamp_last_open"`
	TimestampLastReply          string `json:"timestamp_last_reply"`
	TimestampLastInterestChange string `json:"timestamp_last_interest_change"`
}

type LeadPage struct {
	Items             []Lead `json:"items"`
	NextStartingAfter string `json:"next_starting_after"`
}

// StepEntry is one row of step-level analytics. Step and variant come back
// as bare numbers; json.Number keeps them lossless for display mapping.
type StepEntry struct {
	CampaignID    string      `json:"campaign_id"`
	Step          json.Number `json:"step"`
	Variant       json.Number `json:"variant"`
	Sent          int         `json:"sent"`
	UniqueOpened  int         `json:"unique_opened"`
	UniqueReplies int         `json:"unique_replies"`
	UniqueClicks  int         `json:"unique_clicks"`
}

type Variant struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Step struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Content  string    `json:"content"`
	Variants []Variant `json:"variants"`
}

type Sequence struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

type SubsequenceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CampaignDetail struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Sequences    []Sequence       `json:"sequences"`
	Subsequences []SubsequenceRef `json:"subsequences"`
	Steps        []Step           `json:"steps"`
}

type SubsequenceDetail struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Sequences []Sequence `json:"sequences"`
}
