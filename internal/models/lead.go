package models

// Lead is a contact targeted by a campaign, annotated with the campaign it
// was fetched through.
type Lead struct {
	ID                          string   `json:"id"`
	Email                       string   `json:"email"`
	FirstName                   string   `json:"first_name,omitempty"`
	LastName                    string   `json:"last_name,omitempty"`
	CompanyName                 string   `json:"company_name,omitempty"`
	LtInterestStatus            *int     `json:"lt_interest_status"`
	TimestampCreated            string   `json:"timestamp_created,omitempty"`
	TimestampUpdated            string   `json:"timestamp_updated,omitempty"`
	TimestampLastReply          string   `json:"timestamp_last_reply,omitempty"`
	TimestampLastInterestChange string   `json:"timestamp_last_interest_change,omitempty"`
	EmailOpenCount              int      `json:"email_open_count"`
	EmailReplyCount             int      `json:"email_reply_count"`
	VerificationStatus          int      `json:"verification_status"`
	CampaignName                string   `json:"campaignName"`
	CampaignID                  string   `json:"campaignId"`
	WorkspaceName               string   `json:"workspaceName"`
	Category                    Category `json:"category,omitempty"`
}

// LeadDetail is the richer per-lead shape served by the single-workspace
// cursor-paginated listing.
type LeadDetail struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	Email                string `json:"email"`
	CompanyName          string `json:"company_name,omitempty"`
	CompanyDomain        string `json:"company_domain,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Website              string `json:"website,omitempty"`
	LtInterestStatus     int    `json:"lt_interest_status"`
	InterestStatusText   string `json:"interest_status_text"`
	Status               *int   `json:"status,omitempty"`
	Campaign             string `json:"campaign,omitempty"`
	EmailOpenCount       int    `json:"email_open_count"`
	EmailReplyCount      int    `json:"email_reply_count"`
	EmailClickCount      int    `json:"email_click_count"`
	VerificationStatus   int    `json:"verification_status"`
	TimestampCreated     string `json:"timestamp_created,omitempty"`
	TimestampUpdated     string `json:"timestamp_updated,omitempty"`
	TimestampLastContact string `json:"timestamp_last_contact,omitempty"`
	TimestampLastOpen    string `json:"timestamp_last_open,omitempty"`
	TimestampLastReply   string `json:"timestamp_last_reply,omitempty"`
}

type LeadsInboxResponse struct {
	Leads     []Lead `json:"leads"`
	Total     int    `json:"total"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	HasMore   bool   `json:"hasMore"`
	Campaigns int    `json:"campaigns"`
	Message   string `json:"message"`
}

type LeadListResponse struct {
	Items             []LeadDetail `json:"items"`
	TotalLeads        int          `json:"total_leads"`
	NextStartingAfter string       `json:"next_starting_after,omitempty"`
	HasMore           bool         `json:"has_more"`
	CurrentPage       int          `json:"current_page"`
	Message           string       `json:"message"`
}

type PositiveResponsesResponse struct {
	Leads   []Lead `json:"leads"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}
