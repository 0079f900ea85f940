package models

// Email type discriminator used by the upstream (ue_type).
const (
	EmailTypeCampaign  = 1
	EmailTypeReceived  = 2
	EmailTypeSent      = 3
	EmailTypeScheduled = 4
)

type EmailBody struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Email is one message from a campaign thread, annotated with the campaign
// and workspace it was fetched through. Never persisted server-side.
type Email struct {
	ID                 string    `json:"id"`
	FromAddressEmail   string    `json:"from_address_email"`
	ToAddressEmailList string    `json:"to_address_email_list"`
	Subject            string    `json:"subject"`
	Body               EmailBody `json:"body"`
	TimestampEmail     string    `json:"timestamp_email"`
	TimestampCreated   string    `json:"timestamp_created,omitempty"`
	UEType             int       `json:"ue_type"`
	CampaignName       string    `json:"campaignName"`
	CampaignID         string    `json:"campaignId"`
	WorkspaceName      string    `json:"workspaceName"`
	Category           Category  `json:"category"`
	IsUnread           bool      `json:"is_unread"`
	ContentPreview     string    `json:"content_preview"`
	Lead               string    `json:"lead"`
	ThreadID           string    `json:"thread_id"`
	IStatus            *int      `json:"i_status,omitempty"`
	LeadFirstName      string    `json:"lead_first_name,omitempty"`
	LeadLastName       string    `json:"lead_last_name,omitempty"`
	LeadCompany        string    `json:"lead_company,omitempty"`
}

type EmailListResponse struct {
	Emails    []Email `json:"emails"`
	Total     int     `json:"total"`
	Limit     int     `json:"limit"`
	HasMore   bool    `json:"hasMore"`
	Campaigns int     `json:"campaigns"`
	Message   string  `json:"message"`
}

// EmailTemplate is one subject/body variant extracted from a campaign's
// sequence structure.
type EmailTemplate struct {
	ID              string   `json:"id"`
	CampaignName    string   `json:"campaignName"`
	CampaignID      string   `json:"campaignId"`
	WorkspaceName   string   `json:"workspaceName"`
	Category        Category `json:"category"`
	SubsequenceID   string   `json:"subsequenceId"`
	SubsequenceName string   `json:"subsequenceName"`
	SequenceIndex   int      `json:"sequenceIndex"`
	StepIndex       int      `json:"stepIndex"`
	VariantIndex    int      `json:"variantIndex"`
	Subject         string   `json:"subject"`
	Body            string   `json:"body"`
	StepName        string   `json:"step_name"`
	VariantName     string   `json:"variant_name"`
}

type EmailTemplatesResponse struct {
	EmailTemplates []EmailTemplate `json:"emailTemplates"`
	Total          int             `json:"total"`
	Campaigns      int             `json:"campaigns"`
	Message        string          `json:"message"`
}
