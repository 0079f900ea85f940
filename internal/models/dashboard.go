package models

import "time"

// Dashboard is a saved custom view bound to a subset of campaigns.
type Dashboard struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	SelectedCampaigns []string   `json:"selectedCampaigns"`
	Campaigns         []Campaign `json:"campaigns"`
	PrimaryCategory   Category   `json:"primaryCategory"`
	CreatedAt         time.Time  `json:"createdAt"`
	IsActive          bool       `json:"isActive"`
}

type CreateDashboardRequest struct {
	Name              string     `json:"name"`
	SelectedCampaigns []string   `json:"selectedCampaigns"`
	Campaigns         []Campaign `json:"campaigns"`
}
