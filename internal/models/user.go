package models

import (
	"strings"
	"time"
)

// AdminEmail is the bootstrap administrator account. The is-admin check lives
// here and nowhere else.
const AdminEmail = "admin@campaigndash.local"

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Never send the hash to clients
	DisplayName      string    `json:"displayName,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	IsActive         bool      `json:"isActive"`
	AllowedCampaigns []string  `json:"allowedCampaigns"`
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Email, AdminEmail)
}

// CanAccess reports whether the user may view the given category. The
// "unified" grant opens every category; otherwise the category must be one
// of the known client categories and granted explicitly, so requesting all
// categories (or an unknown one) needs "unified".
func (u *User) CanAccess(category Category) bool {
	if u.IsAdmin() {
		return true
	}
	for _, c := range u.AllowedCampaigns {
		if c == "unified" {
			return true
		}
	}
	if !KnownCategory(category) {
		return false
	}
	for _, c := range u.AllowedCampaigns {
		if c == string(category) {
			return true
		}
	}
	return false
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

type CreateUserRequest struct {
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	DisplayName      string   `json:"displayName"`
	AllowedCampaigns []string `json:"allowedCampaigns"`
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Password         *string  `json:"password"`
	DisplayName      *string  `json:"displayName"`
	AllowedCampaigns []string `json:"allowedCampaigns"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
