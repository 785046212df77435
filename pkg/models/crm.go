package models

import "time"

// CRMRequest is a phone consultation request keyed by phone number.
type CRMRequest struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Called    bool      `json:"called"`
	Notes     *string   `json:"notes"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
