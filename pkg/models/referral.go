package models

import "time"

type Seller struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	TelegramID *int64    `json:"telegram_id"`
	Phone      *string   `json:"phone"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReferralCode attributes a sale to its owner. UsageLimit and CurrentUsage are
// stored but no flow increments or enforces them.
type ReferralCode struct {
	ID           int64           `json:"id"`
	OwnerID      int64           `json:"owner_id"`
	Code         string          `json:"code"`
	Product      ReferralProduct `json:"product"`
	Installment  bool            `json:"installment"`
	Grade        *Grade          `json:"grade"`
	IsActive     bool            `json:"is_active"`
	UsageLimit   *int            `json:"usage_limit"`
	CurrentUsage int             `json:"current_usage"`
	CreatedAt    time.Time       `json:"created_at"`
}

// GrantsInstallment reports whether the code unlocks installments for a product of grade g.
func (r *ReferralCode) GrantsInstallment(g Grade) bool {
	return r.Installment && r.Product.Premium() && g.HighSchool()
}
