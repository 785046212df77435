package models

import "time"

// User is created unapproved on first contact and approved once at the end of registration.
type User struct {
	ID         int64      `json:"id"`
	TelegramID int64      `json:"telegram_id"`
	Username   string     `json:"username"`
	FullName   *string    `json:"full_name"`
	City       *string    `json:"city"`
	Area       *int       `json:"area"`
	NationalID *string    `json:"national_id"`
	Phone      *string    `json:"phone"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Registration carries the fields collected by the registration flow.
type Registration struct {
	TelegramID int64
	Username   string
	FullName   string
	City       string
	Area       int
	NationalID string
	Phone      string
}

func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FullName != nil {
		return *u.FullName
	}
	return ""
}
