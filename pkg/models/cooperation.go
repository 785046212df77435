package models

import "time"

type Cooperation struct {
	ID         int64             `json:"id"`
	TelegramID int64             `json:"telegram_id"`
	Username   string            `json:"username"`
	Phone      string            `json:"phone"`
	City       string            `json:"city"`
	ResumeText string            `json:"resume_text"`
	Status     CooperationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
