package models

import "time"

type Lottery struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	IsActive         bool       `json:"is_active"`
	MaxParticipants  *int       `json:"max_participants"`
	PrizeDescription *string    `json:"prize_description"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	IsDrawn          bool       `json:"is_drawn"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Open reports whether the lottery accepts new participants given the current count.
func (l *Lottery) Open(participants int, now time.Time) bool {
	if !l.IsActive || l.IsDrawn {
		return false
	}
	if l.StartDate != nil && now.Before(*l.StartDate) {
		return false
	}
	if l.EndDate != nil && now.After(*l.EndDate) {
		return false
	}
	return l.MaxParticipants == nil || participants < *l.MaxParticipants
}

type LotteryParticipant struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	Phone      string    `json:"phone"`
	LotteryID  int64     `json:"lottery_id"`
	IsVerified bool      `json:"is_verified"`
	IsWinner   bool      `json:"is_winner"`
	CreatedAt  time.Time `json:"created_at"`
}
