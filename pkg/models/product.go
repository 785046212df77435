package models

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Grade       Grade     `json:"grade"`
	Major       *Major    `json:"major"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductFilter struct {
	Grade      Grade
	Major      *Major
	ActiveOnly bool
}
