// Package models holds the GORM models for the studio. JSON keys are
// camelCase; list columns are JSON arrays.
package models

import "time"

// Base is the primary key and timestamps shared by every table.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All lists every model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Artwork{},
		&Class{},
		&Booking{},
		&Order{},
		&OrderItem{},
		&Inquiry{},
		&Post{},
		&Testimonial{},
	}
}
