package models

import (
	"time"

	"gorm.io/datatypes"
)

// Class levels and statuses.
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"

	ClassActive    = "ACTIVE"
	ClassCancelled = "CANCELLED"
	ClassCompleted = "COMPLETED"
	ClassDraft     = "DRAFT"
)

type Class struct {
	Base
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Description  string                      `gorm:"type:text" json:"description"`
	Level        string                      `gorm:"size:20;not null;default:BEGINNER;index" json:"level"`
	Duration     string                      `gorm:"size:100" json:"duration"`
	Sessions     int                         `gorm:"not null;default:1" json:"sessions"`
	Price        float64                     `gorm:"not null;default:0" json:"price"`
	MaxStudents  int                         `gorm:"not null;default:10" json:"maxStudents"`
	Schedule     string                      `gorm:"size:255" json:"schedule"`
	StartDate    time.Time                   `gorm:"index" json:"startDate"`
	EndDate      time.Time                   `json:"endDate"`
	Location     string                      `gorm:"size:255" json:"location"`
	Address      string                      `gorm:"size:500" json:"address"`
	Image        string                      `gorm:"size:500" json:"image"`
	Category     string                      `gorm:"size:100" json:"category"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Materials    datatypes.JSONSlice[string] `json:"materials"`
	Highlights   datatypes.JSONSlice[string] `json:"highlights"`
	Curriculum   datatypes.JSONSlice[string] `json:"curriculum"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Included     datatypes.JSONSlice[string] `json:"included"`
	Status       string                      `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`

	Enrollments   []Booking `gorm:"foreignKey:ClassID" json:"enrollments,omitempty"`
	BookingsCount int64     `gorm:"-:all" json:"bookingsCount"`
	SpotsLeft     *int64    `gorm:"-:all" json:"spotsLeft,omitempty"`
}
