package models

import "time"

// Booking statuses.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Booking is a seat in a class. A user holds at most one per class.
type Booking struct {
	Base
	UserID   uint      `gorm:"not null;uniqueIndex:idx_bookings_user_class" json:"userId"`
	ClassID  uint      `gorm:"not null;uniqueIndex:idx_bookings_user_class;index" json:"classId"`
	Status   string    `gorm:"size:20;not null;default:CONFIRMED;index" json:"status"`
	Notes    *string   `gorm:"type:text" json:"notes"`
	BookedAt time.Time `json:"bookedAt"`

	User  *UserRef `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Class *Class   `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}
