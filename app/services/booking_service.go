package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/metrics"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService { return &BookingService{db: db} }

func (s *BookingService) List(ctx context.Context, userID uint) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := s.db.WithContext(ctx).
		Preload("Class").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("bookings: list: %w", err)
	}
	return bookings, nil
}

// Create books userID onto classID. The class row is locked for the
// duration so concurrent requests cannot oversell the last seat.
func (s *BookingService) Create(ctx context.Context, userID, classID uint, notes *string) (models.Booking, error) {
	var booking models.Booking
	outcome := "confirmed"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if seat, err := claimSeat(tx, classID); err != nil {
			outcome = seat
			return err
		}

		var existing models.Booking
		if err := tx.Where("user_id = ? AND class_id = ?", userID, classID).Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		now := time.Now()
		switch {
		case existing.ID != 0 && existing.Status != models.BookingCancelled:
			outcome = "duplicate"
			return BadRequest("You have already booked this class")
		case existing.ID != 0:
			// the unique index keeps one row per pair, so a cancelled seat is revived
			err := tx.Model(&existing).Updates(map[string]any{
				"status":    models.BookingConfirmed,
				"notes":     notes,
				"booked_at": now,
			}).Error
			if err != nil {
				return err
			}
			booking.ID = existing.ID
		default:
			booking = models.Booking{
				UserID:   userID,
				ClassID:  classID,
				Status:   models.BookingConfirmed,
				Notes:    notes,
				BookedAt: now,
			}
			if err := tx.Create(&booking).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					outcome = "duplicate"
					return BadRequest("You have already booked this class")
				}
				return err
			}
		}
		return tx.Preload("Class").Preload("User").First(&booking, booking.ID).Error
	})
	metrics.BookingsCreated.WithLabelValues(outcome).Inc()
	if err != nil {
		return models.Booking{}, err
	}

	event.FireAsync(ctx, EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, userID, id uint) (models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Preload("Class").
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error
	return b, notFoundAs(err, "Booking not found")
}

type BookingUpdate struct {
	Status *string `json:"status" validate:"in=CONFIRMED|CANCELLED|COMPLETED"`
	Notes  *string `json:"notes" validate:"max=2000"`
}

// Update changes status or notes. Moving a cancelled booking back to an
// active status takes a seat under the same class lock as Create.
func (s *BookingService) Update(ctx context.Context, userID, id uint, in BookingUpdate) (models.Booking, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return b, err
	}

	changes := map[string]any{}
	status := ""
	if in.Status != nil {
		status = strings.ToUpper(*in.Status)
		changes["status"] = status
	}
	if in.Notes != nil {
		changes["notes"] = *in.Notes
	}
	if len(changes) == 0 {
		return b, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if status != "" && status != models.BookingCancelled {
			var current models.Booking
			if err := tx.Select("id", "status").First(&current, b.ID).Error; err != nil {
				return notFoundAs(err, "Booking not found")
			}
			if current.Status == models.BookingCancelled {
				seat, err := claimSeat(tx, b.ClassID)
				metrics.BookingsCreated.WithLabelValues(seat).Inc()
				if err != nil {
					return err
				}
			}
		}
		return tx.Model(&models.Booking{}).Where("id = ?", b.ID).Updates(changes).Error
	})
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return b, err
		}
		return b, fmt.Errorf("bookings: update: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// claimSeat locks the class row and checks it can take one more active
// booking. The outcome labels the bookings metric.
func claimSeat(tx *gorm.DB, classID uint) (string, error) {
	var class models.Class
	if err := forUpdate(tx).First(&class, classID).Error; err != nil {
		return "rejected", notFoundAs(err, "Class not found")
	}
	if class.Status != models.ClassActive {
		return "rejected", BadRequest("Class is not available for booking")
	}

	var enrolled int64
	if err := tx.Model(&models.Booking{}).Where("class_id = ?", classID).Scopes(activeBookings).Count(&enrolled).Error; err != nil {
		return "rejected", err
	}
	if enrolled >= int64(class.MaxStudents) {
		return "full", BadRequest("Class is full")
	}
	return "confirmed", nil
}

// Cancel removes the user's booking, freeing the seat.
func (s *BookingService) Cancel(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Booking{})
	if res.Error != nil {
		return fmt.Errorf("bookings: cancel: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("Booking not found")
	}
	return nil
}

// CompleteEnded marks confirmed bookings of classes that ended before now
// as completed.
func (s *BookingService) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	ended := s.db.Model(&models.Class{}).Select("id").Where("end_date < ?", now)
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ? AND class_id IN (?)", models.BookingConfirmed, ended).
		Update("status", models.BookingCompleted)
	if res.Error != nil {
		return 0, fmt.Errorf("bookings: complete ended: %w", res.Error)
	}
	return res.RowsAffected, nil
}
