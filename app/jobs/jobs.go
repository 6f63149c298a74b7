// Package jobs holds the queued work the API hands off after a request:
// confirmation mail, studio alerts and password-reset links.
package jobs

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/notifications"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/notification"
	"github.com/inkwell-studio/atelier/pkg/queue"
)

// Sender delivers a notification to an address.
type Sender interface {
	Send(ctx context.Context, address string, n notification.Notification) error
}

// Register makes every job decodable by queue workers. Jobs reload their
// rows by ID so a retry always mails current data.
func Register(db *gorm.DB, s Sender) {
	queue.Register(func() queue.Job { return &SendBookingConfirmation{db: db, sender: s} })
	queue.Register(func() queue.Job { return &SendOrderConfirmation{db: db, sender: s} })
	queue.Register(func() queue.Job { return &NotifyInquiry{db: db, sender: s} })
	queue.Register(func() queue.Job { return &SendPasswordReset{sender: s} })
}

type SendBookingConfirmation struct {
	BookingID uint `json:"bookingId"`

	db     *gorm.DB
	sender Sender
}

func (SendBookingConfirmation) Name() string { return "mail.booking-confirmation" }

func (j *SendBookingConfirmation) Handle(ctx context.Context) error {
	var b models.Booking
	err := j.db.WithContext(ctx).Preload("Class").Preload("User").First(&b, j.BookingID).Error
	if err != nil {
		return fmt.Errorf("load booking %d: %w", j.BookingID, err)
	}
	if b.User == nil {
		return fmt.Errorf("booking %d has no user", j.BookingID)
	}
	return j.sender.Send(ctx, b.User.Email, notifications.BookingConfirmed{Booking: b})
}

type SendOrderConfirmation struct {
	OrderID uint `json:"orderId"`

	db     *gorm.DB
	sender Sender
}

func (SendOrderConfirmation) Name() string { return "mail.order-confirmation" }

func (j *SendOrderConfirmation) Handle(ctx context.Context) error {
	var o models.Order
	err := j.db.WithContext(ctx).
		Preload("User").
		Preload("OrderItems.Artwork").
		First(&o, j.OrderID).Error
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	if o.User == nil {
		return fmt.Errorf("order %d has no user", j.OrderID)
	}
	if err := j.sender.Send(ctx, o.User.Email, notifications.OrderConfirmed{Order: o}); err != nil {
		return err
	}
	return j.sender.Send(ctx, config.AdminEmail(), notifications.OrderPlaced{Order: o})
}

type NotifyInquiry struct {
	InquiryID uint `json:"inquiryId"`

	db     *gorm.DB
	sender Sender
}

func (NotifyInquiry) Name() string { return "notify.inquiry" }

func (j *NotifyInquiry) Handle(ctx context.Context) error {
	var inq models.Inquiry
	if err := j.db.WithContext(ctx).First(&inq, j.InquiryID).Error; err != nil {
		return fmt.Errorf("load inquiry %d: %w", j.InquiryID, err)
	}
	return j.sender.Send(ctx, config.AdminEmail(), notifications.InquiryReceived{Inquiry: inq})
}

// SendPasswordReset carries the token itself; there is no row to reload.
type SendPasswordReset struct {
	Email     string `json:"email"`
	Recipient string `json:"name"`
	Token     string `json:"token"`

	sender Sender
}

func (SendPasswordReset) Name() string { return "mail.password-reset" }

func (j *SendPasswordReset) Handle(ctx context.Context) error {
	return j.sender.Send(ctx, j.Email, notifications.PasswordReset{Name: j.Recipient, Token: j.Token})
}

// Bind attaches dependencies to a job built outside the queue, for
// running it inline.
func Bind(j queue.Job, db *gorm.DB, s Sender) queue.Job {
	switch v := j.(type) {
	case *SendBookingConfirmation:
		v.db, v.sender = db, s
	case *SendOrderConfirmation:
		v.db, v.sender = db, s
	case *NotifyInquiry:
		v.db, v.sender = db, s
	case *SendPasswordReset:
		v.sender = s
	}
	return j
}
