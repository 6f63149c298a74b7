// Package listeners reacts to domain events: each one is pushed to the
// admin live feed and turned into a queued job.
package listeners

import (
	"context"

	"github.com/inkwell-studio/atelier/app/jobs"
	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/queue"
)

// Publisher broadcasts to live admin clients.
type Publisher interface {
	Publish(eventType string, data any)
}

// Dispatcher queues jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, j queue.Job) error
}

func Register(bus *event.Bus, hub Publisher, q Dispatcher) {
	dispatch := func(ctx context.Context, j queue.Job) {
		if err := q.Dispatch(ctx, j); err != nil {
			logger.WithCtx(ctx).Error("listeners: dispatch failed", "job", j.Name(), "error", err)
		}
	}

	bus.Listen(services.EventBookingCreated, func(ctx context.Context, payload any) {
		b, ok := payload.(models.Booking)
		if !ok {
			return
		}
		hub.Publish(services.EventBookingCreated, b)
		dispatch(ctx, &jobs.SendBookingConfirmation{BookingID: b.ID})
	})

	bus.Listen(services.EventOrderPlaced, func(ctx context.Context, payload any) {
		o, ok := payload.(models.Order)
		if !ok {
			return
		}
		hub.Publish(services.EventOrderPlaced, o)
		dispatch(ctx, &jobs.SendOrderConfirmation{OrderID: o.ID})
	})

	bus.Listen(services.EventInquiryCreated, func(ctx context.Context, payload any) {
		inq, ok := payload.(models.Inquiry)
		if !ok {
			return
		}
		hub.Publish(services.EventInquiryCreated, inq)
		dispatch(ctx, &jobs.NotifyInquiry{InquiryID: inq.ID})
	})

	// never published: the payload holds a live reset token
	bus.Listen(services.EventPasswordReset, func(ctx context.Context, payload any) {
		p, ok := payload.(services.PasswordResetRequested)
		if !ok {
			return
		}
		dispatch(ctx, &jobs.SendPasswordReset{Email: p.Email, Recipient: p.Name, Token: p.Token})
	})
}
