// Package tasks holds the recurring maintenance jobs run by schedule:run.
package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/schedule"
)

// StaleCartAge is how long an untouched cart survives.
const StaleCartAge = 30 * 24 * time.Hour

func Register(s *schedule.Scheduler, db *gorm.DB) error {
	if err := s.Add("bookings:complete", "@hourly", CompleteBookings(db)); err != nil {
		return err
	}
	return s.Add("carts:prune", "@daily", PruneCarts(db))
}

// CompleteBookings marks confirmed bookings of finished classes COMPLETED.
func CompleteBookings(db *gorm.DB) schedule.Task {
	bookings := services.NewBookingService(db)
	return func(ctx context.Context) error {
		n, err := bookings.CompleteEnded(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.WithCtx(ctx).Info("bookings completed", "count", n)
		}
		return nil
	}
}

func PruneCarts(db *gorm.DB) schedule.Task {
	carts := services.NewCartService(db)
	return func(ctx context.Context) error {
		n, err := carts.PruneStale(ctx, time.Now().Add(-StaleCartAge))
		if err != nil {
			return err
		}
		if n > 0 {
			logger.WithCtx(ctx).Info("stale carts pruned", "count", n)
		}
		return nil
	}
}
