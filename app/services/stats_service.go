package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService { return &StatsService{db: db} }

// Stats is the admin dashboard summary.
type Stats struct {
	Artworks          int64            `json:"artworks"`
	AvailableArtworks int64            `json:"availableArtworks"`
	Classes           int64            `json:"classes"`
	UpcomingClasses   int64            `json:"upcomingClasses"`
	Bookings          int64            `json:"bookings"`
	Orders            int64            `json:"orders"`
	OrdersByStatus    map[string]int64 `json:"ordersByStatus"`
	Revenue           float64          `json:"revenue"`
	UnreadInquiries   int64            `json:"unreadInquiries"`
	Users             int64            `json:"users"`
}

// Stats counts placed orders only; carts are not orders yet.
func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)
	st := Stats{OrdersByStatus: map[string]int64{}}

	counts := []struct {
		dest  *int64
		model any
		where []any
	}{
		{&st.Artworks, &models.Artwork{}, nil},
		{&st.AvailableArtworks, &models.Artwork{}, []any{"status = ?", models.ArtworkAvailable}},
		{&st.Classes, &models.Class{}, nil},
		{&st.UpcomingClasses, &models.Class{}, []any{"start_date >= ? AND status = ?", time.Now(), models.ClassActive}},
		{&st.Bookings, &models.Booking{}, []any{"status <> ?", models.BookingCancelled}},
		{&st.Orders, &models.Order{}, []any{"status <> ?", models.OrderPending}},
		{&st.UnreadInquiries, &models.Inquiry{}, []any{"status = ?", models.InquiryUnread}},
		{&st.Users, &models.User{}, nil},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return st, fmt.Errorf("stats: count: %w", err)
		}
	}

	var byStatus []struct {
		Status string
		Total  int64
	}
	err := db.Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Where("status <> ?", models.OrderPending).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return st, fmt.Errorf("stats: orders by status: %w", err)
	}
	for _, r := range byStatus {
		st.OrdersByStatus[r.Status] = r.Total
	}

	var revenue struct{ Revenue float64 }
	err = db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("status NOT IN ?", []string{models.OrderPending, models.OrderCancelled}).
		Scan(&revenue).Error
	if err != nil {
		return st, fmt.Errorf("stats: revenue: %w", err)
	}
	st.Revenue = revenue.Revenue
	return st, nil
}
