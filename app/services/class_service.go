package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/pkg/validate"
)

type ClassService struct {
	db *gorm.DB
}

func NewClassService(db *gorm.DB) *ClassService { return &ClassService{db: db} }

type ClassFilter struct {
	Level    string
	Search   string
	Status   string
	Upcoming bool
}

func (f ClassFilter) scope(db *gorm.DB) *gorm.DB {
	if level, ok := enumFilter(f.Level); ok {
		db = db.Where("level = ?", level)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(s)
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	if status, ok := enumFilter(f.Status); ok {
		db = db.Where("status = ?", status)
	}
	if f.Upcoming {
		db = db.Where("start_date >= ?", time.Now())
	}
	return db.Order("start_date ASC")
}

// activeBookings excludes cancelled seats from capacity counts.
func activeBookings(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", models.BookingCancelled)
}

func (s *ClassService) List(ctx context.Context, f ClassFilter) ([]models.Class, error) {
	db := s.db.WithContext(ctx)
	var classes []models.Class
	if err := db.Scopes(f.scope).Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("classes: list: %w", err)
	}

	ids := make([]uint, len(classes))
	for i := range classes {
		ids[i] = classes[i].ID
	}
	counts, err := countBy(db, &models.Booking{}, "class_id", ids, activeBookings)
	if err != nil {
		return nil, fmt.Errorf("classes: count bookings: %w", err)
	}
	for i := range classes {
		classes[i].BookingsCount = counts[classes[i].ID]
	}
	return classes, nil
}

// Get loads a class with its enrollments, the active booking count and
// the seats left.
func (s *ClassService) Get(ctx context.Context, id uint) (models.Class, error) {
	var c models.Class
	err := s.db.WithContext(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB { return db.Order("booked_at ASC") }).
		Preload("Enrollments.User").
		First(&c, id).Error
	if err != nil {
		return c, notFoundAs(err, "Class not found")
	}

	for _, b := range c.Enrollments {
		if b.Status != models.BookingCancelled {
			c.BookingsCount++
		}
	}
	left := int64(c.MaxStudents) - c.BookingsCount
	if left < 0 {
		left = 0
	}
	c.SpotsLeft = &left
	return c, nil
}

// ClassInput is shared by create and partial update.
type ClassInput struct {
	Title        *string   `json:"title" validate:"max=255"`
	Description  *string   `json:"description"`
	Level        *string   `json:"level" validate:"in=BEGINNER|INTERMEDIATE|ADVANCED"`
	Duration     *string   `json:"duration" validate:"max=100"`
	Sessions     *int      `json:"sessions" validate:"gte=1"`
	Price        *float64  `json:"price" validate:"gte=0"`
	MaxStudents  *int      `json:"maxStudents" validate:"gte=1"`
	Schedule     *string   `json:"schedule" validate:"max=255"`
	StartDate    *string   `json:"startDate" validate:"date"`
	EndDate      *string   `json:"endDate" validate:"date"`
	Location     *string   `json:"location" validate:"max=255"`
	Address      *string   `json:"address" validate:"max=500"`
	Image        *string   `json:"image" validate:"max=500"`
	Category     *string   `json:"category" validate:"max=100"`
	Images       *[]string `json:"images"`
	Materials    *[]string `json:"materials"`
	Highlights   *[]string `json:"highlights"`
	Curriculum   *[]string `json:"curriculum"`
	Requirements *[]string `json:"requirements"`
	Included     *[]string `json:"included"`
	Status       *string   `json:"status" validate:"in=ACTIVE|CANCELLED|COMPLETED|DRAFT"`
}

// CreateErrors reports missing fields a new class needs.
func (in ClassInput) CreateErrors() map[string]string {
	errs := map[string]string{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		errs["title"] = "The title field is required."
	}
	if in.Level == nil || *in.Level == "" {
		errs["level"] = "The level field is required."
	}
	if in.Price == nil {
		errs["price"] = "The price field is required."
	}
	if in.MaxStudents == nil {
		errs["maxStudents"] = "The maxStudents field is required."
	}
	if in.StartDate == nil || *in.StartDate == "" {
		errs["startDate"] = "The startDate field is required."
	}
	if in.EndDate == nil || *in.EndDate == "" {
		errs["endDate"] = "The endDate field is required."
	}
	return errs
}

func (in ClassInput) changes() map[string]any {
	m := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			m[col] = strings.TrimSpace(*v)
		}
	}
	list := func(col string, v *[]string) {
		if v != nil {
			m[col] = datatypes.JSONSlice[string](nonNil(*v))
		}
	}

	set("title", in.Title)
	set("description", in.Description)
	set("duration", in.Duration)
	set("schedule", in.Schedule)
	set("location", in.Location)
	set("address", in.Address)
	set("image", in.Image)
	set("category", in.Category)
	if in.Level != nil {
		m["level"] = strings.ToUpper(*in.Level)
	}
	if in.Status != nil {
		m["status"] = strings.ToUpper(*in.Status)
	}
	if in.Sessions != nil {
		m["sessions"] = *in.Sessions
	}
	if in.Price != nil {
		m["price"] = *in.Price
	}
	if in.MaxStudents != nil {
		m["max_students"] = *in.MaxStudents
	}
	if in.StartDate != nil {
		t, _ := validate.ParseDate(*in.StartDate)
		m["start_date"] = t
	}
	if in.EndDate != nil {
		t, _ := validate.ParseDate(*in.EndDate)
		m["end_date"] = t
	}
	list("images", in.Images)
	list("materials", in.Materials)
	list("highlights", in.Highlights)
	list("curriculum", in.Curriculum)
	list("requirements", in.Requirements)
	list("included", in.Included)
	return m
}

func (s *ClassService) Create(ctx context.Context, in ClassInput) (models.Class, error) {
	start, _ := validate.ParseDate(deref(in.StartDate))
	end, _ := validate.ParseDate(deref(in.EndDate))
	if end.Before(start) {
		return models.Class{}, BadRequest("End date must be after start date")
	}

	c := models.Class{
		Title:        strings.TrimSpace(deref(in.Title)),
		Description:  deref(in.Description),
		Level:        strings.ToUpper(deref(in.Level)),
		Duration:     deref(in.Duration),
		Sessions:     1,
		Price:        deref(in.Price),
		MaxStudents:  deref(in.MaxStudents),
		Schedule:     deref(in.Schedule),
		StartDate:    start,
		EndDate:      end,
		Location:     deref(in.Location),
		Address:      deref(in.Address),
		Image:        deref(in.Image),
		Category:     deref(in.Category),
		Images:       nonNil(deref(in.Images)),
		Materials:    nonNil(deref(in.Materials)),
		Highlights:   nonNil(deref(in.Highlights)),
		Curriculum:   nonNil(deref(in.Curriculum)),
		Requirements: nonNil(deref(in.Requirements)),
		Included:     nonNil(deref(in.Included)),
		Status:       models.ClassActive,
	}
	if in.Sessions != nil {
		c.Sessions = *in.Sessions
	}
	if in.Status != nil && *in.Status != "" {
		c.Status = strings.ToUpper(*in.Status)
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return c, fmt.Errorf("classes: create: %w", err)
	}
	return c, nil
}

func (s *ClassService) Update(ctx context.Context, id uint, in ClassInput) (models.Class, error) {
	var c models.Class
	db := s.db.WithContext(ctx)
	if err := db.First(&c, id).Error; err != nil {
		return c, notFoundAs(err, "Class not found")
	}
	if changes := in.changes(); len(changes) > 0 {
		if err := db.Model(&c).Updates(changes).Error; err != nil {
			return c, fmt.Errorf("classes: update: %w", err)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a class together with its bookings.
func (s *ClassService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Class
		if err := tx.First(&c, id).Error; err != nil {
			return notFoundAs(err, "Class not found")
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}
