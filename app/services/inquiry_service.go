package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/metrics"
)

type InquiryService struct {
	db *gorm.DB
}

func NewInquiryService(db *gorm.DB) *InquiryService { return &InquiryService{db: db} }

type InquiryInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Subject  string `json:"subject" validate:"required,max=255"`
	Message  string `json:"message" validate:"required,max=5000"`
	Type     string `json:"type" validate:"in=GENERAL|COMMISSION|CLASS|PURCHASE"`
	Priority string `json:"priority" validate:"in=LOW|MEDIUM|HIGH"`
	UserID   *uint  `json:"userId"`
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return strings.ToUpper(v)
}

// Create stores a contact-form message. sessionUser, when non-zero, wins
// over a userId in the body.
func (s *InquiryService) Create(ctx context.Context, in InquiryInput, sessionUser uint) (models.Inquiry, error) {
	inq := models.Inquiry{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Subject:  strings.TrimSpace(in.Subject),
		Message:  strings.TrimSpace(in.Message),
		Type:     orDefault(in.Type, models.InquiryGeneral),
		Priority: orDefault(in.Priority, models.PriorityMedium),
		Status:   models.InquiryUnread,
		UserID:   in.UserID,
	}
	if sessionUser != 0 {
		inq.UserID = &sessionUser
	}
	if inq.UserID != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", *inq.UserID).Count(&n).Error; err != nil {
			return inq, err
		}
		if n == 0 {
			inq.UserID = nil
		}
	}

	if err := s.db.WithContext(ctx).Create(&inq).Error; err != nil {
		return inq, fmt.Errorf("inquiries: create: %w", err)
	}
	metrics.InquiriesReceived.WithLabelValues(inq.Type).Inc()
	event.FireAsync(ctx, EventInquiryCreated, inq)
	return inq, nil
}

func (s *InquiryService) List(ctx context.Context, status, kind string) ([]models.Inquiry, error) {
	q := s.db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if st, ok := enumFilter(status); ok {
		q = q.Where("status = ?", st)
	}
	if t, ok := enumFilter(kind); ok {
		q = q.Where("type = ?", t)
	}
	inquiries := []models.Inquiry{}
	if err := q.Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("inquiries: list: %w", err)
	}
	return inquiries, nil
}

type InquiryUpdate struct {
	InquiryID uint    `json:"inquiryId" validate:"required"`
	Status    *string `json:"status" validate:"in=UNREAD|READ|REPLIED|ARCHIVED"`
	Priority  *string `json:"priority" validate:"in=LOW|MEDIUM|HIGH"`
	Response  *string `json:"response" validate:"max=5000"`
}

func (s *InquiryService) Update(ctx context.Context, in InquiryUpdate) (models.Inquiry, error) {
	db := s.db.WithContext(ctx)
	var inq models.Inquiry
	if err := db.First(&inq, in.InquiryID).Error; err != nil {
		return inq, notFoundAs(err, "Inquiry not found")
	}

	changes := map[string]any{}
	if in.Status != nil {
		changes["status"] = strings.ToUpper(*in.Status)
	}
	if in.Priority != nil {
		changes["priority"] = strings.ToUpper(*in.Priority)
	}
	if in.Response != nil {
		changes["response"] = *in.Response
	}
	if len(changes) > 0 {
		if err := db.Model(&inq).Updates(changes).Error; err != nil {
			return inq, fmt.Errorf("inquiries: update: %w", err)
		}
	}
	err := db.Preload("User").First(&inq, inq.ID).Error
	return inq, err
}
