package queue

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Failure is a job that exhausted its retries.
type Failure struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobType  string    `gorm:"size:255;not null;index" json:"jobType"`
	Payload  string    `gorm:"type:text;not null" json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	Attempts int       `gorm:"not null;default:0" json:"attempts"`
	FailedAt time.Time `gorm:"autoCreateTime" json:"failedAt"`
}

func (Failure) TableName() string { return "failed_jobs" }

// FailureStore records failed jobs.
type FailureStore interface {
	Record(ctx context.Context, f Failure) error
}

// DBFailureStore writes failures to the failed_jobs table.
type DBFailureStore struct {
	DB *gorm.DB
}

func (s DBFailureStore) Record(ctx context.Context, f Failure) error {
	return s.DB.WithContext(ctx).Create(&f).Error
}
