package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"contactform/internal/model"
)

type submissionRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name"`
	Email       string    `gorm:"column:email"`
	Message     string    `gorm:"column:message"`
	Service     string    `gorm:"column:service"`
	PhoneNumber string    `gorm:"column:phone_number"`
	Timestamp   time.Time `gorm:"column:timestamp"`
}

func (submissionRecord) TableName() string { return "submissions" }

// SQLiteSubmissionRepository is the file-backed relational store.
type SQLiteSubmissionRepository struct {
	db *gorm.DB
}

func NewSQLiteSubmissionRepository(db *gorm.DB) *SQLiteSubmissionRepository {
	return &SQLiteSubmissionRepository{db: db}
}

// ExistsByIdentity reports whether at least one row matches both email and phone number exactly.
func (r *SQLiteSubmissionRepository) ExistsByIdentity(ctx context.Context, id model.Identity) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM submissions WHERE email = ? AND phone_number = ?)`, id.Email, id.PhoneNumber).
		Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("failed to check identity: %w", err)
	}
	return exists, nil
}

// CreateSubmission inserts the submission and returns its id.
func (r *SQLiteSubmissionRepository) CreateSubmission(ctx context.Context, s *model.Submission) (int64, error) {
	rec := submissionRecord{
		Name:        s.Name,
		Email:       s.Email,
		Message:     s.Message,
		Service:     s.Service,
		PhoneNumber: s.PhoneNumber,
		Timestamp:   s.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}
	return rec.ID, nil
}

func (r *SQLiteSubmissionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
