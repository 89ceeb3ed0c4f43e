package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"contactform/internal/model"
)

// PostgresSubmissionRepository is the relational store backed by a pgx pool.
type PostgresSubmissionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSubmissionRepository(db *pgxpool.Pool) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

// ExistsByIdentity reports whether at least one row matches both email and phone number exactly.
func (r *PostgresSubmissionRepository) ExistsByIdentity(ctx context.Context, id model.Identity) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM submissions WHERE email = $1 AND phone_number = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id.Email, id.PhoneNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check identity: %w", err)
	}
	return exists, nil
}

// CreateSubmission inserts the submission and returns its id.
func (r *PostgresSubmissionRepository) CreateSubmission(ctx context.Context, s *model.Submission) (int64, error) {
	query := `
		INSERT INTO submissions (name, email, message, service, phone_number, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, s.Name, s.Email, s.Message, s.Service, s.PhoneNumber, s.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}
	return id, nil
}

func (r *PostgresSubmissionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
