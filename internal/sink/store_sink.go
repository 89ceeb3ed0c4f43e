package sink

import (
	"context"

	"contactform/internal/model"
)

// SubmissionCreator is the write side of the relational store.
type SubmissionCreator interface {
	CreateSubmission(ctx context.Context, s *model.Submission) (int64, error)
}

// StoreSink inserts the submission as a row and records the assigned id on it.
type StoreSink struct {
	store SubmissionCreator
}

func NewStoreSink(store SubmissionCreator) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Write(ctx context.Context, sub *model.Submission) error {
	id, err := s.store.CreateSubmission(ctx, sub)
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}
