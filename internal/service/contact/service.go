package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"contactform/contracts/mq"
	"contactform/internal/model"
	"contactform/pkg/circuitbreaker"
	"contactform/pkg/logger"
	"contactform/pkg/metrics"
)

var (
	ErrInvalidIdentity = errors.New("invalid email or phone number")
	ErrMissingFields   = errors.New("name, email, and message are required")
)

// IdentityStore answers whether an (email, phone_number) pair was stored before.
type IdentityStore interface {
	ExistsByIdentity(ctx context.Context, id model.Identity) (bool, error)
}

// Persister writes an accepted submission to its sinks.
type Persister interface {
	Write(ctx context.Context, s *model.Submission) error
}

// EventPublisher hands events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Service struct {
	identities IdentityStore
	persister  Persister
	publisher  EventPublisher
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the contact service. publisher may be nil, in which case no events are sent.
func NewService(identities IdentityStore, persister Persister, publisher EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		identities: identities,
		persister:  persister,
		publisher:  publisher,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:     logger,
		now:        time.Now,
	}
}

// CheckIdentity reports whether the exact pair is already stored.
func (s *Service) CheckIdentity(ctx context.Context, id model.Identity) (bool, error) {
	ok, err := s.identities.ExistsByIdentity(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check identity: %w", err)
	}
	return ok, nil
}

// Submit gates the submission on its identity, then on the required fields, then
// persists it to every sink. The identity check deliberately runs first.
func (s *Service) Submit(ctx context.Context, sub *model.Submission) error {
	ok, err := s.CheckIdentity(ctx, sub.Identity())
	if err != nil {
		metrics.IncrementSubmission("failed")
		return err
	}
	if !ok {
		metrics.IncrementSubmission("identity_rejected")
		return ErrInvalidIdentity
	}

	if !sub.HasRequiredFields() {
		metrics.IncrementSubmission("missing_fields")
		return ErrMissingFields
	}

	// one timestamp for every sink
	sub.Timestamp = s.now()

	// a client hanging up must not leave the sinks half written
	if err := s.persister.Write(context.WithoutCancel(ctx), sub); err != nil {
		metrics.IncrementSubmission("failed")
		return fmt.Errorf("failed to persist submission: %w", err)
	}
	metrics.IncrementSubmission("accepted")

	s.publishCreated(ctx, sub)
	return nil
}

// Login succeeds when the pair is stored; nothing is issued to the caller.
func (s *Service) Login(ctx context.Context, id model.Identity) error {
	ok, err := s.CheckIdentity(ctx, id)
	if err != nil {
		metrics.IncrementLoginAttempt("error")
		return err
	}
	if !ok {
		metrics.IncrementLoginAttempt("failure")
		return ErrInvalidIdentity
	}
	metrics.IncrementLoginAttempt("success")
	return nil
}

// publishCreated announces the stored submission. Failures are logged and swallowed:
// the submission is already persisted.
func (s *Service) publishCreated(ctx context.Context, sub *model.Submission) {
	if s.publisher == nil {
		return
	}

	payload := mq.SubmissionCreatedPayload{
		SubmissionID: sub.ID,
		Name:         sub.Name,
		Email:        sub.Email,
		Service:      sub.Service,
		PhoneNumber:  sub.PhoneNumber,
		SubmittedAt:  sub.Timestamp,
	}

	err := s.breaker.Execute(func() error {
		return s.publisher.Publish(context.WithoutCancel(ctx), mq.RoutingKeySubmissionCreated, payload)
	})
	metrics.SetPublisherBreakerState(s.breaker.GetState().String())
	switch {
	case err == nil:
		metrics.IncrementEventPublished(mq.RoutingKeySubmissionCreated, "success")
	case errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen):
		metrics.IncrementEventPublished(mq.RoutingKeySubmissionCreated, "breaker_open")
		logger.WithTrace(ctx, s.logger).Debug("Skipped event publish, breaker open",
			zap.Int64("submission_id", sub.ID))
	default:
		metrics.IncrementEventPublished(mq.RoutingKeySubmissionCreated, "failed")
		logger.WithTrace(ctx, s.logger).Warn("Failed to publish submission event",
			zap.Int64("submission_id", sub.ID),
			zap.Error(err),
		)
	}
}
