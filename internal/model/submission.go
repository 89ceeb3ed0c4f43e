package model

import "time"

// Submission is one contact-form entry as persisted by every sink.
type Submission struct {
	ID          int64
	Name        string
	Email       string
	Message     string
	Service     string
	PhoneNumber string
	Timestamp   time.Time
}

// Identity is the (email, phone_number) pair used as a pre-shared credential.
type Identity struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Submission) Identity() Identity {
	return Identity{Email: s.Email, PhoneNumber: s.PhoneNumber}
}

// HasRequiredFields reports whether name, email and message are all non-empty.
func (s *Submission) HasRequiredFields() bool {
	return s.Name != "" && s.Email != "" && s.Message != ""
}
