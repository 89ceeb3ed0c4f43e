package mq

import "time"

// RoutingKeySubmissionCreated is published once a submission has reached every sink.
const RoutingKeySubmissionCreated = "submission.created"

// SubmissionCreatedPayload 表单提交成功事件的 payload
type SubmissionCreatedPayload struct {
	SubmissionID int64     `json:"submission_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Service      string    `json:"service,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
