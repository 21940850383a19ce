package model

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is one answered question: the question as asked and the
// trimmed transcript captured before the operator advanced past it.
// JSON field names follow the scoring service's wire contract.
type UserResponse struct {
	QuestionNumber int    `json:"questionNumber"`
	Question       string `json:"question"`
	UserScript     string `json:"userScript"`
}

// ScriptSubmission is the payload handed to the scoring gateway when the
// final question is advanced past. Built exactly once per session.
type ScriptSubmission struct {
	Scripts []UserResponse `json:"scripts"`
}

// SubmissionStatus records the terminal outcome of a gateway delivery.
type SubmissionStatus string

const (
	SubmissionStatusDelivered SubmissionStatus = "DELIVERED"
	SubmissionStatusFailed    SubmissionStatus = "FAILED"
)

// Submission is the persisted record of one delivery attempt. There is no
// retry: a FAILED row stays failed.
type Submission struct {
	ID           uuid.UUID        `json:"id"`
	SessionID    uuid.UUID        `json:"session_id"`
	RespondentID int              `json:"respondent_id"`
	Status       SubmissionStatus `json:"status"`
	Scripts      []UserResponse   `json:"scripts,omitempty"`
	Error        string           `json:"error,omitempty"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

// SubmissionSummary is the history-listing view of a submission, without
// the full script payload.
type SubmissionSummary struct {
	ID          uuid.UUID        `json:"id"`
	SessionID   uuid.UUID        `json:"session_id"`
	Status      SubmissionStatus `json:"status"`
	ScriptCount int              `json:"script_count"`
	SubmittedAt time.Time        `json:"submitted_at"`
}
