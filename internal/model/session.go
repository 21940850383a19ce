package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates exam session states as persisted.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusAbandoned  SessionStatus = "ABANDONED"
)

// ExamSession represents one respondent's exam attempt. The generated
// question sequence is fixed at creation and never mutated afterwards.
type ExamSession struct {
	ID            uuid.UUID     `json:"id"`
	RespondentID  int           `json:"respondent_id"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    *time.Time    `json:"finished_at,omitempty"`
	Status        SessionStatus `json:"status"`
	QuestionCount int           `json:"question_count"`
}
