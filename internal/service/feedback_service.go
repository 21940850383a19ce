package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/repository"
)

// ErrSubmissionNotFound is returned for an unknown or foreign submission ID.
var ErrSubmissionNotFound = errors.New("submission not found")

// Gateway delivers a finished session's scripts to the external scoring
// service. Delivery happens exactly once per session; a failure is
// recorded, never retried.
type Gateway interface {
	Deliver(ctx context.Context, sub *model.ScriptSubmission) error
}

// HTTPGateway posts submissions to the scoring service's REST endpoint.
type HTTPGateway struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPGateway creates a Gateway for the configured scoring endpoint.
func NewHTTPGateway(url string, log zerolog.Logger) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log.With().Str("component", "feedback_gateway").Logger(),
	}
}

// Deliver posts the scripts. Any non-2xx response counts as failure.
func (g *HTTPGateway) Deliver(ctx context.Context, sub *model.ScriptSubmission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		g.log.Warn().Int("status", resp.StatusCode).Bytes("body", body).Msg("Scoring service rejected submission")
		return fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}
	return nil
}

// FeedbackService delivers submissions and serves their history. Outcome
// rows are persisted through the submission worker queue.
type FeedbackService struct {
	gateway        Gateway
	submissionRepo *repository.SubmissionRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(gateway Gateway, submissionRepo *repository.SubmissionRepository, rdb *redis.Client, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		gateway:        gateway,
		submissionRepo: submissionRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "feedback_service").Logger(),
	}
}

// Submit delivers the scripts once and queues the outcome for persistence.
// The returned status tells the client whether scoring will follow.
func (s *FeedbackService) Submit(ctx context.Context, sessionID uuid.UUID, respondentID int, sub *model.ScriptSubmission) model.SubmissionStatus {
	status := model.SubmissionStatusDelivered
	deliveryErr := ""

	if err := s.gateway.Deliver(ctx, sub); err != nil {
		status = model.SubmissionStatusFailed
		deliveryErr = err.Error()
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Submission delivery failed")
	}

	s.queuePersist(ctx, &model.Submission{
		ID:           uuid.New(),
		SessionID:    sessionID,
		RespondentID: respondentID,
		Status:       status,
		Scripts:      sub.Scripts,
		Error:        deliveryErr,
		SubmittedAt:  time.Now().UTC(),
	})
	return status
}

// History lists a respondent's submissions, newest first.
func (s *FeedbackService) History(ctx context.Context, respondentID int) ([]model.SubmissionSummary, error) {
	out, err := s.submissionRepo.ListByRespondent(ctx, respondentID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if out == nil {
		out = []model.SubmissionSummary{}
	}
	return out, nil
}

// Detail returns one submission with its full scripts.
func (s *FeedbackService) Detail(ctx context.Context, id uuid.UUID, respondentID int) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id, respondentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("load submission: %w", err)
	}
	return sub, nil
}

func (s *FeedbackService) queuePersist(ctx context.Context, sub *model.Submission) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, payload).Err(); err != nil {
		// Queue unreachable: write the row directly so history survives.
		s.log.Warn().Err(err).Msg("Submission queue push failed, persisting directly")
		scripts, _ := json.Marshal(sub.Scripts)
		if err := s.submissionRepo.Insert(ctx, sub, scripts); err != nil {
			s.log.Error().Err(err).Msg("Direct submission persist failed")
		}
	}
}
