package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/question"
	"github.com/talkready/opic-backend/internal/repository"
)

// Common exam session errors.
var (
	ErrSessionAlreadyActive = errors.New("an exam session is already in progress")
	ErrNoActiveSession      = errors.New("no exam session in progress")
	ErrSessionNotFound      = errors.New("exam session not found")
)

// ActiveSession is a live session together with its question sequence.
type ActiveSession struct {
	Session  *model.ExamSession `json:"session"`
	Sequence []string           `json:"-"`
}

// ExamService creates and resumes exam sessions. The generated sequence is
// cached in Redis for the lifetime of the session; the database copy is
// written asynchronously by the sequence worker.
type ExamService struct {
	sessionRepo *repository.SessionRepository
	surveySvc   *SurveyService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(sessionRepo *repository.SessionRepository, surveySvc *SurveyService, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		sessionRepo: sessionRepo,
		surveySvc:   surveySvc,
		rdb:         rdb,
		log:         log.With().Str("component", "exam_service").Logger(),
	}
}

// Create opens a new exam session for the respondent: loads the survey
// profile, generates the question sequence and records the session. Fails
// if another session is still IN_PROGRESS or the survey cannot seed a
// full exam.
func (s *ExamService) Create(ctx context.Context, respondentID int) (*ActiveSession, error) {
	if _, err := s.sessionRepo.GetActiveByRespondent(ctx, respondentID); err == nil {
		return nil, ErrSessionAlreadyActive
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check active session: %w", err)
	}

	profile, err := s.surveySvc.Get(ctx, respondentID)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sequence, err := question.Generate(profile, rng)
	if err != nil {
		return nil, err
	}

	session := &model.ExamSession{
		ID:            uuid.New(),
		RespondentID:  respondentID,
		StartedAt:     time.Now().UTC(),
		Status:        model.SessionStatusInProgress,
		QuestionCount: len(sequence),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.cacheSequence(ctx, session.ID, sequence)
	s.cacheActiveID(ctx, respondentID, session.ID)
	s.queueSequencePersist(ctx, session.ID, sequence)

	s.log.Info().
		Str("session_id", session.ID.String()).
		Int("respondent_id", respondentID).
		Int("questions", len(sequence)).
		Msg("Exam session created")

	return &ActiveSession{Session: session, Sequence: sequence}, nil
}

// GetActive resumes the respondent's IN_PROGRESS session with its sequence.
func (s *ExamService) GetActive(ctx context.Context, respondentID int) (*ActiveSession, error) {
	session := s.cachedActive(ctx, respondentID)
	if session == nil {
		var err error
		session, err = s.sessionRepo.GetActiveByRespondent(ctx, respondentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNoActiveSession
			}
			return nil, fmt.Errorf("load active session: %w", err)
		}
		s.cacheActiveID(ctx, respondentID, session.ID)
	}

	sequence, err := s.loadSequence(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &ActiveSession{Session: session, Sequence: sequence}, nil
}

// Finish closes a session. Idempotent: finishing a session that is no
// longer IN_PROGRESS changes nothing.
func (s *ExamService) Finish(ctx context.Context, sessionID uuid.UUID, respondentID int, status model.SessionStatus) error {
	if err := s.sessionRepo.Finish(ctx, sessionID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	err := s.rdb.Del(ctx,
		config.CacheKey.SessionSequenceKey(sessionID.String()),
		config.CacheKey.SessionCheckpointKey(sessionID.String()),
		config.CacheKey.RespondentActiveSessionKey(respondentID),
	).Err()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to drop cached session state")
	}
	return nil
}

// cachedActive resolves the respondent's active session through the ID
// cache. Returns nil on any miss or mismatch; callers fall back to the
// database lookup.
func (s *ExamService) cachedActive(ctx context.Context, respondentID int) *model.ExamSession {
	raw, err := s.rdb.Get(ctx, config.CacheKey.RespondentActiveSessionKey(respondentID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Active session cache read failed")
		}
		return nil
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil || session.RespondentID != respondentID || session.Status != model.SessionStatusInProgress {
		return nil
	}
	return session
}

func (s *ExamService) cacheActiveID(ctx context.Context, respondentID int, sessionID uuid.UUID) {
	key := config.CacheKey.RespondentActiveSessionKey(respondentID)
	if err := s.rdb.Set(ctx, key, sessionID.String(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Active session cache write failed")
	}
}

// loadSequence reads the cached sequence, falling back to the database
// copy and re-warming the cache.
func (s *ExamService) loadSequence(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	key := config.CacheKey.SessionSequenceKey(sessionID.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var seq []string
		if err := json.Unmarshal([]byte(raw), &seq); err == nil && len(seq) > 0 {
			return seq, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Sequence cache read failed, falling back to database")
	}

	seq, err := s.sessionRepo.GetSequence(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load sequence: %w", err)
	}
	if len(seq) == 0 {
		return nil, ErrSessionNotFound
	}

	s.cacheSequence(ctx, sessionID, seq)
	return seq, nil
}

func (s *ExamService) cacheSequence(ctx context.Context, sessionID uuid.UUID, sequence []string) {
	raw, _ := json.Marshal(sequence)
	key := config.CacheKey.SessionSequenceKey(sessionID.String())
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Sequence cache write failed")
	}
}

func (s *ExamService) queueSequencePersist(ctx context.Context, sessionID uuid.UUID, sequence []string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"session_id": sessionID.String(),
		"sequence":   sequence,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSequencesQueue, payload).Err(); err != nil {
		// The cache still holds the sequence; persist it synchronously so
		// the database copy is not lost.
		s.log.Warn().Err(err).Msg("Sequence queue push failed, persisting directly")
		raw, _ := json.Marshal(sequence)
		if err := s.sessionRepo.UpdateSequence(ctx, sessionID, raw); err != nil {
			s.log.Error().Err(err).Msg("Direct sequence persist failed")
		}
	}
}
