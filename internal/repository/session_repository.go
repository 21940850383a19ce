package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talkready/opic-backend/internal/model"
)

// SessionRepository handles exam session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a new exam session row. The question sequence itself is
// persisted asynchronously by the sequence worker.
func (r *SessionRepository) Create(ctx context.Context, s *model.ExamSession) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exam_sessions (id, respondent_id, started_at, status, question_count)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.RespondentID, s.StartedAt, s.Status, s.QuestionCount,
	)
	return err
}

// GetByID retrieves a session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, respondent_id, started_at, finished_at, status, question_count
		 FROM exam_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.RespondentID, &s.StartedAt, &s.FinishedAt, &s.Status, &s.QuestionCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetActiveByRespondent retrieves the respondent's IN_PROGRESS session, or
// pgx.ErrNoRows if none is open.
func (r *SessionRepository) GetActiveByRespondent(ctx context.Context, respondentID int) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, respondent_id, started_at, finished_at, status, question_count
		 FROM exam_sessions
		 WHERE respondent_id = $1 AND status = $2
		 ORDER BY started_at DESC
		 LIMIT 1`, respondentID, model.SessionStatusInProgress,
	).Scan(&s.ID, &s.RespondentID, &s.StartedAt, &s.FinishedAt, &s.Status, &s.QuestionCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSequence loads the persisted question sequence for a session. The
// sequence may still be empty if the worker has not flushed it yet; the
// cache is the authoritative copy while a session is live.
func (r *SessionRepository) GetSequence(ctx context.Context, id uuid.UUID) ([]string, error) {
	var seq []string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(question_sequence, '[]'::jsonb) FROM exam_sessions WHERE id = $1`, id,
	).Scan(&seq)
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// Finish marks a session COMPLETED or ABANDONED.
func (r *SessionRepository) Finish(ctx context.Context, id uuid.UUID, status model.SessionStatus, finishedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions SET status = $1, finished_at = $2
		 WHERE id = $3 AND status = $4`,
		status, finishedAt, id, model.SessionStatusInProgress,
	)
	return err
}

// BulkUpdateSequences persists generated question sequences for many
// sessions in one statement.
func (r *SessionRepository) BulkUpdateSequences(ctx context.Context, ids []uuid.UUID, sequences [][]byte) error {
	query := `
		UPDATE exam_sessions AS s
		SET question_sequence = t.seq
		FROM (
			SELECT u.id, u.seq
			FROM UNNEST($1::uuid[], $2::jsonb[]) AS u (id, seq)
		) AS t
		WHERE s.id = t.id
	`
	_, err := r.pool.Exec(ctx, query, ids, sequences)
	return err
}

// UpdateSequence persists one session's question sequence.
func (r *SessionRepository) UpdateSequence(ctx context.Context, id uuid.UUID, sequence []byte) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions SET question_sequence = $1 WHERE id = $2`,
		sequence, id,
	)
	return err
}
