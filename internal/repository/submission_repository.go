package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talkready/opic-backend/internal/model"
)

// SubmissionRepository handles persisted script submissions. Rows record
// the attempted delivery to the scoring gateway; nothing is ever
// re-delivered from here.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// CopyInsert bulk-inserts submission rows with COPY. Row order matches
// submissionColumns.
func (r *SubmissionRepository) CopyInsert(ctx context.Context, rows [][]interface{}) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"submissions"},
		submissionColumns(),
		pgx.CopyFromRows(rows),
	)
	return err
}

func submissionColumns() []string {
	return []string{"id", "session_id", "respondent_id", "scripts", "status", "error", "submitted_at"}
}

// Insert stores a single submission row.
func (r *SubmissionRepository) Insert(ctx context.Context, s *model.Submission, scripts []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submissions (id, session_id, respondent_id, scripts, status, error, submitted_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)`,
		s.ID, s.SessionID, s.RespondentID, scripts, s.Status, s.Error, s.SubmittedAt,
	)
	return err
}

// ListByRespondent returns submission summaries, newest first.
func (r *SubmissionRepository) ListByRespondent(ctx context.Context, respondentID int) ([]model.SubmissionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, status, jsonb_array_length(scripts), submitted_at
		 FROM submissions
		 WHERE respondent_id = $1
		 ORDER BY submitted_at DESC`, respondentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SubmissionSummary
	for rows.Next() {
		var s model.SubmissionSummary
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Status, &s.ScriptCount, &s.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID retrieves one submission with its full scripts, scoped to the
// owning respondent.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID, respondentID int) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, session_id, respondent_id, scripts, status, error, submitted_at
		 FROM submissions WHERE id = $1 AND respondent_id = $2`, id, respondentID,
	).Scan(&s.ID, &s.SessionID, &s.RespondentID, &s.Scripts, &s.Status, &s.Error, &s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
