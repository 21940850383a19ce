package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talkready/opic-backend/internal/model"
)

var ErrDuplicateEmail = errors.New("respondent with this email already exists")

// RespondentRepository handles respondent account data access.
type RespondentRepository struct {
	pool *pgxpool.Pool
}

// NewRespondentRepository creates a new RespondentRepository.
func NewRespondentRepository(pool *pgxpool.Pool) *RespondentRepository {
	return &RespondentRepository{pool: pool}
}

// GetByID retrieves a respondent by ID.
func (r *RespondentRepository) GetByID(ctx context.Context, id int) (*model.Respondent, error) {
	m := &model.Respondent{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, created_at
		 FROM respondents WHERE id = $1`, id,
	).Scan(&m.ID, &m.Email, &m.FullName, &m.PasswordHash, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByEmail retrieves a respondent by their unique email.
func (r *RespondentRepository) GetByEmail(ctx context.Context, email string) (*model.Respondent, error) {
	m := &model.Respondent{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, created_at
		 FROM respondents WHERE email = $1`, email,
	).Scan(&m.ID, &m.Email, &m.FullName, &m.PasswordHash, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new respondent account.
func (r *RespondentRepository) Create(ctx context.Context, m *model.Respondent) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO respondents (email, full_name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.Email, m.FullName, m.PasswordHash,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}
