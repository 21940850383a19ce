package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talkready/opic-backend/internal/model"
)

// SurveyRepository handles survey profile data access.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository creates a new SurveyRepository.
func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

// GetByRespondent retrieves a respondent's survey profile, or pgx.ErrNoRows
// if the survey has never been filled in.
func (r *SurveyRepository) GetByRespondent(ctx context.Context, respondentID int) (*model.SurveyProfile, error) {
	p := &model.SurveyProfile{RespondentID: respondentID}
	err := r.pool.QueryRow(ctx,
		`SELECT occupation, is_student, recent_course, living_arrangement,
		        leisure_activities, hobbies, sports, travel_experience
		 FROM survey_profiles WHERE respondent_id = $1`, respondentID,
	).Scan(&p.Occupation, &p.IsStudent, &p.RecentCourse, &p.LivingArrangement,
		&p.LeisureActivities, &p.Hobbies, &p.Sports, &p.TravelExperience)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert saves a respondent's survey profile, replacing any previous answers.
func (r *SurveyRepository) Upsert(ctx context.Context, p *model.SurveyProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO survey_profiles
		   (respondent_id, occupation, is_student, recent_course, living_arrangement,
		    leisure_activities, hobbies, sports, travel_experience, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (respondent_id) DO UPDATE SET
		   occupation = EXCLUDED.occupation,
		   is_student = EXCLUDED.is_student,
		   recent_course = EXCLUDED.recent_course,
		   living_arrangement = EXCLUDED.living_arrangement,
		   leisure_activities = EXCLUDED.leisure_activities,
		   hobbies = EXCLUDED.hobbies,
		   sports = EXCLUDED.sports,
		   travel_experience = EXCLUDED.travel_experience,
		   updated_at = now()`,
		p.RespondentID, p.Occupation, p.IsStudent, p.RecentCourse, p.LivingArrangement,
		p.LeisureActivities, p.Hobbies, p.Sports, p.TravelExperience,
	)
	return err
}
