package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/repository"
)

// ErrSurveyNotFound is returned when a respondent has never saved a survey.
var ErrSurveyNotFound = errors.New("survey profile not found")

const surveyCacheTTL = 12 * time.Hour

// SurveyService handles background survey business logic. Profiles are
// cached in Redis and the cache self-heals from Postgres on miss.
type SurveyService struct {
	surveyRepo *repository.SurveyRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewSurveyService creates a new SurveyService.
func NewSurveyService(surveyRepo *repository.SurveyRepository, rdb *redis.Client, log zerolog.Logger) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "survey_service").Logger(),
	}
}

// Get returns a respondent's survey profile, preferring the cache.
func (s *SurveyService) Get(ctx context.Context, respondentID int) (*model.SurveyProfile, error) {
	key := config.CacheKey.RespondentSurveyKey(respondentID)

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		p := &model.SurveyProfile{}
		if err := json.Unmarshal([]byte(raw), p); err == nil {
			p.RespondentID = respondentID
			return p, nil
		}
		// Corrupt cache entry: fall through to Postgres and rewrite it.
		s.log.Warn().Int("respondent_id", respondentID).Msg("Discarding corrupt cached survey")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Survey cache read failed, falling back to database")
	}

	p, err := s.surveyRepo.GetByRespondent(ctx, respondentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("load survey: %w", err)
	}

	s.cache(ctx, key, p)
	return p, nil
}

// Update saves a respondent's survey answers and refreshes the cache.
func (s *SurveyService) Update(ctx context.Context, respondentID int, req *model.UpdateSurveyRequest) (*model.SurveyProfile, error) {
	p := req.Profile(respondentID)

	if err := s.surveyRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save survey: %w", err)
	}

	s.cache(ctx, config.CacheKey.RespondentSurveyKey(respondentID), p)
	return p, nil
}

func (s *SurveyService) cache(ctx context.Context, key string, p *model.SurveyProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, surveyCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Survey cache write failed")
	}
}
