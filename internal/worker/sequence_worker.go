package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/repository"
)

const (
	SequenceBatchSize    = 50
	SequenceBatchTimeout = 2 * time.Second
	SequencePollTimeout  = 1 * time.Second
)

// SequenceWorker drains the sequence queue and persists generated question
// sequences to Postgres in batches. The Redis cache remains the
// authoritative copy while a session is live, so a short persistence lag
// is harmless.
type SequenceWorker struct {
	sessionRepo *repository.SessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewSequenceWorker(sessionRepo *repository.SessionRepository, rdb *redis.Client, log zerolog.Logger) *SequenceWorker {
	return &SequenceWorker{
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "sequence_worker").Logger(),
	}
}

type sequencePayload struct {
	SessionID string   `json:"session_id"`
	Sequence  []string `json:"sequence"`
}

func (w *SequenceWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SequenceWorker started")

	batch := make([]*sequencePayload, 0, SequenceBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= SequenceBatchSize || time.Since(lastFlush) >= SequenceBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, SequencePollTimeout, config.WorkerKey.PersistSequencesQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p sequencePayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *SequenceWorker) flushSafe(ctx context.Context, batch []*sequencePayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpdate(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk sequence update failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistSequencesQueue, raw)
			}
		}
	}
}

func (w *SequenceWorker) bulkUpdate(ctx context.Context, batch []*sequencePayload) error {
	n := len(batch)

	ids := make([]uuid.UUID, 0, n)
	sequences := make([][]byte, 0, n)

	for _, p := range batch {
		id, err := uuid.Parse(p.SessionID)
		if err != nil {
			return err
		}

		raw, _ := json.Marshal(p.Sequence)

		ids = append(ids, id)
		sequences = append(sequences, raw)
	}

	return w.sessionRepo.BulkUpdateSequences(ctx, ids, sequences)
}

func (w *SequenceWorker) persistSingle(ctx context.Context, p *sequencePayload) error {
	id, err := uuid.Parse(p.SessionID)
	if err != nil {
		return err
	}

	raw, _ := json.Marshal(p.Sequence)
	return w.sessionRepo.UpdateSequence(ctx, id, raw)
}
