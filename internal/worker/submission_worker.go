package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/repository"
)

const (
	SubmissionBatchSize    = 50
	SubmissionBatchTimeout = 2 * time.Second
	SubmissionPollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// SubmissionWorker drains the submission queue and persists delivery
// outcome rows in batches. The rows feed the feedback history endpoints
// only; a FAILED row is never re-delivered to the scoring service.
type SubmissionWorker struct {
	submissionRepo *repository.SubmissionRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

func NewSubmissionWorker(submissionRepo *repository.SubmissionRepository, rdb *redis.Client, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		submissionRepo: submissionRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "submission_worker").Logger(),
	}
}

func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SubmissionWorker started")

	buffer := make([]*model.Submission, 0, SubmissionBatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 &&
			(len(buffer) >= SubmissionBatchSize || time.Since(lastFlush) >= SubmissionBatchTimeout) {

			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, SubmissionPollTimeout, config.WorkerKey.PersistSubmissionsQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var sub model.Submission
		if err := json.Unmarshal([]byte(result[1]), &sub); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		buffer = append(buffer, &sub)
	}
}

// flushSafe attempts bulk insert, then row-by-row fallback, then requeue.
func (w *SubmissionWorker) flushSafe(ctx context.Context, batch []*model.Submission) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *SubmissionWorker) bulkInsert(ctx context.Context, batch []*model.Submission) error {
	rows := make([][]interface{}, 0, len(batch))
	for _, sub := range batch {
		scripts, err := json.Marshal(sub.Scripts)
		if err != nil {
			return err
		}
		rows = append(rows, []interface{}{
			sub.ID, sub.SessionID, sub.RespondentID, scripts, sub.Status, sub.Error, sub.SubmittedAt,
		})
	}

	return w.submissionRepo.CopyInsert(ctx, rows)
}

func (w *SubmissionWorker) fallbackInsert(ctx context.Context, batch []*model.Submission) {
	requeueList := make([]*model.Submission, 0)

	for _, sub := range batch {
		scripts, err := json.Marshal(sub.Scripts)
		if err != nil {
			w.log.Error().Str("submission_id", sub.ID.String()).Msg("Dropping submission with unmarshalable scripts")
			continue
		}

		if err := w.submissionRepo.Insert(ctx, sub, scripts); err != nil {
			w.log.Error().Err(err).Str("submission_id", sub.ID.String()).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, sub)
		}
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (w *SubmissionWorker) requeue(ctx context.Context, items []*model.Submission) {
	pipe := w.rdb.Pipeline()
	for _, sub := range items {
		data, _ := json.Marshal(sub)
		pipe.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue items to Redis. Data loss occurred.")
		return
	}

	w.log.Info().Int("count", len(items)).Msg("Requeued failed items back to Redis")
	// Back off while the database is down.
	time.Sleep(2 * time.Second)
}

func (w *SubmissionWorker) shutdown(buffer []*model.Submission) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
