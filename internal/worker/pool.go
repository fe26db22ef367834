package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueReceipts = "jobs:receipts"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReceiptJobPayload is the job envelope pushed to QueueReceipts.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. A nil Dispatcher (or one without Redis) drops jobs
// silently, so callers in degraded mode need no special casing.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt pushes a receipt-generation job for a committed sale.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, saleID uuid.UUID) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueReceipts, "receipt", ReceiptJobPayload{SaleID: saleID.String()})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the receipt queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, receipts *ReceiptWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, receipts)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, receipts *ReceiptWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueReceipts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1], receipts)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string, receipts *ReceiptWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "receipt":
		receipts.Process(ctx, rdb, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
	}
}
