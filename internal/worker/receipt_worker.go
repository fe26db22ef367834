package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Dantetripodi/gestor-perfumes/internal/infra"
	"github.com/Dantetripodi/gestor-perfumes/internal/model"
	"github.com/Dantetripodi/gestor-perfumes/internal/repository"
)

// ReceiptWorker renders a PDF receipt for a committed sale. The sale itself
// is already durable when the job runs; a failed render only costs the paper
// copy, so failures land in the DLQ for manual replay instead of failing the
// sale.
type ReceiptWorker struct {
	sales       repository.SaleRepository
	storagePath string
}

func NewReceiptWorker(sales repository.SaleRepository, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, storagePath: storagePath}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the Sale (with items) from DB, retrying transient errors
//  3. Render the PDF receipt to the storage path
//  4. Push to the DLQ when fetch or render fails
func (w *ReceiptWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	var sale *model.Sale
	fetchErr := withRetry(ctx, 3, func(attempt int) error {
		var err error
		sale, err = w.sales.FindByID(ctx, saleID)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("receipt_worker: fetch attempt failed, retrying")
		}
		return err
	})
	if fetchErr != nil {
		log.Error().Err(fetchErr).Str("sale_id", payload.SaleID).
			Msg("receipt_worker: sale not found after all retries")
		SendToDLQ(ctx, rdb, QueueReceipts, "receipt", raw, fetchErr.Error(), 3)
		return
	}

	path, err := infra.GenerateReceiptPDF(sale, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).
			Msg("receipt_worker: PDF generation failed")
		SendToDLQ(ctx, rdb, QueueReceipts, "receipt", raw, err.Error(), 1)
		return
	}
	log.Info().Str("pdf", path).Str("sale_id", payload.SaleID).
		Msg("receipt_worker: receipt generated")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
