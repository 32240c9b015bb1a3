package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"vidtube/internal/metrics"
	"vidtube/internal/model"
	"vidtube/internal/platform/rabbitmq"
)

type AssetDeleter interface {
	Delete(ctx context.Context, assetID string) error
}

// AssetCleanupWorker deletes replaced avatars and cover images from the
// asset host. Failed jobs are dropped after logging.
type AssetCleanupWorker struct {
	conn      *amqp.Connection
	assets    AssetDeleter
	queueName string
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAssetCleanupWorker(conn *amqp.Connection, assets AssetDeleter, queueName string, logger *slog.Logger) *AssetCleanupWorker {
	return &AssetCleanupWorker{
		conn:      conn,
		assets:    assets,
		queueName: queueName,
		logger:    logger,
	}
}

func (w *AssetCleanupWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.process(workerCtx, d.Body); err != nil {
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *AssetCleanupWorker) process(ctx context.Context, body []byte) error {
	var job model.AssetCleanupJob
	if err := json.Unmarshal(body, &job); err != nil {
		metrics.AssetCleanups.WithLabelValues("decode_failed").Inc()
		w.logger.ErrorContext(ctx, "decode cleanup job failed", "error", err)
		return err
	}
	if job.AssetID == "" {
		metrics.AssetCleanups.WithLabelValues("skipped").Inc()
		return nil
	}

	if err := w.assets.Delete(ctx, job.AssetID); err != nil {
		metrics.AssetCleanups.WithLabelValues("delete_failed").Inc()
		w.logger.WarnContext(ctx, "delete asset failed",
			"asset_id", job.AssetID,
			"user_id", job.UserID,
			"slot", job.Slot,
			"error", err,
		)
		return err
	}

	metrics.AssetCleanups.WithLabelValues("deleted").Inc()
	w.logger.InfoContext(ctx, "asset deleted", "asset_id", job.AssetID, "slot", job.Slot)
	return nil
}

func (w *AssetCleanupWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
