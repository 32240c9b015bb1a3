package app

import (
	"context"
	"log/slog"

	"vidtube/internal/metrics"
	"vidtube/internal/model"
)

// AssetUploader pushes a local temp file to the asset host. Implementations
// remove the local file whatever the outcome.
type AssetUploader interface {
	Upload(ctx context.Context, localPath string) (*model.Asset, error)
}

type AssetCleanupPublisher interface {
	Publish(ctx context.Context, job model.AssetCleanupJob) error
}

// assetJanitor schedules best-effort deletion of assets that are no longer
// referenced. It never returns an error to the caller.
type assetJanitor struct {
	publisher AssetCleanupPublisher
	logger    *slog.Logger
}

func (j assetJanitor) discard(ctx context.Context, userID uint, slot model.AssetSlot, assetID string) {
	if assetID == "" {
		return
	}
	if j.publisher == nil {
		metrics.AssetCleanups.WithLabelValues("skipped").Inc()
		j.logger.WarnContext(ctx, "asset cleanup publisher not configured", "asset_id", assetID)
		return
	}
	job := model.AssetCleanupJob{AssetID: assetID, UserID: userID, Slot: slot}
	if err := j.publisher.Publish(context.WithoutCancel(ctx), job); err != nil {
		metrics.AssetCleanups.WithLabelValues("enqueue_failed").Inc()
		j.logger.WarnContext(ctx, "enqueue asset cleanup failed", "asset_id", assetID, "error", err)
		return
	}
	metrics.AssetCleanups.WithLabelValues("enqueued").Inc()
}
