package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/service"
)

// StartSnapshotWorker refreshes the in-memory ticket snapshot on a
// fixed interval until the context is cancelled. The initial load also
// happens here so the server starts serving from a populated snapshot.
func StartSnapshotWorker(ctx context.Context, snapshots *service.SnapshotService, interval time.Duration, logger *zap.Logger) {
	if err := snapshots.Refresh(ctx); err != nil {
		logger.Warn("initial snapshot load failed", zap.Error(err))
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := snapshots.Refresh(ctx); err != nil {
					logger.Warn("snapshot refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notifications *service.NotificationService) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
}
