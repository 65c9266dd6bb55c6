package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
)

type snapshotCleaner interface {
	CleanupOlderThan(ctx context.Context, days int) (int64, error)
}

// runRetention sweeps expired snapshots once at start and then on every
// tick until ctx is done. days is read before each sweep so reloaded
// configuration applies without a restart.
func runRetention(ctx context.Context, cleaner snapshotCleaner, interval time.Duration, days func() int, logger *logrus.Logger, registry *metrics.Registry) {
	if interval <= 0 {
		interval = time.Hour
	}

	errLog := &apperrors.Logger{Logger: logger}
	sweep := func() {
		removed, err := cleaner.CleanupOlderThan(ctx, days())
		if err != nil {
			if ctx.Err() == nil {
				errLog.LogRetryableError(err, "Snapshot retention sweep failed", logrus.Fields{"interval": interval.String()})
			}
			return
		}
		if removed > 0 {
			registry.Add(metrics.SnapshotsExpired, float64(removed), nil)
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
