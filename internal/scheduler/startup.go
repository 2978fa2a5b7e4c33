package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/middleware"
)

// RefreshIfStale runs job when the store is empty or its newest rate is older than maxAge.
// It reports whether a refresh was attempted.
func RefreshIfStale(ctx context.Context, reader portssvc.ExchangeRateReaderSvc, job Job, maxAge time.Duration, now time.Time) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	latest, err := reader.GetLatestFetchedAt(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check rate freshness: %w", err)
	}
	if latest != nil && now.Sub(*latest) <= maxAge {
		logger.Info("Stored rates are fresh, skipping startup refresh", slog.Time("latest_fetched_at", *latest))
		return false, nil
	}

	if latest == nil {
		logger.Info("Rate store is empty, refreshing at startup")
	} else {
		logger.Info("Stored rates are stale, refreshing at startup", slog.Time("latest_fetched_at", *latest))
	}
	return true, job.Run(ctx)
}
