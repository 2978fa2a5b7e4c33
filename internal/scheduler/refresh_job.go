package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/core/services"
	"github.com/SscSPs/rental_fx/internal/middleware"
	"github.com/cenkalti/backoff/v4"
)

// RefreshJob refreshes the rate store with at most one refresh in flight.
// Scheduled runs, manual triggers and the store's self-healing read share one gate.
type RefreshJob struct {
	svc        portssvc.ExchangeRateWriterSvc
	maxRetries uint64
	newBackOff func() backoff.BackOff
	gate       *services.RefreshGate
}

// RefreshJobOption configures a RefreshJob.
type RefreshJobOption func(*RefreshJob)

// WithBackOff replaces the exponential backoff policy between retries.
func WithBackOff(newBackOff func() backoff.BackOff) RefreshJobOption {
	return func(j *RefreshJob) { j.newBackOff = newBackOff }
}

// WithRefreshGate makes the job share its in-flight guard with other refresh callers.
func WithRefreshGate(g *services.RefreshGate) RefreshJobOption {
	return func(j *RefreshJob) { j.gate = g }
}

// NewRefreshJob creates a refresh job retrying provider failures up to maxRetries times.
func NewRefreshJob(svc portssvc.ExchangeRateWriterSvc, maxRetries uint64, opts ...RefreshJobOption) *RefreshJob {
	j := &RefreshJob{
		svc:        svc,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = time.Minute
			return b
		},
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.gate == nil {
		j.gate = services.NewRefreshGate()
	}
	return j
}

var (
	_ Job                    = (*RefreshJob)(nil)
	_ portssvc.RateRefresher = (*RefreshJob)(nil)
)

func (j *RefreshJob) Name() string { return "exchange_rate_refresh" }

// Run is the scheduled entry point. An overlapping run is skipped, not failed.
func (j *RefreshJob) Run(ctx context.Context) error {
	_, err := j.Trigger(ctx)
	if errors.Is(err, apperrors.ErrRefreshInProgress) {
		middleware.GetLoggerFromCtx(ctx).Info("Skipping refresh, another one is in progress")
		return nil
	}
	return err
}

// Trigger refreshes now. Provider failures are retried with backoff; partial
// store failures are returned as-is with the records that were stored.
func (j *RefreshJob) Trigger(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	return j.gate.TryRun(func() ([]domain.ExchangeRateRecord, error) {
		return j.refreshWithRetry(ctx)
	})
}

func (j *RefreshJob) refreshWithRetry(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	var records []domain.ExchangeRateRecord

	operation := func() error {
		recs, err := j.svc.RefreshRates(ctx)
		records = recs
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrProviderUnavailable) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Rate refresh failed, retrying",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", wait))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(j.newBackOff(), j.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return records, err
	}
	return records, nil
}
