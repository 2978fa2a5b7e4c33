package scheduler

import (
	"context"
	"time"

	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
)

// HistoryCleanupJob prunes rate history older than the retention window.
type HistoryCleanupJob struct {
	svc       portssvc.ExchangeRateWriterSvc
	retention time.Duration
}

// NewHistoryCleanupJob creates a cleanup job keeping retention worth of history.
func NewHistoryCleanupJob(svc portssvc.ExchangeRateWriterSvc, retention time.Duration) *HistoryCleanupJob {
	return &HistoryCleanupJob{svc: svc, retention: retention}
}

var _ Job = (*HistoryCleanupJob)(nil)

func (j *HistoryCleanupJob) Name() string { return "exchange_rate_history_cleanup" }

func (j *HistoryCleanupJob) Run(ctx context.Context) error {
	_, err := j.svc.PruneHistory(ctx, j.retention)
	return err
}
