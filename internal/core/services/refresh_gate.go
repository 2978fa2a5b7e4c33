package services

import (
	"context"
	"sync"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
)

// RefreshFunc performs one rate refresh.
type RefreshFunc func() ([]domain.ExchangeRateRecord, error)

// RefreshGate admits one rate refresh at a time across every caller that shares it.
// Triggers are turned away while a refresh runs; self-healing readers wait for
// the running refresh and share its outcome.
type RefreshGate struct {
	mu      sync.Mutex
	running *refreshCall
}

type refreshCall struct {
	done    chan struct{}
	records []domain.ExchangeRateRecord
	err     error
}

func NewRefreshGate() *RefreshGate {
	return &RefreshGate{}
}

// TryRun runs fn, or returns apperrors.ErrRefreshInProgress if a refresh is already running.
func (g *RefreshGate) TryRun(fn RefreshFunc) ([]domain.ExchangeRateRecord, error) {
	g.mu.Lock()
	if g.running != nil {
		g.mu.Unlock()
		return nil, apperrors.ErrRefreshInProgress
	}
	call := g.begin()
	g.mu.Unlock()
	return g.run(call, fn)
}

// RunOrWait runs fn, or waits for the refresh already running and returns its outcome.
func (g *RefreshGate) RunOrWait(ctx context.Context, fn RefreshFunc) ([]domain.ExchangeRateRecord, error) {
	g.mu.Lock()
	if call := g.running; call != nil {
		g.mu.Unlock()
		select {
		case <-call.done:
			return call.records, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := g.begin()
	g.mu.Unlock()
	return g.run(call, fn)
}

// begin must be called with g.mu held.
func (g *RefreshGate) begin() *refreshCall {
	call := &refreshCall{done: make(chan struct{})}
	g.running = call
	return call
}

func (g *RefreshGate) run(call *refreshCall, fn RefreshFunc) ([]domain.ExchangeRateRecord, error) {
	defer func() {
		g.mu.Lock()
		g.running = nil
		g.mu.Unlock()
		close(call.done)
	}()
	call.records, call.err = fn()
	return call.records, call.err
}
