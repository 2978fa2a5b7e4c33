package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/SscSPs/rental_fx/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBlockedRefresh begins a refresh on gate that holds until release is closed.
func startBlockedRefresh(t *testing.T, gate *services.RefreshGate, release <-chan struct{}, out []domain.ExchangeRateRecord, outErr error) <-chan struct{} {
	t.Helper()
	started := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, _ = gate.TryRun(func() ([]domain.ExchangeRateRecord, error) {
			close(started)
			<-release
			return out, outErr
		})
	}()
	<-started
	return finished
}

func TestRefreshGate_TryRunRejectsWhileRunning(t *testing.T) {
	gate := services.NewRefreshGate()
	release := make(chan struct{})
	finished := startBlockedRefresh(t, gate, release, nil, nil)

	called := false
	_, err := gate.TryRun(func() ([]domain.ExchangeRateRecord, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, apperrors.ErrRefreshInProgress)
	assert.False(t, called)

	close(release)
	<-finished

	_, err = gate.TryRun(func() ([]domain.ExchangeRateRecord, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRefreshGate_RunOrWaitSharesRunningOutcome(t *testing.T) {
	gate := services.NewRefreshGate()
	release := make(chan struct{})
	failure := errors.New("upstream down")
	finished := startBlockedRefresh(t, gate, release, nil, failure)

	done := make(chan error, 1)
	go func() {
		_, err := gate.RunOrWait(context.Background(), func() ([]domain.ExchangeRateRecord, error) {
			t.Error("joined caller must not start its own refresh")
			return nil, nil
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	<-finished

	select {
	case err := <-done:
		assert.ErrorIs(t, err, failure)
	case <-time.After(time.Second):
		t.Fatal("waiter never returned")
	}
}

func TestRefreshGate_RunOrWaitHonoursContext(t *testing.T) {
	gate := services.NewRefreshGate()
	release := make(chan struct{})
	finished := startBlockedRefresh(t, gate, release, nil, nil)
	defer func() {
		close(release)
		<-finished
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := gate.RunOrWait(ctx, func() ([]domain.ExchangeRateRecord, error) { return nil, nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
