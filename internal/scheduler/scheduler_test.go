package scheduler_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/SscSPs/rental_fx/internal/scheduler"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRate service ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) RefreshRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockRateService) PruneHistory(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRateService) GetAllRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockRateService) GetRate(ctx context.Context, currency domain.CurrencyCode) (*domain.ExchangeRateRecord, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockRateService) GetLatestFetchedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockRateService) GetRateHistory(ctx context.Context, currency domain.CurrencyCode, limit int, nextToken *string) (*domain.RateHistoryPage, error) {
	args := m.Called(ctx, currency, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateHistoryPage), args.Error(1)
}

func zeroBackOff() backoff.BackOff { return &backoff.ZeroBackOff{} }

// --- Test Suite ---
type RefreshJobTestSuite struct {
	suite.Suite
	svc *MockRateService
	job *scheduler.RefreshJob
}

func (suite *RefreshJobTestSuite) SetupTest() {
	suite.svc = new(MockRateService)
	suite.job = scheduler.NewRefreshJob(suite.svc, 2, scheduler.WithBackOff(zeroBackOff))
}

func (suite *RefreshJobTestSuite) TestTrigger_Success() {
	records := []domain.ExchangeRateRecord{{Currency: domain.USD}}
	suite.svc.On("RefreshRates", mock.Anything).Return(records, nil).Once()

	got, err := suite.job.Trigger(context.Background())

	suite.Require().NoError(err)
	suite.Equal(records, got)
	suite.svc.AssertExpectations(suite.T())
}

func (suite *RefreshJobTestSuite) TestTrigger_RetriesProviderFailure() {
	providerErr := fmt.Errorf("wrapped: %w", apperrors.ErrProviderUnavailable)
	records := []domain.ExchangeRateRecord{{Currency: domain.USD}}
	suite.svc.On("RefreshRates", mock.Anything).Return(nil, providerErr).Twice()
	suite.svc.On("RefreshRates", mock.Anything).Return(records, nil).Once()

	got, err := suite.job.Trigger(context.Background())

	suite.Require().NoError(err)
	suite.Equal(records, got)
	suite.svc.AssertNumberOfCalls(suite.T(), "RefreshRates", 3)
}

func (suite *RefreshJobTestSuite) TestTrigger_GivesUpAfterMaxRetries() {
	suite.svc.On("RefreshRates", mock.Anything).Return(nil, apperrors.ErrProviderUnavailable)

	_, err := suite.job.Trigger(context.Background())

	suite.ErrorIs(err, apperrors.ErrProviderUnavailable)
	suite.svc.AssertNumberOfCalls(suite.T(), "RefreshRates", 3)
}

func (suite *RefreshJobTestSuite) TestTrigger_PartialFailureIsNotRetried() {
	stored := []domain.ExchangeRateRecord{{Currency: domain.USD}}
	suite.svc.On("RefreshRates", mock.Anything).Return(stored, assert.AnError).Once()

	got, err := suite.job.Trigger(context.Background())

	suite.ErrorIs(err, assert.AnError)
	suite.Equal(stored, got)
	suite.svc.AssertNumberOfCalls(suite.T(), "RefreshRates", 1)
}

func (suite *RefreshJobTestSuite) TestTrigger_OverlappingRefreshIsRejected() {
	started := make(chan struct{})
	release := make(chan struct{})
	suite.svc.On("RefreshRates", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return([]domain.ExchangeRateRecord{}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = suite.job.Trigger(context.Background())
	}()
	<-started

	_, err := suite.job.Trigger(context.Background())
	suite.ErrorIs(err, apperrors.ErrRefreshInProgress)
	suite.NoError(suite.job.Run(context.Background()), "scheduled overlap is skipped quietly")

	close(release)
	wg.Wait()
	suite.svc.AssertNumberOfCalls(suite.T(), "RefreshRates", 1)
}

func TestRefreshJobTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshJobTestSuite))
}

func TestHistoryCleanupJob(t *testing.T) {
	svc := new(MockRateService)
	svc.On("PruneHistory", mock.Anything, 7*24*time.Hour).Return(int64(12), nil).Once()

	job := scheduler.NewHistoryCleanupJob(svc, 7*24*time.Hour)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "exchange_rate_history_cleanup", job.Name())
	svc.AssertExpectations(t)
}

func TestRefreshIfStale(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-10 * time.Minute)
	stale := now.Add(-2 * time.Hour)

	tests := []struct {
		name        string
		latest      *time.Time
		wantRefresh bool
	}{
		{"empty store", nil, true},
		{"stale store", &stale, true},
		{"fresh store", &fresh, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRateService)
			if tt.latest == nil {
				svc.On("GetLatestFetchedAt", mock.Anything).Return(nil, nil).Once()
			} else {
				svc.On("GetLatestFetchedAt", mock.Anything).Return(tt.latest, nil).Once()
			}
			if tt.wantRefresh {
				svc.On("RefreshRates", mock.Anything).Return([]domain.ExchangeRateRecord{}, nil).Once()
			}
			job := scheduler.NewRefreshJob(svc, 0, scheduler.WithBackOff(zeroBackOff))

			refreshed, err := scheduler.RefreshIfStale(context.Background(), svc, job, time.Hour, now)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRefresh, refreshed)
			svc.AssertExpectations(t)
		})
	}
}

func TestSchedulePeriod(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 10, 0, 0, time.UTC)

	hourly, err := scheduler.SchedulePeriod("0 0 * * * *", now)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, hourly)

	every, err := scheduler.SchedulePeriod("@every 15m", now)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, every)

	_, err = scheduler.SchedulePeriod("not a schedule", now)
	assert.Error(t, err)
}
