package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/platform/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRateCacheTTL          = 5 * time.Minute
	DefaultRateCacheFetchTimeout = 3 * time.Second
)

// RateCacheClient serves rates to in-process consumers with graceful degradation:
//  1. a fresh local snapshot,
//  2. the remote rate source, written through to the local store,
//  3. any previous local snapshot however old,
//  4. the bootstrap table.
//
// GetRates never fails. Concurrent remote reads are collapsed into one.
type RateCacheClient struct {
	BaseService
	source       portssvc.RatesSource
	store        portsrepo.RateSnapshotStore
	metrics      *metrics.RateMetrics
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu      sync.RWMutex
	current *domain.RatesSnapshot
	loaded  bool

	flight singleflight.Group
}

// RateCacheOption is a functional option for configuring the rate cache client
type RateCacheOption func(*RateCacheClient)

// WithSnapshotStore persists snapshots so the last known rates survive restarts.
func WithSnapshotStore(store portsrepo.RateSnapshotStore) RateCacheOption {
	return func(c *RateCacheClient) { c.store = store }
}

// WithCacheTTL sets how long a snapshot is served without a remote read.
func WithCacheTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCacheClient) { c.ttl = ttl }
}

// WithFetchTimeout bounds each remote read.
func WithFetchTimeout(timeout time.Duration) RateCacheOption {
	return func(c *RateCacheClient) { c.fetchTimeout = timeout }
}

// WithCacheClock injects the time source used for freshness checks.
func WithCacheClock(now func() time.Time) RateCacheOption {
	return func(c *RateCacheClient) { c.now = now }
}

// WithCacheMetrics records which tier served each lookup.
func WithCacheMetrics(m *metrics.RateMetrics) RateCacheOption {
	return func(c *RateCacheClient) { c.metrics = m }
}

// NewRateCacheClient creates a cache client reading from source.
func NewRateCacheClient(source portssvc.RatesSource, options ...RateCacheOption) *RateCacheClient {
	c := &RateCacheClient{
		BaseService:  BaseService{Component: "rate_cache"},
		source:       source,
		ttl:          DefaultRateCacheTTL,
		fetchTimeout: DefaultRateCacheFetchTimeout,
		now:          time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portssvc.RateCacheSvc = (*RateCacheClient)(nil)

// GetRates returns the best available snapshot. The Source field tells which tier answered.
func (c *RateCacheClient) GetRates(ctx context.Context) domain.RatesSnapshot {
	cached := c.cachedSnapshot(ctx)
	if cached != nil && cached.IsFresh(c.now(), c.ttl) {
		c.LogDebug(ctx, "Serving cached rates", slog.String("tier", string(domain.RateSourceFreshCache)))
		c.metrics.RecordCacheLookup(string(domain.RateSourceFreshCache))
		return cached.WithSource(domain.RateSourceFreshCache)
	}

	remote, err := c.fetchRemote(ctx)
	if err == nil {
		c.metrics.RecordCacheLookup(string(domain.RateSourceRemote))
		return remote.WithSource(domain.RateSourceRemote)
	}

	// Another caller may have committed a newer snapshot while we waited.
	if cached = c.cachedSnapshot(ctx); cached != nil {
		c.LogWarn(ctx, "Rate source unavailable, serving stale rates (degraded)",
			slog.String("tier", string(domain.RateSourceStaleCache)),
			slog.Time("cached_at", cached.CachedAt),
			slog.String("error", err.Error()))
		c.metrics.RecordCacheLookup(string(domain.RateSourceStaleCache))
		return cached.WithSource(domain.RateSourceStaleCache)
	}

	c.LogWarn(ctx, "No rates ever cached, serving bootstrap rates (degraded)",
		slog.String("tier", string(domain.RateSourceBootstrap)),
		slog.String("error", fmt.Errorf("%w: %v", apperrors.ErrNoCacheAvailable, err).Error()))
	c.metrics.RecordCacheLookup(string(domain.RateSourceBootstrap))
	return domain.BootstrapSnapshot()
}

// cachedSnapshot returns a copy of the in-memory snapshot, loading it from the
// store on first use.
func (c *RateCacheClient) cachedSnapshot(ctx context.Context) *domain.RatesSnapshot {
	c.mu.RLock()
	if c.loaded || c.store == nil {
		defer c.mu.RUnlock()
		if c.current == nil {
			return nil
		}
		snap := c.current.Clone()
		return &snap
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		stored, err := c.store.Load(ctx)
		if err != nil {
			c.LogWarn(ctx, "Failed to load cached rates from snapshot store", slog.String("error", err.Error()))
		} else {
			c.loaded = true
			if stored != nil && !stored.IsEmpty() && c.newerThanCurrent(*stored) {
				c.current = stored
			}
		}
	}
	if c.current == nil {
		return nil
	}
	snap := c.current.Clone()
	return &snap
}

// fetchRemote reads the rate source once for all concurrent callers and commits the result.
// Every caller stops waiting after the fetch timeout, even if the source ignores its context.
func (c *RateCacheClient) fetchRemote(ctx context.Context) (domain.RatesSnapshot, error) {
	// Detach from the caller's cancellation; the timeout still bounds the wait.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	defer cancel()

	ch := c.flight.DoChan("rates", func() (interface{}, error) {
		snap, err := c.source.GetRatesSnapshot(fetchCtx)
		if err != nil {
			return nil, err
		}
		if snap.IsEmpty() {
			return nil, apperrors.NewNotFoundError("rate source returned no rates")
		}
		snap.Source = ""
		snap.CachedAt = c.now()

		saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancelSave()
		c.commit(saveCtx, snap)
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.RatesSnapshot{}, res.Err
		}
		if res.Shared {
			c.LogDebug(ctx, "Shared in-flight rate fetch")
		}
		return res.Val.(domain.RatesSnapshot), nil
	case <-fetchCtx.Done():
		return domain.RatesSnapshot{}, fmt.Errorf("rate source did not answer within %s: %w", c.fetchTimeout, fetchCtx.Err())
	}
}

// commit stores snap in memory and writes it through unless a newer snapshot is already held.
func (c *RateCacheClient) commit(ctx context.Context, snap domain.RatesSnapshot) {
	c.mu.Lock()
	if !c.newerThanCurrent(snap) {
		c.mu.Unlock()
		c.LogDebug(ctx, "Discarding fetched rates older than cached snapshot")
		return
	}
	stored := snap.Clone()
	c.current = &stored
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, snap); err != nil {
		c.LogWarn(ctx, "Failed to write rates to snapshot store", slog.String("error", err.Error()))
	}
}

// newerThanCurrent must be called with c.mu held.
func (c *RateCacheClient) newerThanCurrent(snap domain.RatesSnapshot) bool {
	return c.current == nil || !c.current.CachedAt.After(snap.CachedAt)
}
