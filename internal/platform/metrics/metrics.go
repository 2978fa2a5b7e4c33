// Package metrics holds the Prometheus collectors for rate refresh and cache activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateMetrics groups every collector the service exports.
// All methods are safe to call on a nil receiver, which records nothing.
type RateMetrics struct {
	RefreshTotal           *prometheus.CounterVec
	RefreshDuration        prometheus.Histogram
	CurrencyUpdatesTotal   *prometheus.CounterVec
	CurrencySkippedTotal   *prometheus.CounterVec
	CacheLookupsTotal      *prometheus.CounterVec
	ConversionsTotal       *prometheus.CounterVec
	LastRefreshTimestamp   prometheus.Gauge
	HistoryRowsPrunedTotal prometheus.Counter
}

// NewRateMetrics registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	factory := promauto.With(reg)
	return &RateMetrics{
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rate_refresh_total",
				Help: "Rate refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fx_rate_refresh_duration_seconds",
				Help:    "Duration of a full rate refresh",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		CurrencyUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_currency_updates_total",
				Help: "Per-currency upserts by outcome",
			},
			[]string{"currency", "outcome"},
		),
		CurrencySkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_currency_skipped_total",
				Help: "Currencies skipped because the provider omitted or mangled them",
			},
			[]string{"currency"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rate_cache_lookups_total",
				Help: "Rate cache lookups by serving tier",
			},
			[]string{"source"},
		),
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_conversions_total",
				Help: "Currency conversions by pair",
			},
			[]string{"from", "to"},
		),
		LastRefreshTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fx_rate_last_refresh_timestamp_seconds",
				Help: "Unix time of the last successful refresh",
			},
		),
		HistoryRowsPrunedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fx_rate_history_pruned_total",
				Help: "History rows removed by the retention job",
			},
		),
	}
}

// RecordRefresh records one refresh attempt.
func (m *RateMetrics) RecordRefresh(outcome string, duration time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(outcome).Inc()
	m.RefreshDuration.Observe(duration.Seconds())
	if outcome != "failure" {
		m.LastRefreshTimestamp.Set(float64(at.Unix()))
	}
}

// RecordCurrencyUpdate records one per-currency upsert.
func (m *RateMetrics) RecordCurrencyUpdate(currency string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.CurrencyUpdatesTotal.WithLabelValues(currency, outcome).Inc()
}

// RecordCurrencySkipped records a currency left untouched by a refresh.
func (m *RateMetrics) RecordCurrencySkipped(currency string) {
	if m == nil {
		return
	}
	m.CurrencySkippedTotal.WithLabelValues(currency).Inc()
}

// RecordCacheLookup records which tier served a cache lookup.
func (m *RateMetrics) RecordCacheLookup(source string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(source).Inc()
}

// RecordConversion records one conversion.
func (m *RateMetrics) RecordConversion(from, to string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(from, to).Inc()
}

// RecordHistoryPruned adds n pruned history rows.
func (m *RateMetrics) RecordHistoryPruned(n int64) {
	if m == nil {
		return
	}
	m.HistoryRowsPrunedTotal.Add(float64(n))
}
