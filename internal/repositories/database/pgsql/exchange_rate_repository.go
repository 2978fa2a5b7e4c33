package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	"github.com/SscSPs/rental_fx/internal/models"
	"github.com/SscSPs/rental_fx/internal/utils/mapping"
	"github.com/SscSPs/rental_fx/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryWithTx using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

const selectExchangeRateColumns = `
	SELECT currency_code, rate, margin_percent, display_rate, inverse_rate,
		fetched_at, created_at, last_updated_at
	FROM exchange_rates`

// UpsertExchangeRate inserts or replaces the record for its currency and appends
// a history row. Both writes share one transaction scoped to this currency only.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, record domain.ExchangeRateRecord) error {
	modelRate := mapping.ToModelExchangeRate(record)
	history := mapping.ToModelExchangeRateHistory(record)

	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
		INSERT INTO exchange_rates (
			currency_code, rate, margin_percent, display_rate, inverse_rate,
			fetched_at, created_at, last_updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (currency_code) DO UPDATE SET
			rate = EXCLUDED.rate,
			margin_percent = EXCLUDED.margin_percent,
			display_rate = EXCLUDED.display_rate,
			inverse_rate = EXCLUDED.inverse_rate,
			fetched_at = EXCLUDED.fetched_at,
			last_updated_at = EXCLUDED.last_updated_at;`,
			modelRate.CurrencyCode,
			modelRate.Rate,
			modelRate.MarginPercent,
			modelRate.DisplayRate,
			modelRate.InverseRate,
			modelRate.FetchedAt,
			modelRate.CreatedAt,
			modelRate.LastUpdatedAt,
		)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to upsert exchange rate "+modelRate.CurrencyCode, err)
		}

		_, err = tx.Exec(ctx, `
		INSERT INTO exchange_rate_history (
			history_id, currency_code, rate, display_rate, fetched_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6);`,
			history.HistoryID,
			history.CurrencyCode,
			history.Rate,
			history.DisplayRate,
			history.FetchedAt,
			history.CreatedAt,
		)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to record exchange rate history "+modelRate.CurrencyCode, err)
		}
		return nil
	})
}

// FindExchangeRate retrieves the record for one currency.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, currency domain.CurrencyCode) (*domain.ExchangeRateRecord, error) {
	var modelRate models.ExchangeRate
	err := r.Pool.QueryRow(ctx, selectExchangeRateColumns+` WHERE currency_code = $1;`, currency.String()).Scan(
		&modelRate.CurrencyCode,
		&modelRate.Rate,
		&modelRate.MarginPercent,
		&modelRate.DisplayRate,
		&modelRate.InverseRate,
		&modelRate.FetchedAt,
		&modelRate.CreatedAt,
		&modelRate.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate for " + currency.String() + " not found")
		}
		return nil, fmt.Errorf("failed to find exchange rate %s: %w", currency, err)
	}

	record := mapping.ToDomainExchangeRate(modelRate)
	return &record, nil
}

// ListExchangeRates retrieves every stored record.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	rows, err := r.Pool.Query(ctx, selectExchangeRateColumns+` ORDER BY currency_code;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		var m models.ExchangeRate
		err := row.Scan(
			&m.CurrencyCode,
			&m.Rate,
			&m.MarginPercent,
			&m.DisplayRate,
			&m.InverseRate,
			&m.FetchedAt,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		)
		return m, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ExchangeRateRecord{}, nil
		}
		return nil, fmt.Errorf("failed to scan exchange rates: %w", err)
	}

	return mapping.ToDomainExchangeRates(modelRates), nil
}

// LatestFetchedAt returns MAX(fetched_at), or nil for an empty table.
func (r *PgxExchangeRateRepository) LatestFetchedAt(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	if err := r.Pool.QueryRow(ctx, `SELECT MAX(fetched_at) FROM exchange_rates;`).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to query latest fetched_at: %w", err)
	}
	return latest, nil
}

// DeleteHistoryBefore prunes history rows older than cutoff.
func (r *PgxExchangeRateRepository) DeleteHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM exchange_rate_history WHERE fetched_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete exchange rate history: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListExchangeRateHistory retrieves a page of history rows for one currency using token-based pagination.
func (r *PgxExchangeRateRepository) ListExchangeRateHistory(ctx context.Context, currency domain.CurrencyCode, limit int, nextToken *string) ([]domain.ExchangeRateHistoryEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether another page exists.
	fetchLimit := limit + 1

	query := `
		SELECT history_id::text, currency_code, rate, display_rate, fetched_at, created_at
		FROM exchange_rate_history
		WHERE currency_code = $1`
	args := []interface{}{currency.String()}

	if nextToken != nil && *nextToken != "" {
		lastFetchedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr))
		}
		query += ` AND (fetched_at, history_id) < ($2, $3::uuid)`
		args = append(args, lastFetchedAt, lastID)
	}
	query += ` ORDER BY fetched_at DESC, history_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query exchange rate history for %s: %w", currency, err)
	}
	defer rows.Close()

	modelRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRateHistory, error) {
		var m models.ExchangeRateHistory
		err := row.Scan(&m.HistoryID, &m.CurrencyCode, &m.Rate, &m.DisplayRate, &m.FetchedAt, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan exchange rate history for %s: %w", currency, err)
	}

	var nextTokenVal *string
	if len(modelRows) > limit {
		last := modelRows[limit-1]
		token := pagination.EncodeToken(last.FetchedAt, last.HistoryID)
		nextTokenVal = &token
		modelRows = modelRows[:limit]
	}

	entries := make([]domain.ExchangeRateHistoryEntry, len(modelRows))
	for i, m := range modelRows {
		entries[i] = mapping.ToDomainExchangeRateHistory(m)
	}
	return entries, nextTokenVal, nil
}
