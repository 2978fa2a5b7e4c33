package pgsql

import (
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider backs every persistence port with the same pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{ExchangeRateRepo: newPgxExchangeRateRepository(pool)}
}
