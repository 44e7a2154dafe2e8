package pgsql

import (
	portsrepo "github.com/SscSPs/erp_backend_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	currencyRepo := newPgxCurrencyRepository(dbPool)
	rateRepo := newPgxRateRepository(dbPool)
	rateCacheRepo := newPgxRateCacheRepository(dbPool)
	stockRepo := newPgxStockRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CurrencyRepo:  currencyRepo,
		RateRepo:      rateRepo,
		RateCacheRepo: rateCacheRepo,
		StockRepo:     stockRepo,
	}
}
