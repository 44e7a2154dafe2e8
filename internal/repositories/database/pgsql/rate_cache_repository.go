package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_backend_app/internal/core/ports/repositories"
	"github.com/SscSPs/erp_backend_app/internal/models"
	"github.com/SscSPs/erp_backend_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRateCacheRepository struct {
	BaseRepository
}

// newPgxRateCacheRepository creates a new repository for the rate lookup cache.
func newPgxRateCacheRepository(pool *pgxpool.Pool) portsrepo.RateCacheRepository {
	return &PgxRateCacheRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RateCacheRepository = (*PgxRateCacheRepository)(nil)

// FindCacheEntry retrieves the cache row keyed by (from, to, cacheDate).
func (r *PgxRateCacheRepository) FindCacheEntry(ctx context.Context, fromCurrencyCode, toCurrencyCode string, cacheDate time.Time) (*domain.RateCacheEntry, error) {
	query := `
		SELECT from_currency_code, to_currency_code, cache_date, rate, calculation_method,
		       confidence_level, calculation_path, source_rate_id, cached_at, expires_at
		FROM rate_cache_entries
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND cache_date = $3;
	`
	var m models.RateCacheEntry
	err := r.Pool.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode, cacheDate).Scan(
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.CacheDate,
		&m.Rate,
		&m.CalculationMethod,
		&m.ConfidenceLevel,
		&m.CalculationPath,
		&m.SourceRateID,
		&m.CachedAt,
		&m.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cache entry %s/%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}

	entry := mapping.ToDomainRateCacheEntry(m)
	return &entry, nil
}

// UpsertCacheEntry inserts or replaces the cache row for its key. The newest
// resolution always wins.
func (r *PgxRateCacheRepository) UpsertCacheEntry(ctx context.Context, entry domain.RateCacheEntry) error {
	m := mapping.ToModelRateCacheEntry(entry)

	query := `
		INSERT INTO rate_cache_entries (
			from_currency_code, to_currency_code, cache_date, rate, calculation_method,
			confidence_level, calculation_path, source_rate_id, cached_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (from_currency_code, to_currency_code, cache_date) DO UPDATE SET
			rate = EXCLUDED.rate,
			calculation_method = EXCLUDED.calculation_method,
			confidence_level = EXCLUDED.confidence_level,
			calculation_path = EXCLUDED.calculation_path,
			source_rate_id = EXCLUDED.source_rate_id,
			cached_at = EXCLUDED.cached_at,
			expires_at = EXCLUDED.expires_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.CacheDate,
		m.Rate,
		m.CalculationMethod,
		m.ConfidenceLevel,
		m.CalculationPath,
		m.SourceRateID,
		m.CachedAt,
		m.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry %s/%s: %w", m.FromCurrencyCode, m.ToCurrencyCode, err)
	}
	return nil
}

// PurgeExpired deletes every entry whose expiry is at or before now.
func (r *PgxRateCacheRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM rate_cache_entries WHERE expires_at <= $1;`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
