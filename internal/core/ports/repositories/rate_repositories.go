package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
)

// RateReader defines read operations for stored currency rates
type RateReader interface {
	// FindCurrentRate retrieves the latest active rate for a pair whose effective
	// window covers the given date (effective_date <= date <= end_date-or-open),
	// ordered by effective_date descending.
	FindCurrentRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.CurrencyRate, error)

	// FindRateByID retrieves a rate row by its identifier.
	FindRateByID(ctx context.Context, rateID string) (*domain.CurrencyRate, error)

	// ListRates retrieves rates with optional pair filtering, newest first.
	ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string, limit int, nextToken *string) ([]domain.CurrencyRate, *string, error)
}

// RateWriter defines write operations for stored currency rates
type RateWriter interface {
	// SaveRate persists a new rate row.
	SaveRate(ctx context.Context, rate domain.CurrencyRate) error

	// DeactivateRate marks a rate inactive; rows are never deleted so that
	// historical lookups keep resolving.
	DeactivateRate(ctx context.Context, rateID string, updatedByUserID string, updatedAt time.Time) error
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}

// RateCacheRepository defines operations on the ephemeral rate cache.
// Entries are a derived projection; failures here must never fail a resolution.
type RateCacheRepository interface {
	// FindCacheEntry retrieves the cache row keyed by (from, to, cacheDate).
	FindCacheEntry(ctx context.Context, fromCurrencyCode, toCurrencyCode string, cacheDate time.Time) (*domain.RateCacheEntry, error)

	// UpsertCacheEntry inserts or replaces the cache row for its key.
	UpsertCacheEntry(ctx context.Context, entry domain.RateCacheEntry) error

	// PurgeExpired deletes every entry whose expiry is at or before now,
	// returning the number of rows removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
