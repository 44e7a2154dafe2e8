package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_backend_app/internal/core/ports/repositories"
	"github.com/SscSPs/erp_backend_app/internal/models"
	"github.com/SscSPs/erp_backend_app/internal/utils/mapping"
	"github.com/SscSPs/erp_backend_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rateColumns = `rate_id, from_currency_code, to_currency_code, rate, effective_date, end_date,
	is_active, is_bidirectional, rate_type, confidence_level,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for stored currency rates.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

func scanRate(row pgx.Row) (*models.CurrencyRate, error) {
	var m models.CurrencyRate
	err := row.Scan(
		&m.RateID,
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.Rate,
		&m.EffectiveDate,
		&m.EndDate,
		&m.IsActive,
		&m.IsBidirectional,
		&m.RateType,
		&m.ConfidenceLevel,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindCurrentRate retrieves the latest active rate for a pair whose effective
// window covers the given date. The newest effective_date wins when windows
// overlap.
func (r *PgxRateRepository) FindCurrentRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.CurrencyRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM currency_rates
		WHERE from_currency_code = $1
		  AND to_currency_code = $2
		  AND is_active = TRUE
		  AND effective_date <= $3
		  AND (end_date IS NULL OR end_date >= $3)
		ORDER BY effective_date DESC
		LIMIT 1;
	`
	m, err := scanRate(r.Pool.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find current rate %s/%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}

	domainRate := mapping.ToDomainCurrencyRate(*m)
	return &domainRate, nil
}

// FindRateByID retrieves a rate row by its identifier.
func (r *PgxRateRepository) FindRateByID(ctx context.Context, rateID string) (*domain.CurrencyRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM currency_rates
		WHERE rate_id = $1;
	`
	m, err := scanRate(r.Pool.QueryRow(ctx, query, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate by ID %s: %w", rateID, err)
	}

	domainRate := mapping.ToDomainCurrencyRate(*m)
	return &domainRate, nil
}

// ListRates retrieves rates newest first with optional pair filtering and
// token-based pagination.
func (r *PgxRateRepository) ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string, limit int, nextToken *string) ([]domain.CurrencyRate, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to detect whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + rateColumns + ` FROM currency_rates`

	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if fromCurrencyCode != nil {
		args = append(args, *fromCurrencyCode)
		filterClause += ` AND from_currency_code = $` + strconv.Itoa(len(args))
	}
	if toCurrencyCode != nil {
		args = append(args, *toCurrencyCode)
		filterClause += ` AND to_currency_code = $` + strconv.Itoa(len(args))
	}

	// Stable ordering; rate_id breaks created_at ties.
	orderByClause := `ORDER BY created_at DESC, rate_id DESC`

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := time.Parse(time.RFC3339Nano, fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		args = append(args, lastCreatedAt, fields[1])
		filterClause += ` AND (created_at, rate_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	modelRates := make([]models.CurrencyRate, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanRate(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan rate row: %w", scanErr)
		}
		modelRates = append(modelRates, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rate rows: %w", err)
	}

	var newNextToken *string
	if len(modelRates) > limit {
		last := modelRates[limit-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.RateID)
		newNextToken = &token
		modelRates = modelRates[:limit]
	}

	rates := make([]domain.CurrencyRate, len(modelRates))
	for i, m := range modelRates {
		rates[i] = mapping.ToDomainCurrencyRate(m)
	}
	return rates, newNextToken, nil
}

// SaveRate persists a new rate row.
func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.CurrencyRate) error {
	m := mapping.ToModelCurrencyRate(rate)

	query := `
		INSERT INTO currency_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RateID,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Rate,
		m.EffectiveDate,
		m.EndDate,
		m.IsActive,
		m.IsBidirectional,
		m.RateType,
		m.ConfidenceLevel,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save rate %s: %w", m.RateID, err)
	}
	return nil
}

// DeactivateRate marks a rate inactive. Rows are never deleted so historical
// lookups keep resolving.
func (r *PgxRateRepository) DeactivateRate(ctx context.Context, rateID string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE currency_rates
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE rate_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, rateID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to deactivate rate %s: %w", rateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
