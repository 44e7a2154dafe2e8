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

const adjustmentColumns = `adjustment_id, adjustment_date, adjustment_reason, reference_document, status,
	created_at, created_by, last_updated_at, last_updated_by`

const adjustmentLineColumns = `line_id, adjustment_id, item_id, warehouse_id, book_quantity, adjusted_quantity, variance,
	created_at, created_by, last_updated_at, last_updated_by`

const stockTransactionColumns = `transaction_id, item_id, warehouse_id, dest_warehouse_id, transaction_type, move_type,
	quantity, transaction_date, reference_document, reference_number, state, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxStockRepository struct {
	BaseRepository
}

// newPgxStockRepository creates a new repository for stock adjustment data.
func newPgxStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryWithTx {
	return &PgxStockRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.StockRepositoryWithTx = (*PgxStockRepository)(nil)

func scanAdjustment(row pgx.Row) (*models.StockAdjustment, error) {
	var m models.StockAdjustment
	err := row.Scan(
		&m.AdjustmentID,
		&m.AdjustmentDate,
		&m.AdjustmentReason,
		&m.ReferenceDocument,
		&m.Status,
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

// FindAdjustmentByID retrieves an adjustment header with its lines attached.
func (r *PgxStockRepository) FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.StockAdjustment, error) {
	headerQuery := `
		SELECT ` + adjustmentColumns + `
		FROM stock_adjustments
		WHERE adjustment_id = $1;
	`
	m, err := scanAdjustment(r.Pool.QueryRow(ctx, headerQuery, adjustmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find adjustment %s: %w", adjustmentID, err)
	}

	linesQuery := `
		SELECT ` + adjustmentLineColumns + `
		FROM stock_adjustment_lines
		WHERE adjustment_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, linesQuery, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for adjustment %s: %w", adjustmentID, err)
	}
	defer rows.Close()

	adjustment := mapping.ToDomainStockAdjustment(*m)
	for rows.Next() {
		var ml models.StockAdjustmentLine
		if err := rows.Scan(
			&ml.LineID,
			&ml.AdjustmentID,
			&ml.ItemID,
			&ml.WarehouseID,
			&ml.BookQuantity,
			&ml.AdjustedQuantity,
			&ml.Variance,
			&ml.CreatedAt,
			&ml.CreatedBy,
			&ml.LastUpdatedAt,
			&ml.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment line: %w", err)
		}
		adjustment.Lines = append(adjustment.Lines, mapping.ToDomainStockAdjustmentLine(ml))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adjustment lines: %w", err)
	}

	return &adjustment, nil
}

// ListAdjustments retrieves a paginated list of adjustment headers, newest
// first, optionally filtered by status. Lines are not attached.
func (r *PgxStockRepository) ListAdjustments(ctx context.Context, status *domain.AdjustmentStatus, limit int, nextToken *string) ([]domain.StockAdjustment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments`

	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY created_at DESC, adjustment_id DESC`

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
		filterClause += ` AND (created_at, adjustment_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	modelAdjustments := make([]models.StockAdjustment, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanAdjustment(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan adjustment row: %w", scanErr)
		}
		modelAdjustments = append(modelAdjustments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating adjustment rows: %w", err)
	}

	var newNextToken *string
	if len(modelAdjustments) > limit {
		last := modelAdjustments[limit-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.AdjustmentID)
		newNextToken = &token
		modelAdjustments = modelAdjustments[:limit]
	}

	adjustments := make([]domain.StockAdjustment, len(modelAdjustments))
	for i, m := range modelAdjustments {
		adjustments[i] = mapping.ToDomainStockAdjustment(m)
	}
	return adjustments, newNextToken, nil
}

const insertLineQuery = `
	INSERT INTO stock_adjustment_lines (` + adjustmentLineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

func queueLineInsert(batch *pgx.Batch, line domain.StockAdjustmentLine) {
	m := mapping.ToModelStockAdjustmentLine(line)
	batch.Queue(insertLineQuery,
		m.LineID, m.AdjustmentID, m.ItemID, m.WarehouseID,
		m.BookQuantity, m.AdjustedQuantity, m.Variance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
}

// SaveAdjustment persists a new header and all of its lines atomically.
func (r *PgxStockRepository) SaveAdjustment(ctx context.Context, adjustment domain.StockAdjustment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelStockAdjustment(adjustment)
	headerQuery := `
		INSERT INTO stock_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.AdjustmentID,
		m.AdjustmentDate,
		m.AdjustmentReason,
		m.ReferenceDocument,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert adjustment "+m.AdjustmentID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range adjustment.Lines {
		queueLineInsert(batch, line)
	}
	br := tx.SendBatch(ctx, batch)
	for range adjustment.Lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return apperrors.NewAppError(500, "failed to insert adjustment line", err)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close adjustment line batch", err)
	}

	return r.Commit(ctx, tx)
}

// ReconcileAdjustment updates the header and applies a line-set reconciliation
// in a single transaction.
func (r *PgxStockRepository) ReconcileAdjustment(ctx context.Context, header domain.StockAdjustment, toUpdate, toInsert []domain.StockAdjustmentLine, lineIDsToDelete []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelStockAdjustment(header)
	headerQuery := `
		UPDATE stock_adjustments
		SET adjustment_date = $2, adjustment_reason = $3, reference_document = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE adjustment_id = $1;
	`
	tag, err := tx.Exec(ctx, headerQuery,
		m.AdjustmentID,
		m.AdjustmentDate,
		m.AdjustmentReason,
		m.ReferenceDocument,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update adjustment "+m.AdjustmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	batch := &pgx.Batch{}
	updateLineQuery := `
		UPDATE stock_adjustment_lines
		SET item_id = $3, warehouse_id = $4, book_quantity = $5, adjusted_quantity = $6, variance = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE line_id = $1 AND adjustment_id = $2;
	`
	for _, line := range toUpdate {
		ml := mapping.ToModelStockAdjustmentLine(line)
		batch.Queue(updateLineQuery,
			ml.LineID, ml.AdjustmentID, ml.ItemID, ml.WarehouseID,
			ml.BookQuantity, ml.AdjustedQuantity, ml.Variance,
			ml.LastUpdatedAt, ml.LastUpdatedBy,
		)
	}
	for _, line := range toInsert {
		queueLineInsert(batch, line)
	}
	for _, lineID := range lineIDsToDelete {
		batch.Queue(`DELETE FROM stock_adjustment_lines WHERE line_id = $1 AND adjustment_id = $2;`, lineID, header.AdjustmentID)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return apperrors.NewAppError(500, "failed to reconcile adjustment lines", err)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close reconcile batch", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateAdjustmentStatus moves the header from expectedStatus to newStatus.
// The WHERE guard serialises concurrent transitions: the second writer sees
// zero rows affected and gets a conflict.
func (r *PgxStockRepository) UpdateAdjustmentStatus(ctx context.Context, adjustmentID string, expectedStatus, newStatus domain.AdjustmentStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE stock_adjustments
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE adjustment_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, adjustmentID, string(expectedStatus), string(newStatus), updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update status of adjustment %s: %w", adjustmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: adjustment %s is no longer in status %s", apperrors.ErrConflict, adjustmentID, expectedStatus)
	}
	return nil
}

// CompleteAdjustment atomically applies the stock consequences of processing:
// absolute-set upserts of the item stock rows, append-only inserts of the
// ledger entries, and the approved -> completed header transition.
func (r *PgxStockRepository) CompleteAdjustment(ctx context.Context, adjustment domain.StockAdjustment, stockSets []domain.ItemStockSet, ledger []domain.StockTransaction, updatedByUserID string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Guarded status flip first; a concurrent processor loses here and the
	// whole transaction rolls back before touching stock.
	statusQuery := `
		UPDATE stock_adjustments
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE adjustment_id = $1 AND status = $2;
	`
	tag, err := tx.Exec(ctx, statusQuery,
		adjustment.AdjustmentID,
		string(domain.AdjustmentApproved),
		string(domain.AdjustmentCompleted),
		updatedAt,
		updatedByUserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete adjustment "+adjustment.AdjustmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: adjustment %s is no longer approved", apperrors.ErrConflict, adjustment.AdjustmentID)
	}

	// The adjusted quantity is authoritative, so stock application is an
	// absolute set. Missing balance rows are created on first touch.
	stockQuery := `
		INSERT INTO item_stocks (item_id, warehouse_id, quantity, reserved_quantity, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 0, $4, $5, $4, $5)
		ON CONFLICT (item_id, warehouse_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, set := range stockSets {
		batch.Queue(stockQuery, set.ItemID, set.WarehouseID, set.Quantity, updatedAt, updatedByUserID)
	}

	txnQuery := `
		INSERT INTO stock_transactions (` + stockTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, entry := range ledger {
		mt := mapping.ToModelStockTransaction(entry)
		batch.Queue(txnQuery,
			mt.TransactionID, mt.ItemID, mt.WarehouseID, mt.DestWarehouseID,
			mt.TransactionType, mt.MoveType, mt.Quantity, mt.TransactionDate,
			mt.ReferenceDocument, mt.ReferenceNumber, mt.State, mt.Notes,
			mt.CreatedAt, mt.CreatedBy, mt.LastUpdatedAt, mt.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return apperrors.NewAppError(500, "failed to apply stock consequences for adjustment "+adjustment.AdjustmentID, err)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close completion batch", err)
	}

	return r.Commit(ctx, tx)
}

// DeleteAdjustment removes the header; lines cascade via the FK.
func (r *PgxStockRepository) DeleteAdjustment(ctx context.Context, adjustmentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM stock_adjustments WHERE adjustment_id = $1;`, adjustmentID)
	if err != nil {
		return fmt.Errorf("failed to delete adjustment %s: %w", adjustmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindItemStock retrieves the balance row for (item, warehouse).
func (r *PgxStockRepository) FindItemStock(ctx context.Context, itemID, warehouseID string) (*domain.ItemStock, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, reserved_quantity, created_at, created_by, last_updated_at, last_updated_by
		FROM item_stocks
		WHERE item_id = $1 AND warehouse_id = $2;
	`
	var m models.ItemStock
	err := r.Pool.QueryRow(ctx, query, itemID, warehouseID).Scan(
		&m.ItemID,
		&m.WarehouseID,
		&m.Quantity,
		&m.ReservedQuantity,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item stock %s/%s: %w", itemID, warehouseID, err)
	}

	stock := mapping.ToDomainItemStock(m)
	return &stock, nil
}

// ListStockTransactions retrieves ledger entries newest first with optional
// item and warehouse filters.
func (r *PgxStockRepository) ListStockTransactions(ctx context.Context, itemID, warehouseID *string, limit int, nextToken *string) ([]domain.StockTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + stockTransactionColumns + ` FROM stock_transactions`

	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if itemID != nil {
		args = append(args, *itemID)
		filterClause += ` AND item_id = $` + strconv.Itoa(len(args))
	}
	if warehouseID != nil {
		args = append(args, *warehouseID)
		filterClause += ` AND warehouse_id = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

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
		filterClause += ` AND (created_at, transaction_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query stock transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := make([]models.StockTransaction, 0, fetchLimit)
	for rows.Next() {
		var m models.StockTransaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.ItemID,
			&m.WarehouseID,
			&m.DestWarehouseID,
			&m.TransactionType,
			&m.MoveType,
			&m.Quantity,
			&m.TransactionDate,
			&m.ReferenceDocument,
			&m.ReferenceNumber,
			&m.State,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan stock transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating stock transaction rows: %w", err)
	}

	var newNextToken *string
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.TransactionID)
		newNextToken = &token
		modelTxns = modelTxns[:limit]
	}

	txns := make([]domain.StockTransaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainStockTransaction(m)
	}
	return txns, newNextToken, nil
}
