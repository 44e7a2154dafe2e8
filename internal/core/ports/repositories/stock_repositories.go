package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
)

// StockAdjustmentReader defines read operations for adjustment documents
type StockAdjustmentReader interface {
	// FindAdjustmentByID retrieves an adjustment header with its lines attached.
	FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.StockAdjustment, error)

	// ListAdjustments retrieves a paginated list of adjustment headers, newest
	// first, optionally filtered by status.
	ListAdjustments(ctx context.Context, status *domain.AdjustmentStatus, limit int, nextToken *string) ([]domain.StockAdjustment, *string, error)
}

// StockAdjustmentWriter defines write operations for adjustment documents
type StockAdjustmentWriter interface {
	// SaveAdjustment persists a new header and all of its lines atomically.
	SaveAdjustment(ctx context.Context, adjustment domain.StockAdjustment) error

	// ReconcileAdjustment updates the header and applies a line-set
	// reconciliation in a single transaction: toUpdate are rewritten in place,
	// toInsert are added, and lineIDsToDelete are removed. All or nothing.
	ReconcileAdjustment(ctx context.Context, header domain.StockAdjustment, toUpdate, toInsert []domain.StockAdjustmentLine, lineIDsToDelete []string) error

	// UpdateAdjustmentStatus moves the header from expectedStatus to newStatus.
	// Returns apperrors.ErrConflict when the row is no longer in expectedStatus,
	// which serialises concurrent transitions against the same document.
	UpdateAdjustmentStatus(ctx context.Context, adjustmentID string, expectedStatus, newStatus domain.AdjustmentStatus, updatedByUserID string, updatedAt time.Time) error

	// CompleteAdjustment atomically applies the stock consequences of processing:
	// absolute-set upserts of the item stock rows, append-only inserts of the
	// ledger entries, and the approved -> completed header transition. A failure
	// partway through leaves nothing applied.
	CompleteAdjustment(ctx context.Context, adjustment domain.StockAdjustment, stockSets []domain.ItemStockSet, ledger []domain.StockTransaction, updatedByUserID string, updatedAt time.Time) error

	// DeleteAdjustment removes the header and cascades to its lines.
	DeleteAdjustment(ctx context.Context, adjustmentID string) error
}

// ItemStockReader defines read operations for per-warehouse balances
type ItemStockReader interface {
	// FindItemStock retrieves the balance row for (item, warehouse).
	FindItemStock(ctx context.Context, itemID, warehouseID string) (*domain.ItemStock, error)
}

// StockTransactionReader defines read operations on the stock ledger
type StockTransactionReader interface {
	// ListStockTransactions retrieves ledger entries newest first, optionally
	// filtered by item and/or warehouse.
	ListStockTransactions(ctx context.Context, itemID, warehouseID *string, limit int, nextToken *string) ([]domain.StockTransaction, *string, error)
}

// StockRepositoryFacade combines all stock-related repository interfaces
type StockRepositoryFacade interface {
	StockAdjustmentReader
	StockAdjustmentWriter
	ItemStockReader
	StockTransactionReader
}

// StockRepositoryWithTx extends StockRepositoryFacade with transaction capabilities
type StockRepositoryWithTx interface {
	StockRepositoryFacade
	TransactionManager
}
