package services

import (
	"context"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/SscSPs/erp_backend_app/internal/dto"
)

// StockAdjustmentReaderSvc defines read operations for adjustment documents
type StockAdjustmentReaderSvc interface {
	// GetAdjustmentByID retrieves an adjustment with its lines.
	GetAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.StockAdjustment, error)

	// ListAdjustments retrieves a paginated list of adjustments.
	ListAdjustments(ctx context.Context, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error)
}

// StockAdjustmentWriterSvc defines the guarded state-machine operations.
// Each transition is rejected with a StateTransitionError when attempted from
// the wrong status, and has no side effects in that case.
type StockAdjustmentWriterSvc interface {
	// CreateAdjustment creates a draft adjustment with at least one line.
	CreateAdjustment(ctx context.Context, req dto.CreateStockAdjustmentRequest, creatorUserID string) (*domain.StockAdjustment, error)

	// UpdateAdjustment edits a draft's header and reconciles its line set.
	UpdateAdjustment(ctx context.Context, adjustmentID string, req dto.UpdateStockAdjustmentRequest, userID string) (*domain.StockAdjustment, error)

	// SubmitAdjustment moves draft -> pending.
	SubmitAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error)

	// ApproveAdjustment moves pending -> approved.
	ApproveAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error)

	// RejectAdjustment moves pending -> rejected.
	RejectAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error)

	// ProcessAdjustment moves approved -> completed, atomically rewriting the
	// affected item stock rows and appending stock ledger entries.
	ProcessAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error)

	// DeleteAdjustment removes a draft or rejected adjustment and its lines.
	DeleteAdjustment(ctx context.Context, adjustmentID string, userID string) error
}

// StockLedgerReaderSvc defines read operations on balances and the ledger.
type StockLedgerReaderSvc interface {
	// GetItemStock retrieves the balance for (item, warehouse).
	GetItemStock(ctx context.Context, itemID, warehouseID string) (*domain.ItemStock, error)

	// ListStockTransactions retrieves ledger entries with optional filters.
	ListStockTransactions(ctx context.Context, params dto.ListStockTransactionsParams) (*dto.ListStockTransactionsResponse, error)
}

// StockAdjustmentSvcFacade combines all stock adjustment service interfaces
type StockAdjustmentSvcFacade interface {
	StockAdjustmentReaderSvc
	StockAdjustmentWriterSvc
	StockLedgerReaderSvc
}
