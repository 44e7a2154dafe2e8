package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_backend_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_backend_app/internal/core/ports/services"
	"github.com/SscSPs/erp_backend_app/internal/dto"
	"github.com/SscSPs/erp_backend_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultAdjustmentListLimit = 20

// stockAdjustmentService drives the adjustment workflow: a draft document is
// edited freely, then walks draft -> pending -> approved -> completed (or
// rejected) under guarded transitions, and processing atomically rewrites the
// affected stock balances while appending to the immutable ledger.
type stockAdjustmentService struct {
	stockRepo portsrepo.StockRepositoryWithTx
}

// NewStockAdjustmentService creates a new stock adjustment service.
func NewStockAdjustmentService(stockRepo portsrepo.StockRepositoryWithTx) portssvc.StockAdjustmentSvcFacade {
	return &stockAdjustmentService{stockRepo: stockRepo}
}

var _ portssvc.StockAdjustmentSvcFacade = (*stockAdjustmentService)(nil)

func validateLineQuantities(itemID, warehouseID string, book, adjusted decimal.Decimal) error {
	if strings.TrimSpace(itemID) == "" || strings.TrimSpace(warehouseID) == "" {
		return fmt.Errorf("%w: item and warehouse are required on every line", apperrors.ErrValidation)
	}
	if book.IsNegative() || adjusted.IsNegative() {
		return fmt.Errorf("%w: quantities cannot be negative (item %s, warehouse %s)", apperrors.ErrValidation, itemID, warehouseID)
	}
	return nil
}

func (s *stockAdjustmentService) CreateAdjustment(ctx context.Context, req dto.CreateStockAdjustmentRequest, creatorUserID string) (*domain.StockAdjustment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: an adjustment requires at least one line", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.AdjustmentReason) == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	adjustment := domain.StockAdjustment{
		AdjustmentID:      uuid.NewString(),
		AdjustmentDate:    req.AdjustmentDate,
		AdjustmentReason:  req.AdjustmentReason,
		ReferenceDocument: req.ReferenceDocument,
		Status:            domain.AdjustmentDraft,
		AuditFields:       audit,
	}

	adjustment.Lines = make([]domain.StockAdjustmentLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		if err := validateLineQuantities(lineReq.ItemID, lineReq.WarehouseID, lineReq.BookQuantity, lineReq.AdjustedQuantity); err != nil {
			return nil, err
		}
		line := domain.StockAdjustmentLine{
			LineID:           uuid.NewString(),
			AdjustmentID:     adjustment.AdjustmentID,
			ItemID:           lineReq.ItemID,
			WarehouseID:      lineReq.WarehouseID,
			BookQuantity:     lineReq.BookQuantity,
			AdjustedQuantity: lineReq.AdjustedQuantity,
			AuditFields:      audit,
		}
		line.RecomputeVariance()
		adjustment.Lines[i] = line
	}

	if err := s.stockRepo.SaveAdjustment(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to save adjustment in service: %w", err)
	}

	logger.Info("stock adjustment created", "adjustmentID", adjustment.AdjustmentID, "lines", len(adjustment.Lines))
	return &adjustment, nil
}

func (s *stockAdjustmentService) UpdateAdjustment(ctx context.Context, adjustmentID string, req dto.UpdateStockAdjustmentRequest, userID string) (*domain.StockAdjustment, error) {
	existing, err := s.stockRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find adjustment for update: %w", err)
	}
	if !existing.Status.Editable() {
		return nil, apperrors.NewStateTransitionError("edit adjustment", string(existing.Status), string(domain.AdjustmentDraft))
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: an adjustment requires at least one line", apperrors.ErrValidation)
	}

	now := time.Now().UTC()

	header := *existing
	if req.AdjustmentDate != nil {
		header.AdjustmentDate = *req.AdjustmentDate
	}
	if req.AdjustmentReason != nil {
		if strings.TrimSpace(*req.AdjustmentReason) == "" {
			return nil, fmt.Errorf("%w: adjustment reason cannot be empty", apperrors.ErrValidation)
		}
		header.AdjustmentReason = *req.AdjustmentReason
	}
	if req.ReferenceDocument != nil {
		header.ReferenceDocument = req.ReferenceDocument
	}
	header.Touch(userID, now)

	existingLines := make(map[string]domain.StockAdjustmentLine, len(existing.Lines))
	for _, line := range existing.Lines {
		existingLines[line.LineID] = line
	}

	// Reconcile the requested line set against the stored one: lines with a
	// known ID are updated in place, lines without one are inserted, and stored
	// lines absent from the request are deleted.
	var toUpdate, toInsert []domain.StockAdjustmentLine
	seen := make(map[string]bool, len(req.Lines))
	for _, lineReq := range req.Lines {
		if err := validateLineQuantities(lineReq.ItemID, lineReq.WarehouseID, lineReq.BookQuantity, lineReq.AdjustedQuantity); err != nil {
			return nil, err
		}

		if lineReq.LineID != nil {
			stored, ok := existingLines[*lineReq.LineID]
			if !ok {
				return nil, fmt.Errorf("%w: line %s does not belong to adjustment %s", apperrors.ErrValidation, *lineReq.LineID, adjustmentID)
			}
			seen[*lineReq.LineID] = true
			stored.ItemID = lineReq.ItemID
			stored.WarehouseID = lineReq.WarehouseID
			stored.BookQuantity = lineReq.BookQuantity
			stored.AdjustedQuantity = lineReq.AdjustedQuantity
			stored.RecomputeVariance()
			stored.Touch(userID, now)
			toUpdate = append(toUpdate, stored)
			continue
		}

		line := domain.StockAdjustmentLine{
			LineID:           uuid.NewString(),
			AdjustmentID:     adjustmentID,
			ItemID:           lineReq.ItemID,
			WarehouseID:      lineReq.WarehouseID,
			BookQuantity:     lineReq.BookQuantity,
			AdjustedQuantity: lineReq.AdjustedQuantity,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		line.RecomputeVariance()
		toInsert = append(toInsert, line)
	}

	var lineIDsToDelete []string
	for lineID := range existingLines {
		if !seen[lineID] {
			lineIDsToDelete = append(lineIDsToDelete, lineID)
		}
	}

	if err := s.stockRepo.ReconcileAdjustment(ctx, header, toUpdate, toInsert, lineIDsToDelete); err != nil {
		return nil, fmt.Errorf("failed to reconcile adjustment in service: %w", err)
	}

	updated, err := s.stockRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload adjustment after update: %w", err)
	}
	return updated, nil
}

// transition performs a guarded status move. All validation happens before the
// status write, so a rejected transition has no side effects.
func (s *stockAdjustmentService) transition(ctx context.Context, adjustmentID string, operation string, target domain.AdjustmentStatus, userID string) (*domain.StockAdjustment, error) {
	adjustment, err := s.stockRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find adjustment for %s: %w", operation, err)
	}
	if !adjustment.Status.CanTransitionTo(target) {
		expected := expectedStatusFor(target)
		return nil, apperrors.NewStateTransitionError(operation, string(adjustment.Status), string(expected))
	}

	now := time.Now().UTC()
	if err := s.stockRepo.UpdateAdjustmentStatus(ctx, adjustmentID, adjustment.Status, target, userID, now); err != nil {
		return nil, fmt.Errorf("failed to %s adjustment: %w", operation, err)
	}

	adjustment.Status = target
	adjustment.Touch(userID, now)
	return adjustment, nil
}

// expectedStatusFor names the only status a transition may start from.
func expectedStatusFor(target domain.AdjustmentStatus) domain.AdjustmentStatus {
	switch target {
	case domain.AdjustmentPending:
		return domain.AdjustmentDraft
	case domain.AdjustmentApproved, domain.AdjustmentRejected:
		return domain.AdjustmentPending
	case domain.AdjustmentCompleted:
		return domain.AdjustmentApproved
	}
	return ""
}

func (s *stockAdjustmentService) SubmitAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error) {
	return s.transition(ctx, adjustmentID, "submit adjustment", domain.AdjustmentPending, userID)
}

func (s *stockAdjustmentService) ApproveAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error) {
	return s.transition(ctx, adjustmentID, "approve adjustment", domain.AdjustmentApproved, userID)
}

func (s *stockAdjustmentService) RejectAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error) {
	return s.transition(ctx, adjustmentID, "reject adjustment", domain.AdjustmentRejected, userID)
}

func (s *stockAdjustmentService) ProcessAdjustment(ctx context.Context, adjustmentID string, userID string) (*domain.StockAdjustment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	adjustment, err := s.stockRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find adjustment for processing: %w", err)
	}
	if !adjustment.Status.CanTransitionTo(domain.AdjustmentCompleted) {
		return nil, apperrors.NewStateTransitionError("process adjustment", string(adjustment.Status), string(domain.AdjustmentApproved))
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	var stockSets []domain.ItemStockSet
	var ledger []domain.StockTransaction
	for _, line := range adjustment.Lines {
		// Zero-variance lines are documentation only; they move nothing and
		// leave no ledger trace.
		if line.Variance.IsZero() {
			continue
		}

		stockSets = append(stockSets, domain.ItemStockSet{
			ItemID:      line.ItemID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.AdjustedQuantity,
		})
		ledger = append(ledger, domain.StockTransaction{
			TransactionID:     uuid.NewString(),
			ItemID:            line.ItemID,
			WarehouseID:       line.WarehouseID,
			TransactionType:   domain.TransactionAdjustment,
			MoveType:          line.MoveType(),
			Quantity:          line.Variance.Abs(),
			TransactionDate:   adjustment.AdjustmentDate,
			ReferenceDocument: adjustment.AdjustmentID,
			ReferenceNumber:   valueOrEmpty(adjustment.ReferenceDocument),
			State:             domain.TransactionDone,
			Notes:             adjustment.AdjustmentReason,
			AuditFields:       audit,
		})
	}

	if err := s.stockRepo.CompleteAdjustment(ctx, *adjustment, stockSets, ledger, userID, now); err != nil {
		return nil, fmt.Errorf("failed to complete adjustment: %w", err)
	}

	logger.Info("stock adjustment processed",
		"adjustmentID", adjustment.AdjustmentID,
		"stockRowsSet", len(stockSets),
		"ledgerEntries", len(ledger))

	adjustment.Status = domain.AdjustmentCompleted
	adjustment.Touch(userID, now)
	return adjustment, nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *stockAdjustmentService) DeleteAdjustment(ctx context.Context, adjustmentID string, userID string) error {
	adjustment, err := s.stockRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return fmt.Errorf("failed to find adjustment for deletion: %w", err)
	}
	if !adjustment.Status.Deletable() {
		return fmt.Errorf("%w: cannot delete adjustment in status %s", apperrors.ErrConflict, adjustment.Status)
	}
	if err := s.stockRepo.DeleteAdjustment(ctx, adjustmentID); err != nil {
		return fmt.Errorf("failed to delete adjustment in service: %w", err)
	}
	return nil
}

func (s *stockAdjustmentService) GetAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.StockAdjustment, error) {
	adjustment, err := s.stockRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get adjustment in service: %w", err)
	}
	return adjustment, nil
}

func (s *stockAdjustmentService) ListAdjustments(ctx context.Context, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultAdjustmentListLimit
	}

	var status *domain.AdjustmentStatus
	if params.Status != nil {
		st := domain.AdjustmentStatus(*params.Status)
		status = &st
	}

	adjustments, nextToken, err := s.stockRepo.ListAdjustments(ctx, status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments in service: %w", err)
	}

	resp := &dto.ListAdjustmentsResponse{
		Adjustments: make([]dto.StockAdjustmentResponse, len(adjustments)),
		NextToken:   nextToken,
	}
	for i := range adjustments {
		resp.Adjustments[i] = dto.ToStockAdjustmentResponse(&adjustments[i])
	}
	return resp, nil
}

func (s *stockAdjustmentService) GetItemStock(ctx context.Context, itemID, warehouseID string) (*domain.ItemStock, error) {
	if strings.TrimSpace(itemID) == "" || strings.TrimSpace(warehouseID) == "" {
		return nil, fmt.Errorf("%w: item and warehouse are required", apperrors.ErrValidation)
	}
	stock, err := s.stockRepo.FindItemStock(ctx, itemID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item stock in service: %w", err)
	}
	return stock, nil
}

func (s *stockAdjustmentService) ListStockTransactions(ctx context.Context, params dto.ListStockTransactionsParams) (*dto.ListStockTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultAdjustmentListLimit
	}

	txns, nextToken, err := s.stockRepo.ListStockTransactions(ctx, params.ItemID, params.WarehouseID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transactions in service: %w", err)
	}

	return &dto.ListStockTransactionsResponse{
		Transactions: dto.ToStockTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
