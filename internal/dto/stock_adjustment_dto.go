package dto

import (
	"time"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateStockAdjustmentLineRequest is one line of a new adjustment.
type CreateStockAdjustmentLineRequest struct {
	ItemID           string          `json:"itemID" binding:"required"`
	WarehouseID      string          `json:"warehouseID" binding:"required"`
	BookQuantity     decimal.Decimal `json:"bookQuantity"`
	AdjustedQuantity decimal.Decimal `json:"adjustedQuantity"`
}

// CreateStockAdjustmentRequest defines the payload for creating an adjustment.
// New adjustments always start in draft.
type CreateStockAdjustmentRequest struct {
	AdjustmentDate    time.Time                          `json:"adjustmentDate" binding:"required"`
	AdjustmentReason  string                             `json:"adjustmentReason" binding:"required"`
	ReferenceDocument *string                            `json:"referenceDocument,omitempty"`
	Lines             []CreateStockAdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpsertStockAdjustmentLineRequest is one line of an update request. A line
// with a LineID updates the existing line in place; without one it is inserted.
// Existing lines absent from the request are deleted.
type UpsertStockAdjustmentLineRequest struct {
	LineID           *string         `json:"lineID,omitempty"`
	ItemID           string          `json:"itemID" binding:"required"`
	WarehouseID      string          `json:"warehouseID" binding:"required"`
	BookQuantity     decimal.Decimal `json:"bookQuantity"`
	AdjustedQuantity decimal.Decimal `json:"adjustedQuantity"`
}

// UpdateStockAdjustmentRequest defines the payload for editing a draft adjustment.
type UpdateStockAdjustmentRequest struct {
	AdjustmentDate    *time.Time                         `json:"adjustmentDate,omitempty"`
	AdjustmentReason  *string                            `json:"adjustmentReason,omitempty"`
	ReferenceDocument *string                            `json:"referenceDocument,omitempty"`
	Lines             []UpsertStockAdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StockAdjustmentLineResponse is the API shape of one adjustment line.
type StockAdjustmentLineResponse struct {
	LineID           string          `json:"lineID"`
	ItemID           string          `json:"itemID"`
	WarehouseID      string          `json:"warehouseID"`
	BookQuantity     decimal.Decimal `json:"bookQuantity"`
	AdjustedQuantity decimal.Decimal `json:"adjustedQuantity"`
	Variance         decimal.Decimal `json:"variance"`
}

// StockAdjustmentResponse is the API shape of an adjustment document.
type StockAdjustmentResponse struct {
	AdjustmentID      string                        `json:"adjustmentID"`
	AdjustmentDate    time.Time                     `json:"adjustmentDate"`
	AdjustmentReason  string                        `json:"adjustmentReason"`
	ReferenceDocument *string                       `json:"referenceDocument,omitempty"`
	Status            string                        `json:"status"`
	Lines             []StockAdjustmentLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time                     `json:"createdAt"`
	CreatedBy         string                        `json:"createdBy"`
	LastUpdatedAt     time.Time                     `json:"lastUpdatedAt"`
	LastUpdatedBy     string                        `json:"lastUpdatedBy"`
}

// ToStockAdjustmentResponse converts a domain adjustment graph to its response DTO.
func ToStockAdjustmentResponse(a *domain.StockAdjustment) StockAdjustmentResponse {
	resp := StockAdjustmentResponse{
		AdjustmentID:      a.AdjustmentID,
		AdjustmentDate:    a.AdjustmentDate,
		AdjustmentReason:  a.AdjustmentReason,
		ReferenceDocument: a.ReferenceDocument,
		Status:            string(a.Status),
		CreatedAt:         a.CreatedAt,
		CreatedBy:         a.CreatedBy,
		LastUpdatedAt:     a.LastUpdatedAt,
		LastUpdatedBy:     a.LastUpdatedBy,
	}
	if len(a.Lines) > 0 {
		resp.Lines = make([]StockAdjustmentLineResponse, len(a.Lines))
		for i, line := range a.Lines {
			resp.Lines[i] = StockAdjustmentLineResponse{
				LineID:           line.LineID,
				ItemID:           line.ItemID,
				WarehouseID:      line.WarehouseID,
				BookQuantity:     line.BookQuantity,
				AdjustedQuantity: line.AdjustedQuantity,
				Variance:         line.Variance,
			}
		}
	}
	return resp
}

// ListAdjustmentsParams holds filters and pagination for listing adjustments.
type ListAdjustmentsParams struct {
	Status    *string `form:"status" binding:"omitempty,oneof=draft pending approved rejected completed"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAdjustmentsResponse wraps a page of adjustment headers.
type ListAdjustmentsResponse struct {
	Adjustments []StockAdjustmentResponse `json:"adjustments"`
	NextToken   *string                   `json:"nextToken,omitempty"`
}

// StockTransactionResponse is the API shape of one stock ledger entry.
type StockTransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	ItemID            string          `json:"itemID"`
	WarehouseID       string          `json:"warehouseID"`
	DestWarehouseID   *string         `json:"destWarehouseID,omitempty"`
	TransactionType   string          `json:"transactionType"`
	MoveType          string          `json:"moveType"`
	Quantity          decimal.Decimal `json:"quantity"`
	TransactionDate   time.Time       `json:"transactionDate"`
	ReferenceDocument string          `json:"referenceDocument"`
	ReferenceNumber   string          `json:"referenceNumber"`
	State             string          `json:"state"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToStockTransactionResponses converts domain ledger entries to response DTOs.
func ToStockTransactionResponses(txns []domain.StockTransaction) []StockTransactionResponse {
	responses := make([]StockTransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = StockTransactionResponse{
			TransactionID:     txn.TransactionID,
			ItemID:            txn.ItemID,
			WarehouseID:       txn.WarehouseID,
			DestWarehouseID:   txn.DestWarehouseID,
			TransactionType:   string(txn.TransactionType),
			MoveType:          string(txn.MoveType),
			Quantity:          txn.Quantity,
			TransactionDate:   txn.TransactionDate,
			ReferenceDocument: txn.ReferenceDocument,
			ReferenceNumber:   txn.ReferenceNumber,
			State:             string(txn.State),
			Notes:             txn.Notes,
			CreatedAt:         txn.CreatedAt,
		}
	}
	return responses
}

// ListStockTransactionsParams holds filters and pagination for the ledger.
type ListStockTransactionsParams struct {
	ItemID      *string `form:"itemID"`
	WarehouseID *string `form:"warehouseID"`
	Limit       int     `form:"limit"`
	NextToken   *string `form:"nextToken"`
}

// ListStockTransactionsResponse wraps a page of ledger entries.
type ListStockTransactionsResponse struct {
	Transactions []StockTransactionResponse `json:"transactions"`
	NextToken    *string                    `json:"nextToken,omitempty"`
}

// ItemStockResponse is the API shape of a per-warehouse balance.
type ItemStockResponse struct {
	ItemID           string          `json:"itemID"`
	WarehouseID      string          `json:"warehouseID"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reservedQuantity"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
}

// ToItemStockResponse converts a domain.ItemStock to its response DTO.
func ToItemStockResponse(s *domain.ItemStock) ItemStockResponse {
	return ItemStockResponse{
		ItemID:           s.ItemID,
		WarehouseID:      s.WarehouseID,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		LastUpdatedAt:    s.LastUpdatedAt,
	}
}
