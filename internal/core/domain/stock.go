package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMoveType is the direction of a stock-affecting event.
type StockMoveType string

const (
	MoveIn  StockMoveType = "in"
	MoveOut StockMoveType = "out"
)

// StockTransactionType classifies the business event behind a ledger entry.
type StockTransactionType string

const (
	TransactionAdjustment StockTransactionType = "adjustment"
	TransactionTransfer   StockTransactionType = "transfer"
)

// StockTransactionState marks the lifecycle of a ledger entry. Adjustment
// processing writes entries directly in the done state.
type StockTransactionState string

const (
	TransactionDone StockTransactionState = "done"
)

// ItemStock is the per item x warehouse on-hand balance. It is the only place
// physical quantity is read and written by the adjustment workflow; one row per
// (item, warehouse), created on first touch.
type ItemStock struct {
	ItemID           string          `json:"itemID"`
	WarehouseID      string          `json:"warehouseID"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reservedQuantity"`
	AuditFields
}

// ItemStockSet is an absolute quantity assignment produced by processing an
// adjustment line. The adjusted quantity is authoritative for the warehouse, so
// application is a set, not an increment.
type ItemStockSet struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
}

// StockTransaction is one immutable, append-only stock ledger record. Entries
// are created exactly once per non-zero-variance line when an adjustment is
// processed and are never mutated or deleted afterwards.
type StockTransaction struct {
	TransactionID     string                `json:"transactionID"` // Primary Key (UUID)
	ItemID            string                `json:"itemID"`
	WarehouseID       string                `json:"warehouseID"`
	DestWarehouseID   *string               `json:"destWarehouseID,omitempty"` // Transfers only, unused by adjustments
	TransactionType   StockTransactionType  `json:"transactionType"`
	MoveType          StockMoveType         `json:"moveType"`
	Quantity          decimal.Decimal       `json:"quantity"` // Always a non-negative magnitude
	TransactionDate   time.Time             `json:"transactionDate"`
	ReferenceDocument string                `json:"referenceDocument"`
	ReferenceNumber   string                `json:"referenceNumber"`
	State             StockTransactionState `json:"state"`
	Notes             string                `json:"notes"`
	AuditFields
}
