package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustment is the database row for an adjustment document header.
type StockAdjustment struct {
	AdjustmentID      string // Primary Key (UUID)
	AdjustmentDate    time.Time
	AdjustmentReason  string
	ReferenceDocument *string
	Status            string
	AuditFields
}

// StockAdjustmentLine is the database row for one line of an adjustment.
// Variance is stored denormalised but always rewritten from the quantities.
type StockAdjustmentLine struct {
	LineID           string // Primary Key (UUID)
	AdjustmentID     string // FK -> stock_adjustments, ON DELETE CASCADE
	ItemID           string
	WarehouseID      string
	BookQuantity     decimal.Decimal
	AdjustedQuantity decimal.Decimal
	Variance         decimal.Decimal
	AuditFields
}

// ItemStock is the database row for a per item x warehouse balance.
// Primary key is (item_id, warehouse_id).
type ItemStock struct {
	ItemID           string
	WarehouseID      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	AuditFields
}

// StockTransaction is the database row for one stock ledger entry.
type StockTransaction struct {
	TransactionID     string // Primary Key (UUID)
	ItemID            string
	WarehouseID       string
	DestWarehouseID   *string
	TransactionType   string
	MoveType          string
	Quantity          decimal.Decimal
	TransactionDate   time.Time
	ReferenceDocument string
	ReferenceNumber   string
	State             string
	Notes             string
	AuditFields
}
