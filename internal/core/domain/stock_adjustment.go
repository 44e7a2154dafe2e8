package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentStatus indicates the state of a stock adjustment document.
type AdjustmentStatus string

const (
	AdjustmentDraft     AdjustmentStatus = "draft"
	AdjustmentPending   AdjustmentStatus = "pending"
	AdjustmentApproved  AdjustmentStatus = "approved"
	AdjustmentRejected  AdjustmentStatus = "rejected"
	AdjustmentCompleted AdjustmentStatus = "completed"
)

// Editable reports whether the document's header and lines may still be changed.
func (s AdjustmentStatus) Editable() bool {
	return s == AdjustmentDraft
}

// Deletable reports whether the document may be removed along with its lines.
// Completed adjustments have already rewritten stock balances and are immutable.
func (s AdjustmentStatus) Deletable() bool {
	return s == AdjustmentDraft || s == AdjustmentRejected
}

// Terminal reports whether no further transitions are possible.
func (s AdjustmentStatus) Terminal() bool {
	return s == AdjustmentCompleted || s == AdjustmentRejected
}

// adjustmentTransitions maps each status to the statuses reachable from it.
var adjustmentTransitions = map[AdjustmentStatus][]AdjustmentStatus{
	AdjustmentDraft:    {AdjustmentPending},
	AdjustmentPending:  {AdjustmentApproved, AdjustmentRejected},
	AdjustmentApproved: {AdjustmentCompleted},
}

// CanTransitionTo reports whether the state machine permits moving to target.
func (s AdjustmentStatus) CanTransitionTo(target AdjustmentStatus) bool {
	for _, next := range adjustmentTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// StockAdjustment is the header of a stock adjustment document. It exclusively
// owns its lines: deleting the header deletes the lines, except a completed
// header which is protected from deletion.
type StockAdjustment struct {
	AdjustmentID      string                `json:"adjustmentID"` // Primary Key (UUID)
	AdjustmentDate    time.Time             `json:"adjustmentDate"`
	AdjustmentReason  string                `json:"adjustmentReason"`
	ReferenceDocument *string               `json:"referenceDocument,omitempty"`
	Status            AdjustmentStatus      `json:"status"`
	Lines             []StockAdjustmentLine `json:"lines,omitempty"`
	AuditFields
}

// StockAdjustmentLine carries the book and target quantities for one item in
// one warehouse. Variance is derived and recomputed on every save; it is never
// independently settable.
type StockAdjustmentLine struct {
	LineID           string          `json:"lineID"` // Primary Key (UUID)
	AdjustmentID     string          `json:"adjustmentID"`
	ItemID           string          `json:"itemID"`
	WarehouseID      string          `json:"warehouseID"`
	BookQuantity     decimal.Decimal `json:"bookQuantity"`     // System quantity snapshot at creation
	AdjustedQuantity decimal.Decimal `json:"adjustedQuantity"` // Target quantity
	Variance         decimal.Decimal `json:"variance"`         // adjustedQuantity - bookQuantity
	AuditFields
}

// RecomputeVariance re-derives the variance from the two quantity fields.
// Called at every save site so the invariant holds without ORM hooks.
func (l *StockAdjustmentLine) RecomputeVariance() {
	l.Variance = l.AdjustedQuantity.Sub(l.BookQuantity)
}

// MoveType derives the ledger direction a non-zero variance produces.
func (l StockAdjustmentLine) MoveType() StockMoveType {
	if l.Variance.IsPositive() {
		return MoveIn
	}
	return MoveOut
}
