package mapping

import (
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/SscSPs/erp_backend_app/internal/models"
)

// ToModelStockAdjustment converts a domain adjustment header to its model row.
func ToModelStockAdjustment(d domain.StockAdjustment) models.StockAdjustment {
	return models.StockAdjustment{
		AdjustmentID:      d.AdjustmentID,
		AdjustmentDate:    d.AdjustmentDate,
		AdjustmentReason:  d.AdjustmentReason,
		ReferenceDocument: d.ReferenceDocument,
		Status:            string(d.Status),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockAdjustment converts a model adjustment header to its domain form.
// Lines are loaded and attached separately by the repository.
func ToDomainStockAdjustment(m models.StockAdjustment) domain.StockAdjustment {
	return domain.StockAdjustment{
		AdjustmentID:      m.AdjustmentID,
		AdjustmentDate:    m.AdjustmentDate,
		AdjustmentReason:  m.AdjustmentReason,
		ReferenceDocument: m.ReferenceDocument,
		Status:            domain.AdjustmentStatus(m.Status),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockAdjustmentLine converts a domain line to its model row.
func ToModelStockAdjustmentLine(d domain.StockAdjustmentLine) models.StockAdjustmentLine {
	return models.StockAdjustmentLine{
		LineID:           d.LineID,
		AdjustmentID:     d.AdjustmentID,
		ItemID:           d.ItemID,
		WarehouseID:      d.WarehouseID,
		BookQuantity:     d.BookQuantity,
		AdjustedQuantity: d.AdjustedQuantity,
		Variance:         d.Variance,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockAdjustmentLine converts a model line to its domain form.
func ToDomainStockAdjustmentLine(m models.StockAdjustmentLine) domain.StockAdjustmentLine {
	return domain.StockAdjustmentLine{
		LineID:           m.LineID,
		AdjustmentID:     m.AdjustmentID,
		ItemID:           m.ItemID,
		WarehouseID:      m.WarehouseID,
		BookQuantity:     m.BookQuantity,
		AdjustedQuantity: m.AdjustedQuantity,
		Variance:         m.Variance,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainItemStock converts a model ItemStock to its domain form.
func ToDomainItemStock(m models.ItemStock) domain.ItemStock {
	return domain.ItemStock{
		ItemID:           m.ItemID,
		WarehouseID:      m.WarehouseID,
		Quantity:         m.Quantity,
		ReservedQuantity: m.ReservedQuantity,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockTransaction converts a domain ledger entry to its model row.
func ToModelStockTransaction(d domain.StockTransaction) models.StockTransaction {
	return models.StockTransaction{
		TransactionID:     d.TransactionID,
		ItemID:            d.ItemID,
		WarehouseID:       d.WarehouseID,
		DestWarehouseID:   d.DestWarehouseID,
		TransactionType:   string(d.TransactionType),
		MoveType:          string(d.MoveType),
		Quantity:          d.Quantity,
		TransactionDate:   d.TransactionDate,
		ReferenceDocument: d.ReferenceDocument,
		ReferenceNumber:   d.ReferenceNumber,
		State:             string(d.State),
		Notes:             d.Notes,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockTransaction converts a model ledger row to its domain form.
func ToDomainStockTransaction(m models.StockTransaction) domain.StockTransaction {
	return domain.StockTransaction{
		TransactionID:     m.TransactionID,
		ItemID:            m.ItemID,
		WarehouseID:       m.WarehouseID,
		DestWarehouseID:   m.DestWarehouseID,
		TransactionType:   domain.StockTransactionType(m.TransactionType),
		MoveType:          domain.StockMoveType(m.MoveType),
		Quantity:          m.Quantity,
		TransactionDate:   m.TransactionDate,
		ReferenceDocument: m.ReferenceDocument,
		ReferenceNumber:   m.ReferenceNumber,
		State:             domain.StockTransactionState(m.State),
		Notes:             m.Notes,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
