package domain_test

import (
	"testing"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAdjustmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.AdjustmentStatus
		to     domain.AdjustmentStatus
		want   bool
	}{
		{"draft to pending", domain.AdjustmentDraft, domain.AdjustmentPending, true},
		{"pending to approved", domain.AdjustmentPending, domain.AdjustmentApproved, true},
		{"pending to rejected", domain.AdjustmentPending, domain.AdjustmentRejected, true},
		{"approved to completed", domain.AdjustmentApproved, domain.AdjustmentCompleted, true},
		{"draft cannot skip to approved", domain.AdjustmentDraft, domain.AdjustmentApproved, false},
		{"draft cannot skip to completed", domain.AdjustmentDraft, domain.AdjustmentCompleted, false},
		{"approved cannot be rejected", domain.AdjustmentApproved, domain.AdjustmentRejected, false},
		{"completed is terminal", domain.AdjustmentCompleted, domain.AdjustmentDraft, false},
		{"rejected is terminal", domain.AdjustmentRejected, domain.AdjustmentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAdjustmentStatus_Deletable(t *testing.T) {
	assert.True(t, domain.AdjustmentDraft.Deletable())
	assert.True(t, domain.AdjustmentRejected.Deletable())
	assert.False(t, domain.AdjustmentPending.Deletable())
	assert.False(t, domain.AdjustmentApproved.Deletable())
	assert.False(t, domain.AdjustmentCompleted.Deletable())
}

func TestStockAdjustmentLine_RecomputeVariance(t *testing.T) {
	tests := []struct {
		name     string
		book     decimal.Decimal
		adjusted decimal.Decimal
		want     decimal.Decimal
	}{
		{"shortage", decimal.NewFromInt(10), decimal.NewFromInt(7), decimal.NewFromInt(-3)},
		{"surplus", decimal.NewFromInt(5), decimal.NewFromInt(12), decimal.NewFromInt(7)},
		{"no change", decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.Zero},
		{"fractional quantities", decimal.NewFromFloat(2.5), decimal.NewFromFloat(4.75), decimal.NewFromFloat(2.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := domain.StockAdjustmentLine{
				BookQuantity:     tt.book,
				AdjustedQuantity: tt.adjusted,
				// Pre-set a wrong value to prove recompute overwrites it
				Variance: decimal.NewFromInt(999),
			}
			line.RecomputeVariance()
			assert.True(t, tt.want.Equal(line.Variance), "want %s got %s", tt.want, line.Variance)
		})
	}
}

func TestStockAdjustmentLine_MoveType(t *testing.T) {
	in := domain.StockAdjustmentLine{Variance: decimal.NewFromInt(3)}
	out := domain.StockAdjustmentLine{Variance: decimal.NewFromInt(-3)}
	assert.Equal(t, domain.MoveIn, in.MoveType())
	assert.Equal(t, domain.MoveOut, out.MoveType())
}
