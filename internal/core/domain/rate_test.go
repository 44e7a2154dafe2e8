package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinConfidence(t *testing.T) {
	tests := []struct {
		name string
		a    domain.ConfidenceLevel
		b    domain.ConfidenceLevel
		want domain.ConfidenceLevel
	}{
		{"high vs high", domain.ConfidenceHigh, domain.ConfidenceHigh, domain.ConfidenceHigh},
		{"high vs medium", domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceMedium},
		{"medium vs low", domain.ConfidenceMedium, domain.ConfidenceLow, domain.ConfidenceLow},
		{"low vs high", domain.ConfidenceLow, domain.ConfidenceHigh, domain.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MinConfidence(tt.a, tt.b))
		})
	}
}

func TestConfidenceLevel_Degrade(t *testing.T) {
	assert.Equal(t, domain.ConfidenceMedium, domain.ConfidenceHigh.Degrade())
	assert.Equal(t, domain.ConfidenceLow, domain.ConfidenceMedium.Degrade())
	// Floor at low
	assert.Equal(t, domain.ConfidenceLow, domain.ConfidenceLow.Degrade())
}

func TestCurrencyRate_CoversDate(t *testing.T) {
	effective := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rate domain.CurrencyRate
		date time.Time
		want bool
	}{
		{
			name: "open-ended rate covers any later date",
			rate: domain.CurrencyRate{EffectiveDate: effective},
			date: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "date before effective window",
			rate: domain.CurrencyRate{EffectiveDate: effective},
			date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "date inside closed window",
			rate: domain.CurrencyRate{EffectiveDate: effective, EndDate: &end},
			date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "date after closed window",
			rate: domain.CurrencyRate{EffectiveDate: effective, EndDate: &end},
			date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "end date itself is covered",
			rate: domain.CurrencyRate{EffectiveDate: effective, EndDate: &end},
			date: end,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rate.CoversDate(tt.date))
		})
	}
}

func TestRateCacheEntry_Expired(t *testing.T) {
	now := time.Now().UTC()
	entry := domain.RateCacheEntry{
		Rate:      decimal.NewFromFloat(0.85),
		ExpiresAt: now.Add(300 * time.Second),
	}

	assert.False(t, entry.Expired(now))
	assert.False(t, entry.Expired(now.Add(299*time.Second)))
	assert.True(t, entry.Expired(now.Add(300*time.Second)))
	assert.True(t, entry.Expired(now.Add(time.Hour)))
}
