package domain

// DefaultCurrencyPrecision is the decimal-place count used for formatting amounts
// in currencies whose metadata is not stored.
const DefaultCurrencyPrecision = 2

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int    `json:"precision"`    // Decimal places for display (e.g., 2 for USD, 0 for JPY)
	AuditFields
}
