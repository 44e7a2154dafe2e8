package models

// Currency is the database row for a supported currency.
type Currency struct {
	CurrencyCode string // Primary Key (e.g., "USD")
	Symbol       string
	Name         string
	Precision    int
	AuditFields
}
