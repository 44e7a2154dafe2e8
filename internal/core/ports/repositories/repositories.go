package repositories

// RepositoryProvider bundles every repository the service layer needs.
// Populated once at startup by the pgsql repo container.
type RepositoryProvider struct {
	CurrencyRepo  CurrencyRepositoryFacade
	RateRepo      RateRepositoryFacade
	RateCacheRepo RateCacheRepository
	StockRepo     StockRepositoryWithTx
}
