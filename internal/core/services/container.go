package services

import (
	portsrepo "github.com/SscSPs/erp_backend_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_backend_app/internal/core/ports/services"
	"github.com/SscSPs/erp_backend_app/internal/platform/config"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.CurrencyRepo)
	rateSvc := NewRateService(repos.RateRepo, repos.RateCacheRepo, currencySvc, cfg.Rates)
	stockSvc := NewStockAdjustmentService(repos.StockRepo)

	return &portssvc.ServiceContainer{
		Currency:        currencySvc,
		Rate:            rateSvc,
		StockAdjustment: stockSvc,
	}
}
