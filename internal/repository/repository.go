package repository

import (
	"kis-trading/config"
	"kis-trading/pkg/cache"
	"kis-trading/pkg/httpclient"
	"kis-trading/pkg/logger"
	"kis-trading/pkg/postgres"

	"golang.org/x/time/rate"
)

// Repository bundles every data access component behind one constructor.
type Repository struct {
	KISAuth     KISAuthRepository
	KISStock    KISStockRepository
	KISAccount  KISAccountRepository
	KISOrder    KISOrderRepository
	KISData     HistoricalDataProvider
	SampleData  HistoricalDataProvider
	BacktestRun BacktestRunRepository
}

// NewRepository wires the KIS repositories around one shared rate limiter
// so the per-second request budget holds across endpoints. db may be nil
// when persistence is disabled; BacktestRun is nil in that case.
func NewRepository(cfg *config.Config, log *logger.Logger, httpClient httpclient.HTTPClient, c cache.Cache, db *postgres.DB) *Repository {
	rps := cfg.KIS.MaxRequestPerSecond
	if rps <= 0 {
		rps = 5
	}
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	auth := NewKISAuthRepository(cfg, log, httpClient, c)
	stock := NewKISStockRepository(cfg, log, httpClient, auth, limiter)

	repo := &Repository{
		KISAuth:    auth,
		KISStock:   stock,
		KISAccount: NewKISAccountRepository(cfg, log, httpClient, auth, limiter),
		KISOrder:   NewKISOrderRepository(cfg, log, httpClient, auth, limiter),
		KISData:    NewKISHistoricalDataProvider(stock),
		SampleData: NewSampleDataProvider(),
	}
	if db != nil {
		repo.BacktestRun = NewBacktestRunRepository(db)
	}
	return repo
}
