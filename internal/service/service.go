package service

import (
	"kis-trading/config"
	"kis-trading/internal/repository"
	"kis-trading/pkg/cache"
	"kis-trading/pkg/logger"
	"kis-trading/pkg/telegram"
)

// Service bundles the application services behind one constructor.
type Service struct {
	Backtest BacktestService
	Trading  TradingService
}

func NewService(cfg *config.Config, log *logger.Logger, c cache.Cache, repo *repository.Repository, notifier *telegram.Notifier, tradingCfg *config.TradingConfig) *Service {
	return &Service{
		Backtest: NewBacktestService(cfg, log, repo.KISData, repo.SampleData, repo.BacktestRun),
		Trading:  NewTradingService(cfg, log, c, repo, notifier, tradingCfg),
	}
}
