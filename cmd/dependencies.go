package cmd

import (
	"kis-trading/config"
	"kis-trading/internal/repository"
	"kis-trading/pkg/cache"
	"kis-trading/pkg/httpclient"
	"kis-trading/pkg/logger"
	"kis-trading/pkg/postgres"
	"kis-trading/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	cfg        *config.Config
	log        *logger.Logger
	validator  *goValidator.Validate
	echo       *echo.Echo
	cache      cache.Cache
	db         *postgres.DB
	notifier   *telegram.Notifier
	tradingCfg *config.TradingConfig
	repo       *repository.Repository
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	// The database is optional: without it backtests still run, they are
	// just not persisted.
	var db *postgres.DB
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(cfg.DB, log)
		if err != nil {
			log.Error("Failed to connect to database", logger.ErrorField(err))
			return nil, err
		}
	}

	notifier, err := telegram.NewNotifier(&cfg.Telegram, log)
	if err != nil {
		log.Error("Failed to create telegram notifier", logger.ErrorField(err))
		return nil, err
	}

	tradingCfg, err := config.LoadTradingConfig(cfg.Trading.ConfigPath)
	if err != nil {
		return nil, err
	}

	c := cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)
	httpClient := httpclient.New(repository.KISBaseURL(cfg.KIS), cfg.KIS.Timeout)
	repo := repository.NewRepository(cfg, log, httpClient, c, db)

	return &AppDependency{
		cfg:        cfg,
		log:        log,
		validator:  goValidator.New(),
		echo:       echo.New(),
		cache:      c,
		db:         db,
		notifier:   notifier,
		tradingCfg: tradingCfg,
		repo:       repo,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
