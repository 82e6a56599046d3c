package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kis-trading/config"
	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/internal/repository"
	"kis-trading/internal/strategy"
	"kis-trading/pkg/cache"
	"kis-trading/pkg/logger"
	"kis-trading/pkg/telegram"
	"kis-trading/pkg/utils"

	"github.com/robfig/cron/v3"
)

const maxTradeLogs = 200

// TradingService runs the live engine: it polls the monitored symbols on
// their configured intervals and places real orders through the broker.
type TradingService interface {
	Start() error
	Stop()
	Pause() error
	Resume() error
	Status() dto.EngineSummary
	Stocks() []dto.StockStatus
	Logs(limit int) []dto.TradeLog
	PlaceOrder(ctx context.Context, req *dto.OrderRequest) (*model.OrderResult, error)
	TradingConfig() *config.TradingConfig
	UpdateTradingConfig(tc *config.TradingConfig) error
}

type tradingService struct {
	cfg      *config.Config
	log      *logger.Logger
	cache    cache.Cache
	repo     *repository.Repository
	notifier *telegram.Notifier
	cron     *cron.Cron

	mu          sync.RWMutex
	status      dto.EngineStatus
	tradingCfg  *config.TradingConfig
	cancel      context.CancelFunc
	resetEntry  cron.EntryID
	dailyTrades int
	tradeDate   string
	logs        []dto.TradeLog
	stockStatus map[string]dto.StockStatus
}

func NewTradingService(cfg *config.Config, log *logger.Logger, c cache.Cache, repo *repository.Repository, notifier *telegram.Notifier, tradingCfg *config.TradingConfig) TradingService {
	return &tradingService{
		cfg:         cfg,
		log:         log,
		cache:       c,
		repo:        repo,
		notifier:    notifier,
		cron:        cron.New(cron.WithLocation(utils.GetKSTTimeLocation())),
		status:      dto.EngineStopped,
		tradingCfg:  tradingCfg,
		tradeDate:   utils.TodayKST(),
		stockStatus: make(map[string]dto.StockStatus),
	}
}

// Start launches one monitor goroutine per enabled symbol and the midnight
// reset job. Starting a running engine is an error.
func (s *tradingService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != dto.EngineStopped {
		return fmt.Errorf("engine is already %s", s.status)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.status = dto.EngineRunning
	s.dailyTrades = 0
	s.tradeDate = utils.TodayKST()

	stocks := s.tradingCfg.EnabledStocks()
	for _, sc := range stocks {
		interval := time.Duration(s.tradingCfg.Interval(sc)) * time.Second
		stock := sc
		utils.GoSafe(func() {
			s.monitorStock(ctx, stock, interval)
		})
	}

	entry, err := s.cron.AddFunc("0 0 * * *", s.resetDailyCount)
	if err != nil {
		cancel()
		s.status = dto.EngineStopped
		return fmt.Errorf("failed to schedule daily reset: %w", err)
	}
	s.resetEntry = entry
	s.cron.Start()

	s.log.Info("Trading engine started", logger.IntField("stocks", len(stocks)))
	return nil
}

// Stop cancels the monitors and halts the scheduler. Stopping a stopped
// engine is a no-op.
func (s *tradingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == dto.EngineStopped {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.cron.Remove(s.resetEntry)
	s.cron.Stop()
	s.status = dto.EngineStopped
	s.log.Info("Trading engine stopped")
}

// Pause keeps the monitors alive but makes every tick a no-op.
func (s *tradingService) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != dto.EngineRunning {
		return fmt.Errorf("engine is %s, not running", s.status)
	}
	s.status = dto.EnginePaused
	s.log.Info("Trading engine paused")
	return nil
}

func (s *tradingService) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != dto.EnginePaused {
		return fmt.Errorf("engine is %s, not paused", s.status)
	}
	s.status = dto.EngineRunning
	s.log.Info("Trading engine resumed")
	return nil
}

func (s *tradingService) Status() dto.EngineSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return dto.EngineSummary{
		Status:          s.status,
		DailyTradeCount: s.dailyTrades,
		MaxDailyTrades:  s.tradingCfg.Settings.MaxDailyTrades,
		EnabledStocks:   len(s.tradingCfg.EnabledStocks()),
		TotalStocks:     len(s.tradingCfg.Stocks),
		TradeLogCount:   len(s.logs),
	}
}

func (s *tradingService) Stocks() []dto.StockStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]dto.StockStatus, 0, len(s.stockStatus))
	for _, st := range s.stockStatus {
		statuses = append(statuses, st)
	}
	return statuses
}

// Logs returns the newest entries first.
func (s *tradingService) Logs(limit int) []dto.TradeLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.logs) {
		limit = len(s.logs)
	}

	out := make([]dto.TradeLog, 0, limit)
	for i := len(s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.logs[i])
	}
	return out
}

// PlaceOrder places a manual order. Manual orders bypass the daily cap but
// still land in the trade log.
func (s *tradingService) PlaceOrder(ctx context.Context, req *dto.OrderRequest) (*model.OrderResult, error) {
	var result *model.OrderResult
	var err error

	switch req.Side {
	case dto.TradeTypeBuy:
		result, err = s.repo.KISOrder.Buy(ctx, req.StockCode, req.Quantity, req.Price)
	case dto.TradeTypeSell:
		result, err = s.repo.KISOrder.Sell(ctx, req.StockCode, req.Quantity, req.Price)
	default:
		return nil, fmt.Errorf("unknown order side %q", req.Side)
	}
	if err != nil {
		return nil, err
	}

	name := ""
	if sc := s.tradingConfigSnapshot().StockByCode(req.StockCode); sc != nil {
		name = sc.Name
	}
	s.recordTrade(req.StockCode, name, req.Side, req.Quantity, req.Price, result)
	return result, nil
}

func (s *tradingService) TradingConfig() *config.TradingConfig {
	return s.tradingConfigSnapshot()
}

// UpdateTradingConfig swaps the configuration and persists it. Running
// monitors pick the change up on their next restart, not mid-flight.
func (s *tradingService) UpdateTradingConfig(tc *config.TradingConfig) error {
	if err := tc.Save(s.cfg.Trading.ConfigPath); err != nil {
		return err
	}

	s.mu.Lock()
	s.tradingCfg = tc
	s.mu.Unlock()
	return nil
}

func (s *tradingService) tradingConfigSnapshot() *config.TradingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tradingCfg
}

func (s *tradingService) monitorStock(ctx context.Context, sc config.StockConfig, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.isRunning() {
				continue
			}
			if utils.IsWeekend(utils.TimeNowKST()) {
				continue
			}
			if err := s.checkStock(ctx, sc); err != nil {
				s.log.ErrorContext(ctx, "Stock check failed",
					logger.StringField("stock_code", sc.Code),
					logger.ErrorField(err))
			}
		}
	}
}

// checkStock evaluates one symbol against its strategy and places at most
// one order.
func (s *tradingService) checkStock(ctx context.Context, sc config.StockConfig) error {
	price, err := s.repo.KISStock.GetPrice(ctx, sc.Code)
	if err != nil {
		return err
	}

	holding, err := s.currentHolding(ctx, sc.Code)
	if err != nil {
		return err
	}
	s.updateStockStatus(sc, price, holding)

	strat, err := strategy.New(sc.Strategy, dto.StrategyParams{
		BuyPrice:         sc.BuyPrice,
		SellPrice:        sc.SellPrice,
		K:                sc.K,
		TargetProfitRate: sc.TargetProfitRate,
		StopLossRate:     sc.StopLossRate,
	})
	if err != nil {
		return err
	}

	var holdingQty, avgBuyPrice int64
	if holding != nil {
		holdingQty = holding.Quantity
		avgBuyPrice = holding.AvgBuyPrice
	}

	if holdingQty == 0 {
		target, err := s.buyTarget(ctx, strat, sc)
		if err != nil {
			return err
		}
		if !strat.ShouldBuyTick(price.CurrentPrice, target, 0) {
			return nil
		}
		return s.executeBuy(ctx, sc, target)
	}

	sellPrice, reason, ok := strat.SellTick(price.CurrentPrice, avgBuyPrice)
	if !ok {
		return nil
	}
	return s.executeSell(ctx, sc, holdingQty, sellPrice, reason)
}

// buyTarget resolves the day-level buy price for a symbol. The breakout
// target needs the daily series, so it is cached for the rest of the day.
func (s *tradingService) buyTarget(ctx context.Context, strat strategy.Strategy, sc config.StockConfig) (int64, error) {
	if strat.Name() == strategy.NameRangeTrading {
		return sc.BuyPrice, nil
	}

	cacheKey := fmt.Sprintf("trading:target:%s:%s", sc.Code, utils.TodayKST())
	if target, ok := cache.GetFromCache[int64](cacheKey); ok {
		return target, nil
	}

	bars, err := s.repo.KISStock.GetDailyPrices(ctx, sc.Code)
	if err != nil {
		return 0, err
	}
	if len(bars) < 2 {
		return 0, nil
	}

	// Daily prices arrive newest first: bars[0] is today, bars[1] yesterday.
	target := strat.BuyPrice(bars[0], &bars[1])
	s.cache.Set(cacheKey, target, 12*time.Hour)
	return target, nil
}

func (s *tradingService) executeBuy(ctx context.Context, sc config.StockConfig, target int64) error {
	if target <= 0 {
		return nil
	}
	if !s.tryConsumeTradeBudget() {
		return nil
	}

	deposit, err := s.repo.KISAccount.GetAvailableDeposit(ctx)
	if err != nil {
		s.refundTradeBudget()
		return err
	}

	budget := sc.MaxAmount
	if deposit.AvailableCash < budget {
		budget = deposit.AvailableCash
	}
	qty := budget / target
	if qty <= 0 {
		s.refundTradeBudget()
		return nil
	}

	result, err := s.repo.KISOrder.Buy(ctx, sc.Code, qty, target)
	if err != nil {
		s.refundTradeBudget()
		return err
	}

	s.recordTrade(sc.Code, sc.Name, dto.TradeTypeBuy, qty, target, result)
	return nil
}

func (s *tradingService) executeSell(ctx context.Context, sc config.StockConfig, qty, price int64, reason string) error {
	if !s.tryConsumeTradeBudget() {
		return nil
	}

	result, err := s.repo.KISOrder.Sell(ctx, sc.Code, qty, price)
	if err != nil {
		s.refundTradeBudget()
		return err
	}

	s.log.Info("Sell signal executed",
		logger.StringField("stock_code", sc.Code),
		logger.StringField("reason", reason))
	s.recordTrade(sc.Code, sc.Name, dto.TradeTypeSell, qty, price, result)
	return nil
}

func (s *tradingService) currentHolding(ctx context.Context, code string) (*model.Holding, error) {
	balance, err := s.repo.KISAccount.GetBalance(ctx)
	if err != nil {
		return nil, err
	}
	for i := range balance.Holdings {
		if balance.Holdings[i].StockCode == code {
			return &balance.Holdings[i], nil
		}
	}
	return nil, nil
}

func (s *tradingService) updateStockStatus(sc config.StockConfig, price *model.StockPrice, holding *model.Holding) {
	now := utils.TimeNowKST()
	status := dto.StockStatus{
		Code:         sc.Code,
		Name:         sc.Name,
		CurrentPrice: price.CurrentPrice,
		LastCheck:    &now,
	}
	if holding != nil {
		status.HoldingQty = holding.Quantity
		status.AvgBuyPrice = holding.AvgBuyPrice
		status.EvalAmount = holding.EvalAmount
		status.ProfitRate = holding.ProfitRate
	}

	s.mu.Lock()
	s.stockStatus[sc.Code] = status
	s.mu.Unlock()
}

func (s *tradingService) recordTrade(code, name string, action dto.TradeType, qty, price int64, result *model.OrderResult) {
	entry := dto.TradeLog{
		Timestamp: utils.TimeNowKST(),
		StockCode: code,
		StockName: name,
		Action:    action,
		Quantity:  qty,
		Price:     price,
		Success:   result.Success,
		Message:   result.Message,
	}

	s.mu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxTradeLogs {
		s.logs = s.logs[len(s.logs)-maxTradeLogs:]
	}
	s.mu.Unlock()

	s.notifier.NotifyTrade(string(action), code, name, qty, price, result.Success, result.Message)
}

func (s *tradingService) isRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == dto.EngineRunning
}

// tryConsumeTradeBudget claims one slot of the daily trade cap, rolling the
// counter over when the KST date changes.
func (s *tradingService) tryConsumeTradeBudget() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := utils.TodayKST()
	if s.tradeDate != today {
		s.tradeDate = today
		s.dailyTrades = 0
	}

	if s.dailyTrades >= s.tradingCfg.Settings.MaxDailyTrades {
		s.log.Warn("Daily trade limit reached",
			logger.IntField("max_daily_trades", s.tradingCfg.Settings.MaxDailyTrades))
		return false
	}
	s.dailyTrades++
	return true
}

// refundTradeBudget returns a slot claimed for an order that never reached
// the broker.
func (s *tradingService) refundTradeBudget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dailyTrades > 0 {
		s.dailyTrades--
	}
}

func (s *tradingService) resetDailyCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tradeDate = utils.TodayKST()
	s.dailyTrades = 0
}
