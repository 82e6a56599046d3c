package service

import (
	"context"
	"fmt"

	"kis-trading/config"
	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/internal/repository"
	"kis-trading/internal/strategy"
	"kis-trading/pkg/logger"
)

const reasonPeriodEndClose = "period end close"

// BacktestService simulates a strategy bar by bar over historical prices.
type BacktestService interface {
	Run(ctx context.Context, req *dto.BacktestRequest) (*dto.BacktestResult, error)
	History(ctx context.Context, stockCode string, limit int) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg        *config.Config
	log        *logger.Logger
	kisData    repository.HistoricalDataProvider
	sampleData repository.HistoricalDataProvider
	runRepo    repository.BacktestRunRepository
}

// NewBacktestService builds the engine. runRepo may be nil; history is then
// unavailable and completed runs are not persisted.
func NewBacktestService(cfg *config.Config, log *logger.Logger, kisData, sampleData repository.HistoricalDataProvider, runRepo repository.BacktestRunRepository) BacktestService {
	return &backtestService{
		cfg:        cfg,
		log:        log,
		kisData:    kisData,
		sampleData: sampleData,
		runRepo:    runRepo,
	}
}

// Run executes one backtest. The strategy name is validated before any data
// is fetched, so a bad request never costs an API call.
func (s *backtestService) Run(ctx context.Context, req *dto.BacktestRequest) (*dto.BacktestResult, error) {
	strat, err := strategy.New(req.Strategy, req.Params)
	if err != nil {
		return nil, err
	}
	if req.StartDate > req.EndDate {
		return nil, fmt.Errorf("start date %s is after end date %s", req.StartDate, req.EndDate)
	}

	provider := s.kisData
	if req.UseSampleData {
		provider = s.sampleData
	}

	sim := newSimulation(strat, req.InitialCapital)

	var minuteBars []model.MinuteBar
	if req.UseMinuteData {
		minuteBars, err = s.runMinute(ctx, sim, provider, req)
	} else {
		err = s.runDaily(ctx, sim, provider, req)
	}
	if err != nil {
		return nil, err
	}

	result := sim.result(req)
	result.MinuteBars = minuteBars

	if s.runRepo != nil {
		if _, err := s.runRepo.Save(ctx, result); err != nil {
			// Persistence is best effort; the caller still gets the result.
			s.log.ErrorContext(ctx, "Failed to persist backtest run", logger.ErrorField(err))
		}
	}

	s.log.InfoContext(ctx, "Backtest finished",
		logger.StringField("stock_code", req.StockCode),
		logger.StringField("strategy", req.Strategy),
		logger.IntField("total_trades", result.TotalTrades),
		logger.Int64Field("final_capital", result.FinalCapital))

	return result, nil
}

func (s *backtestService) History(ctx context.Context, stockCode string, limit int) ([]model.BacktestRun, error) {
	if s.runRepo == nil {
		return nil, fmt.Errorf("backtest history requires the database to be enabled")
	}
	return s.runRepo.List(ctx, stockCode, limit)
}

// runDaily walks the daily bars in order. Per bar: equity is marked at the
// close first, then a flat position may open, then an open position may
// close. A buy and a sell can resolve on the same bar (buy, hold, sell),
// but there is never a re-entry after a sell within that bar.
func (s *backtestService) runDaily(ctx context.Context, sim *simulation, provider repository.HistoricalDataProvider, req *dto.BacktestRequest) error {
	bars, err := provider.GetDailyData(ctx, req.StockCode, req.StartDate, req.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load daily data: %w", err)
	}
	if len(bars) == 0 {
		return nil
	}

	var prev *model.DailyBar
	for i := range bars {
		bar := bars[i]
		lastBar := i == len(bars)-1

		sim.markToMarket(bar.Close)

		if sim.position == 0 && sim.strat.ShouldBuy(bar, prev, sim.position) {
			price := sim.strat.BuyPrice(bar, prev)
			if price > 0 && price <= bar.High {
				sim.buy(bar.Date, price, sim.strat.BuyReason(bar, prev))
			}
		}

		if sim.position > 0 {
			if sim.strat.ShouldSell(bar, sim.buyPrice, sim.position) {
				price, reason := sim.strat.SellPrice(bar, sim.buyPrice)
				sim.sell(bar.Date, price, reason)
			} else if lastBar && sim.strat.CloseOutAtPeriodEnd() {
				sim.sell(bar.Date, bar.Close, reasonPeriodEndClose)
			}
		}

		prev = &bars[i]
	}

	sim.finish(bars[len(bars)-1].Close)
	return nil
}

// runMinute walks each trading day's minute bars. The day-level buy target is
// derived from the daily series once per day and held constant; the minute
// closes only decide whether it triggers. Days without a minute session are
// skipped entirely but still advance the previous-day reference.
func (s *backtestService) runMinute(ctx context.Context, sim *simulation, provider repository.HistoricalDataProvider, req *dto.BacktestRequest) ([]model.MinuteBar, error) {
	days, err := provider.GetDailyData(ctx, req.StockCode, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily data: %w", err)
	}
	if len(days) == 0 {
		return nil, nil
	}

	var allMinutes []model.MinuteBar
	var prev *model.DailyBar
	lastClose := days[len(days)-1].Close

	for i := range days {
		day := days[i]
		finalDay := i == len(days)-1

		target := sim.strat.BuyPrice(day, prev)
		prev = &days[i]

		minutes, err := provider.GetMinuteData(ctx, req.StockCode, day.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to load minute data for %s: %w", day.Date, err)
		}
		if len(minutes) == 0 {
			continue
		}
		allMinutes = append(allMinutes, minutes...)
		lastClose = minutes[len(minutes)-1].Close

		for _, m := range minutes {
			sim.markToMarket(m.Close)

			if sim.position == 0 && sim.strat.ShouldBuyTick(m.Close, target, sim.position) {
				sim.buy(m.Datetime, target, sim.strat.BuyTickReason(target))
			}

			if sim.position > 0 {
				if finalDay && m.AtOrAfterMarketClose() && sim.strat.CloseOutAtPeriodEnd() {
					sim.sell(m.Datetime, m.Close, reasonPeriodEndClose)
				} else if price, reason, ok := sim.strat.SellTick(m.Close, sim.buyPrice); ok {
					sim.sell(m.Datetime, price, reason)
				}
			}
		}
	}

	sim.finish(lastClose)
	return allMinutes, nil
}

// simulation holds the mutable state of one backtest run. Cash plus the
// marked position value is the equity curve; the peak of that curve drives
// the drawdown figure.
type simulation struct {
	strat strategy.Strategy

	initial  int64
	cash     int64
	position int64
	buyPrice int64

	finalCapital int64
	peakEquity   int64
	maxDrawdown  float64

	trades []dto.TradeRecord
}

func newSimulation(strat strategy.Strategy, initialCapital int64) *simulation {
	return &simulation{
		strat:        strat,
		initial:      initialCapital,
		cash:         initialCapital,
		finalCapital: initialCapital,
		peakEquity:   initialCapital,
	}
}

// buy opens a full-cash position at price. A price the cash cannot cover at
// least one share of is a no-op.
func (sim *simulation) buy(date string, price int64, reason string) {
	if price <= 0 {
		return
	}
	qty := sim.cash / price
	if qty <= 0 {
		return
	}

	amount := qty * price
	sim.cash -= amount
	sim.position = qty
	sim.buyPrice = price

	sim.trades = append(sim.trades, dto.TradeRecord{
		Date:     date,
		Type:     dto.TradeTypeBuy,
		Price:    price,
		Quantity: qty,
		Amount:   amount,
		Reason:   reason,
	})
}

// sell closes the whole position at price and books the realized result.
func (sim *simulation) sell(date string, price int64, reason string) {
	if sim.position <= 0 {
		return
	}

	qty := sim.position
	amount := qty * price
	profitLoss := (price - sim.buyPrice) * qty
	profitRate := 0.0
	if sim.buyPrice > 0 {
		profitRate = float64(price-sim.buyPrice) / float64(sim.buyPrice) * 100
	}

	sim.cash += amount
	sim.position = 0
	sim.buyPrice = 0

	sim.trades = append(sim.trades, dto.TradeRecord{
		Date:       date,
		Type:       dto.TradeTypeSell,
		Price:      price,
		Quantity:   qty,
		Amount:     amount,
		ProfitLoss: profitLoss,
		ProfitRate: profitRate,
		Reason:     reason,
	})
}

// markToMarket updates the equity curve at a bar close.
func (sim *simulation) markToMarket(closePrice int64) {
	equity := sim.cash + sim.position*closePrice
	if equity > sim.peakEquity {
		sim.peakEquity = equity
	}
	if sim.peakEquity > 0 {
		drawdown := float64(sim.peakEquity-equity) / float64(sim.peakEquity) * 100
		if drawdown > sim.maxDrawdown {
			sim.maxDrawdown = drawdown
		}
	}
}

// finish marks any open position at the last observed close.
func (sim *simulation) finish(lastClose int64) {
	sim.finalCapital = sim.cash + sim.position*lastClose
}

// result aggregates the ledger into the summary. Total trades counts every
// ledger record; win and loss counts only look at sells, with a flat sell
// booked as a loss.
func (sim *simulation) result(req *dto.BacktestRequest) *dto.BacktestResult {
	var sells, winning, losing int
	var totalProfitLoss int64
	for _, t := range sim.trades {
		if t.Type != dto.TradeTypeSell {
			continue
		}
		sells++
		totalProfitLoss += t.ProfitLoss
		if t.ProfitLoss > 0 {
			winning++
		} else {
			losing++
		}
	}

	winRate := 0.0
	if sells > 0 {
		winRate = float64(winning) / float64(sells) * 100
	}
	totalReturnRate := 0.0
	if sim.initial > 0 {
		totalReturnRate = float64(sim.finalCapital-sim.initial) / float64(sim.initial) * 100
	}

	trades := sim.trades
	if trades == nil {
		trades = []dto.TradeRecord{}
	}

	return &dto.BacktestResult{
		StockCode:       req.StockCode,
		StockName:       req.StockName,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Strategy:        req.Strategy,
		InitialCapital:  sim.initial,
		FinalCapital:    sim.finalCapital,
		TotalTrades:     len(sim.trades),
		WinningTrades:   winning,
		LosingTrades:    losing,
		TotalProfitLoss: totalProfitLoss,
		TotalReturnRate: totalReturnRate,
		MaxDrawdown:     sim.maxDrawdown,
		WinRate:         winRate,
		Params:          req.Params,
		Trades:          trades,
	}
}
