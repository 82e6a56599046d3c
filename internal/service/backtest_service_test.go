package service

import (
	"context"
	"testing"

	"kis-trading/config"
	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/internal/strategy"
	"kis-trading/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	daily      []model.DailyBar
	minute     map[string][]model.MinuteBar
	dailyCalls int
}

func (f *fakeProvider) GetDailyData(_ context.Context, _, _, _ string) ([]model.DailyBar, error) {
	f.dailyCalls++
	return f.daily, nil
}

func (f *fakeProvider) GetMinuteData(_ context.Context, _, date string) ([]model.MinuteBar, error) {
	return f.minute[date], nil
}

func newTestBacktestService(provider *fakeProvider) BacktestService {
	return NewBacktestService(&config.Config{}, logger.NewNop(), provider, provider, nil)
}

func rangeRequest(capital int64) *dto.BacktestRequest {
	return &dto.BacktestRequest{
		StockCode:      "005930",
		StartDate:      "20240102",
		EndDate:        "20240103",
		InitialCapital: capital,
		Strategy:       "range_trading",
		Params:         dto.StrategyParams{BuyPrice: 9500, SellPrice: 10500},
	}
}

func TestBacktest_RangeTradingFullCycle(t *testing.T) {
	provider := &fakeProvider{daily: []model.DailyBar{
		{Date: "20240102", Open: 10000, High: 10400, Low: 9400, Close: 10000},
		{Date: "20240103", Open: 10100, High: 10600, Low: 10000, Close: 10400},
	}}
	svc := newTestBacktestService(provider)

	result, err := svc.Run(context.Background(), rangeRequest(1_000_000))
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)

	buy := result.Trades[0]
	assert.Equal(t, dto.TradeTypeBuy, buy.Type)
	assert.Equal(t, "20240102", buy.Date)
	assert.Equal(t, int64(9500), buy.Price)
	assert.Equal(t, int64(105), buy.Quantity)
	assert.Equal(t, int64(997500), buy.Amount)

	sell := result.Trades[1]
	assert.Equal(t, dto.TradeTypeSell, sell.Type)
	assert.Equal(t, "20240103", sell.Date)
	assert.Equal(t, int64(10500), sell.Price)
	assert.Equal(t, int64(105), sell.Quantity)
	assert.Equal(t, int64(105000), sell.ProfitLoss)

	assert.Equal(t, int64(1_105_000), result.FinalCapital)
	assert.Equal(t, 2, result.TotalTrades)
	assert.Equal(t, 1, result.WinningTrades)
	assert.Equal(t, 0, result.LosingTrades)
	assert.Equal(t, 100.0, result.WinRate)
	assert.InDelta(t, 10.5, result.TotalReturnRate, 0.0001)
	assert.True(t, result.IsProfitable())
}

func TestBacktest_BuyThenSellWithinOneBar(t *testing.T) {
	// The first bar touches both bands, so a full round trip resolves on it.
	// The second bar never dips back to the buy band, no re-entry happens.
	provider := &fakeProvider{daily: []model.DailyBar{
		{Date: "20240102", Open: 10000, High: 10600, Low: 9400, Close: 10000},
		{Date: "20240103", Open: 10100, High: 10600, Low: 10000, Close: 10400},
	}}
	svc := newTestBacktestService(provider)

	result, err := svc.Run(context.Background(), rangeRequest(1_000_000))
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)
	assert.Equal(t, "20240102", result.Trades[0].Date)
	assert.Equal(t, dto.TradeTypeBuy, result.Trades[0].Type)
	assert.Equal(t, "20240102", result.Trades[1].Date)
	assert.Equal(t, dto.TradeTypeSell, result.Trades[1].Type)
	assert.Equal(t, int64(10500), result.Trades[1].Price)
	assert.Equal(t, int64(1_105_000), result.FinalCapital)
}

func TestBacktest_UnknownStrategyRejectedBeforeDataAccess(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestBacktestService(provider)

	req := rangeRequest(1_000_000)
	req.Strategy = "momentum"

	result, err := svc.Run(context.Background(), req)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "unknown strategy")
	assert.Equal(t, 0, provider.dailyCalls)
}

func TestBacktest_InvertedDateRange(t *testing.T) {
	svc := newTestBacktestService(&fakeProvider{})

	req := rangeRequest(1_000_000)
	req.StartDate = "20240201"
	req.EndDate = "20240101"

	_, err := svc.Run(context.Background(), req)
	assert.ErrorContains(t, err, "after end date")
}

func TestBacktest_EmptyData(t *testing.T) {
	svc := newTestBacktestService(&fakeProvider{})

	result, err := svc.Run(context.Background(), rangeRequest(1_000_000))
	require.NoError(t, err)

	assert.Equal(t, int64(1_000_000), result.FinalCapital)
	assert.Equal(t, 0, result.TotalTrades)
	assert.Equal(t, 0.0, result.WinRate)
	assert.Equal(t, 0.0, result.TotalReturnRate)
	assert.Equal(t, 0.0, result.MaxDrawdown)
	assert.NotNil(t, result.Trades)
	assert.Empty(t, result.Trades)
}

func TestBacktest_Idempotent(t *testing.T) {
	provider := &fakeProvider{daily: []model.DailyBar{
		{Date: "20240102", Open: 10000, High: 10500, Low: 9400, Close: 10000},
		{Date: "20240103", Open: 10100, High: 10600, Low: 10000, Close: 10400},
	}}
	svc := newTestBacktestService(provider)

	first, err := svc.Run(context.Background(), rangeRequest(1_000_000))
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), rangeRequest(1_000_000))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBacktest_VolatilityBreakoutPeriodEndClose(t *testing.T) {
	provider := &fakeProvider{daily: []model.DailyBar{
		{Date: "20240102", Open: 50000, High: 50400, Low: 49000, Close: 50000},
		{Date: "20240103", Open: 49600, High: 50400, Low: 49500, Close: 49800},
	}}
	svc := newTestBacktestService(provider)

	result, err := svc.Run(context.Background(), &dto.BacktestRequest{
		StockCode:      "005930",
		StartDate:      "20240102",
		EndDate:        "20240103",
		InitialCapital: 1_000_000,
		Strategy:       "volatility_breakout",
		Params:         dto.StrategyParams{K: 0.5},
	})
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)

	// target = 49600 + 0.5 * (50400 - 49000) = 50300
	buy := result.Trades[0]
	assert.Equal(t, dto.TradeTypeBuy, buy.Type)
	assert.Equal(t, int64(50300), buy.Price)
	assert.Equal(t, int64(19), buy.Quantity)

	sell := result.Trades[1]
	assert.Equal(t, dto.TradeTypeSell, sell.Type)
	assert.Equal(t, int64(49800), sell.Price)
	assert.Equal(t, "period end close", sell.Reason)
	assert.Equal(t, int64(-9500), sell.ProfitLoss)

	assert.Equal(t, int64(990_500), result.FinalCapital)
	assert.Equal(t, 2, result.TotalTrades)
	assert.Equal(t, 0, result.WinningTrades)
	assert.Equal(t, 1, result.LosingTrades)
	assert.Equal(t, 0.0, result.WinRate)
	assert.False(t, result.IsProfitable())
}

func TestBacktest_SingleBarVolatilityBreakout(t *testing.T) {
	// One bar means no previous day, no target, no trade.
	provider := &fakeProvider{daily: []model.DailyBar{
		{Date: "20240102", Open: 50000, High: 60000, Low: 49000, Close: 50000},
	}}
	svc := newTestBacktestService(provider)

	result, err := svc.Run(context.Background(), &dto.BacktestRequest{
		StockCode:      "005930",
		StartDate:      "20240102",
		EndDate:        "20240102",
		InitialCapital: 1_000_000,
		Strategy:       "volatility_breakout",
	})
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Equal(t, int64(1_000_000), result.FinalCapital)
}

func TestBacktest_MaxDrawdownOnCarriedPosition(t *testing.T) {
	provider := &fakeProvider{daily: []model.DailyBar{
		{Date: "20240102", Open: 10000, High: 10400, Low: 9400, Close: 10000},
		{Date: "20240103", Open: 9800, High: 9900, Low: 8900, Close: 9000},
	}}
	svc := newTestBacktestService(provider)

	req := rangeRequest(1_000_000)
	req.Params.SellPrice = 0 // never sells, rides the loss down

	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, 1, result.TotalTrades)
	assert.Equal(t, 0, result.WinningTrades)
	assert.Equal(t, 0, result.LosingTrades)

	// Equity is marked before each bar's transitions: 1,000,000 on the first
	// bar, then 947,500 once the carried position is marked at 9000.
	assert.Equal(t, int64(947_500), result.FinalCapital)
	assert.InDelta(t, 5.25, result.MaxDrawdown, 0.0001)
	assert.InDelta(t, -5.25, result.TotalReturnRate, 0.0001)
}

func TestBacktest_MinuteModeSkipsDaysWithoutBars(t *testing.T) {
	provider := &fakeProvider{
		daily: []model.DailyBar{
			{Date: "20240102", Open: 50000, High: 50100, Low: 49900, Close: 50000},
			{Date: "20240103", Open: 50000, High: 50600, Low: 49800, Close: 50400},
			{Date: "20240104", Open: 50500, High: 50600, Low: 50300, Close: 50400},
		},
		minute: map[string][]model.MinuteBar{
			"20240102": {
				{Datetime: "20240102100000", Close: 50000},
			},
			"20240103": {
				{Datetime: "20240103100000", Close: 50000},
				{Datetime: "20240103103000", Close: 50200},
				{Datetime: "20240103110000", Close: 50500},
			},
			// 20240104 has no session at all
		},
	}
	svc := newTestBacktestService(provider)

	result, err := svc.Run(context.Background(), &dto.BacktestRequest{
		StockCode:      "005930",
		StartDate:      "20240102",
		EndDate:        "20240104",
		InitialCapital: 1_000_000,
		Strategy:       "volatility_breakout",
		Params:         dto.StrategyParams{K: 0.5},
		UseMinuteData:  true,
	})
	require.NoError(t, err)

	// Day target for 20240103: 50000 + 0.5 * (50100 - 49900) = 50100.
	require.Len(t, result.Trades, 1)
	buy := result.Trades[0]
	assert.Equal(t, dto.TradeTypeBuy, buy.Type)
	assert.Equal(t, "20240103103000", buy.Date)
	assert.Equal(t, int64(50100), buy.Price)
	assert.Equal(t, int64(19), buy.Quantity)
	assert.Equal(t, "target price 50100 broken (K=0.50)", buy.Reason)

	// The skipped final day leaves the position open, marked at the last
	// minute close that was actually seen.
	assert.Equal(t, 1, result.TotalTrades)
	assert.Equal(t, 0, result.WinningTrades+result.LosingTrades)
	assert.Equal(t, int64(1_007_600), result.FinalCapital)
	assert.Len(t, result.MinuteBars, 4)
}

func TestBacktest_MinuteModeForcedCloseAtMarketClose(t *testing.T) {
	provider := &fakeProvider{
		daily: []model.DailyBar{
			{Date: "20240102", Open: 50000, High: 50100, Low: 49900, Close: 50000},
			{Date: "20240103", Open: 50000, High: 51300, Low: 49900, Close: 51200},
		},
		minute: map[string][]model.MinuteBar{
			"20240102": {
				{Datetime: "20240102100000", Close: 50000},
			},
			"20240103": {
				{Datetime: "20240103100000", Close: 50200},
				{Datetime: "20240103152500", Close: 51000},
				{Datetime: "20240103153000", Close: 51200},
			},
		},
	}
	svc := newTestBacktestService(provider)

	result, err := svc.Run(context.Background(), &dto.BacktestRequest{
		StockCode:      "005930",
		StartDate:      "20240102",
		EndDate:        "20240103",
		InitialCapital: 1_000_000,
		Strategy:       "volatility_breakout",
		Params:         dto.StrategyParams{K: 0.5},
		UseMinuteData:  true,
	})
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)

	sell := result.Trades[1]
	assert.Equal(t, dto.TradeTypeSell, sell.Type)
	assert.Equal(t, "20240103153000", sell.Date)
	assert.Equal(t, int64(51200), sell.Price)
	assert.Equal(t, "period end close", sell.Reason)

	assert.Equal(t, int64(1_020_900), result.FinalCapital)
	assert.Equal(t, 2, result.TotalTrades)
	assert.Equal(t, 1, result.WinningTrades)
	assert.Equal(t, 0, result.LosingTrades)
}

func TestSimulation_PositionAndBuyPriceZeroTogether(t *testing.T) {
	strat, err := strategy.New("range_trading", dto.StrategyParams{BuyPrice: 9500, SellPrice: 10500})
	require.NoError(t, err)

	sim := newSimulation(strat, 1_000_000)

	flatMatchesBuyPrice := func() {
		t.Helper()
		assert.Equal(t, sim.position == 0, sim.buyPrice == 0)
	}

	flatMatchesBuyPrice()

	sim.markToMarket(10000)
	sim.buy("20240102", 9500, "buy price 9500 reached")
	assert.Equal(t, int64(105), sim.position)
	assert.Equal(t, int64(9500), sim.buyPrice)
	flatMatchesBuyPrice()

	sim.markToMarket(9800)
	flatMatchesBuyPrice()

	sim.sell("20240103", 10500, "sell price 10500 reached")
	assert.Zero(t, sim.position)
	assert.Zero(t, sim.buyPrice)
	flatMatchesBuyPrice()

	// A buy the remaining cash cannot cover one share of must not leave a
	// price without a position.
	sim.buy("20240104", 2_000_000_000, "buy price reached")
	flatMatchesBuyPrice()

	// Selling while flat stays flat and books nothing.
	sim.sell("20240104", 10500, "sell price 10500 reached")
	flatMatchesBuyPrice()
	assert.Len(t, sim.trades, 2)
}

func TestBacktest_HistoryWithoutDatabase(t *testing.T) {
	svc := newTestBacktestService(&fakeProvider{})

	_, err := svc.History(context.Background(), "", 10)
	assert.ErrorContains(t, err, "database")
}
