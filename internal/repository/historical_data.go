package repository

import (
	"context"
	"sort"

	"kis-trading/internal/model"
)

// HistoricalDataProvider supplies the price history a backtest runs on.
// Daily bars come back ascending by date, already clipped to the
// requested range. Minute bars cover a single trading day ascending by
// time; a day with no session yields an empty slice, not an error.
type HistoricalDataProvider interface {
	GetDailyData(ctx context.Context, stockCode, startDate, endDate string) ([]model.DailyBar, error)
	GetMinuteData(ctx context.Context, stockCode, date string) ([]model.MinuteBar, error)
}

// MockHistoricalDataProvider serves pre-loaded bars with the same range
// filtering and ordering as the live provider. Intended for tests and dry
// runs against known price paths.
type MockHistoricalDataProvider struct {
	Daily  []model.DailyBar
	Minute map[string][]model.MinuteBar
}

func (p *MockHistoricalDataProvider) GetDailyData(_ context.Context, _, startDate, endDate string) ([]model.DailyBar, error) {
	var bars []model.DailyBar
	for _, bar := range p.Daily {
		if bar.Date >= startDate && bar.Date <= endDate {
			bars = append(bars, bar)
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

func (p *MockHistoricalDataProvider) GetMinuteData(_ context.Context, _, date string) ([]model.MinuteBar, error) {
	bars := append([]model.MinuteBar(nil), p.Minute[date]...)
	sort.Slice(bars, func(i, j int) bool { return bars[i].Datetime < bars[j].Datetime })
	return bars, nil
}

type kisHistoricalDataProvider struct {
	stockRepo KISStockRepository
}

// NewKISHistoricalDataProvider adapts the KIS quotation endpoints to the
// provider contract.
func NewKISHistoricalDataProvider(stockRepo KISStockRepository) HistoricalDataProvider {
	return &kisHistoricalDataProvider{stockRepo: stockRepo}
}

func (p *kisHistoricalDataProvider) GetDailyData(ctx context.Context, stockCode, startDate, endDate string) ([]model.DailyBar, error) {
	bars, err := p.stockRepo.GetDailyPrices(ctx, stockCode)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.DailyBar, 0, len(bars))
	for _, bar := range bars {
		if bar.Date < startDate || bar.Date > endDate {
			continue
		}
		filtered = append(filtered, bar)
	}

	// The API returns newest first; the engine wants oldest first.
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Date < filtered[j].Date
	})
	return filtered, nil
}

func (p *kisHistoricalDataProvider) GetMinuteData(ctx context.Context, stockCode, date string) ([]model.MinuteBar, error) {
	bars, err := p.stockRepo.GetMinutePrices(ctx, stockCode, date)
	if err != nil {
		return nil, err
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Datetime < bars[j].Datetime
	})
	return bars, nil
}
