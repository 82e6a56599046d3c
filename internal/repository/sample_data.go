package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"kis-trading/internal/model"
	"kis-trading/pkg/utils"
)

const (
	sampleBasePrice     = 50000
	sampleMinuteStep    = 5 * time.Minute
	sampleMarketOpen    = "090000"
	sampleMarketClose   = "153000"
	sampleDailyDriftPct = 0.03
)

type sampleDataProvider struct{}

// NewSampleDataProvider returns a provider that synthesizes a random walk
// instead of calling the broker. The walk is seeded from the stock code,
// so repeated runs over the same inputs produce identical bars.
func NewSampleDataProvider() HistoricalDataProvider {
	return &sampleDataProvider{}
}

func (p *sampleDataProvider) GetDailyData(ctx context.Context, stockCode, startDate, endDate string) ([]model.DailyBar, error) {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	rng := sampleRand(stockCode)
	price := samplePrice(stockCode)

	var bars []model.DailyBar
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if utils.IsWeekend(d) {
			continue
		}
		bar := nextSampleBar(rng, price)
		bar.Date = d.Format(utils.DateLayout)
		bars = append(bars, bar)
		price = bar.Close
	}
	return bars, nil
}

func (p *sampleDataProvider) GetMinuteData(ctx context.Context, stockCode, date string) ([]model.MinuteBar, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if utils.IsWeekend(day) {
		return nil, nil
	}

	rng := sampleRand(stockCode + date)
	price := samplePrice(stockCode)

	sessionOpen, _ := time.ParseInLocation(utils.DatetimeLayout, date+sampleMarketOpen, utils.GetKSTTimeLocation())
	sessionClose, _ := time.ParseInLocation(utils.DatetimeLayout, date+sampleMarketClose, utils.GetKSTTimeLocation())

	var bars []model.MinuteBar
	for t := sessionOpen; !t.After(sessionClose); t = t.Add(sampleMinuteStep) {
		bar := nextSampleBar(rng, price)
		bars = append(bars, model.MinuteBar{
			Datetime: t.Format(utils.DatetimeLayout),
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			Volume:   bar.Volume / 100,
		})
		price = bar.Close
	}
	return bars, nil
}

// nextSampleBar advances the walk one step from the previous close.
func nextSampleBar(rng *rand.Rand, prevClose int64) model.DailyBar {
	drift := func() int64 {
		return int64(float64(prevClose) * sampleDailyDriftPct * (rng.Float64()*2 - 1))
	}

	open := prevClose + drift()
	closePrice := open + drift()

	high := max(open, closePrice) + absInt64(drift())/2
	low := min(open, closePrice) - absInt64(drift())/2
	if low < 1 {
		low = 1
	}

	return model.DailyBar{
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: 100000 + rng.Int63n(900000),
	}
}

func sampleRand(seedKey string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seedKey))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func samplePrice(stockCode string) int64 {
	h := fnv.New32a()
	h.Write([]byte(stockCode))
	return sampleBasePrice + int64(h.Sum32()%50)*1000
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
