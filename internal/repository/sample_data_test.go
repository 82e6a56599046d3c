package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDataProvider_DailyBarsAreWellFormed(t *testing.T) {
	provider := NewSampleDataProvider()

	// 20240101 is a Monday; the range spans two weekends.
	bars, err := provider.GetDailyData(context.Background(), "005930", "20240101", "20240114")
	require.NoError(t, err)
	require.NotEmpty(t, bars)

	// 10 weekdays in two full weeks.
	assert.Len(t, bars, 10)

	for _, bar := range bars {
		assert.NotContains(t, []string{"20240106", "20240107", "20240113", "20240114"}, bar.Date)
		assert.GreaterOrEqual(t, bar.High, bar.Open, "bar %s", bar.Date)
		assert.GreaterOrEqual(t, bar.High, bar.Close, "bar %s", bar.Date)
		assert.LessOrEqual(t, bar.Low, bar.Open, "bar %s", bar.Date)
		assert.LessOrEqual(t, bar.Low, bar.Close, "bar %s", bar.Date)
		assert.Positive(t, bar.Low, "bar %s", bar.Date)
		assert.Positive(t, bar.Volume, "bar %s", bar.Date)
	}

	for i := 1; i < len(bars); i++ {
		assert.Less(t, bars[i-1].Date, bars[i].Date)
	}
}

func TestSampleDataProvider_Deterministic(t *testing.T) {
	provider := NewSampleDataProvider()

	first, err := provider.GetDailyData(context.Background(), "005930", "20240101", "20240131")
	require.NoError(t, err)
	second, err := provider.GetDailyData(context.Background(), "005930", "20240101", "20240131")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := provider.GetDailyData(context.Background(), "000660", "20240101", "20240131")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSampleDataProvider_MinuteBars(t *testing.T) {
	provider := NewSampleDataProvider()

	bars, err := provider.GetMinuteData(context.Background(), "005930", "20240102")
	require.NoError(t, err)
	require.NotEmpty(t, bars)

	assert.Equal(t, "20240102090000", bars[0].Datetime)
	assert.Equal(t, "20240102153000", bars[len(bars)-1].Datetime)
	assert.True(t, bars[len(bars)-1].AtOrAfterMarketClose())

	for i := 1; i < len(bars); i++ {
		assert.Less(t, bars[i-1].Datetime, bars[i].Datetime)
	}
}

func TestSampleDataProvider_MinuteBarsOnWeekend(t *testing.T) {
	provider := NewSampleDataProvider()

	// 20240106 is a Saturday: no session, no error.
	bars, err := provider.GetMinuteData(context.Background(), "005930", "20240106")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestSampleDataProvider_InvalidDates(t *testing.T) {
	provider := NewSampleDataProvider()

	_, err := provider.GetDailyData(context.Background(), "005930", "not-a-date", "20240131")
	assert.Error(t, err)

	_, err = provider.GetMinuteData(context.Background(), "005930", "2024-01-02")
	assert.Error(t, err)
}
