package repository

import (
	"context"
	"testing"

	"kis-trading/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockHistoricalDataProvider_DailyRangeAndOrder(t *testing.T) {
	provider := &MockHistoricalDataProvider{Daily: []model.DailyBar{
		{Date: "20240105", Close: 105},
		{Date: "20240103", Close: 103},
		{Date: "20240104", Close: 104},
		{Date: "20231229", Close: 102},
	}}

	bars, err := provider.GetDailyData(context.Background(), "005930", "20240101", "20240104")
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, "20240103", bars[0].Date)
	assert.Equal(t, "20240104", bars[1].Date)
}

func TestMockHistoricalDataProvider_MinuteOrderAndMissingDay(t *testing.T) {
	provider := &MockHistoricalDataProvider{Minute: map[string][]model.MinuteBar{
		"20240103": {
			{Datetime: "20240103110000", Close: 3},
			{Datetime: "20240103090000", Close: 1},
			{Datetime: "20240103100000", Close: 2},
		},
	}}

	bars, err := provider.GetMinuteData(context.Background(), "005930", "20240103")
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, "20240103090000", bars[0].Datetime)
	assert.Equal(t, "20240103110000", bars[2].Datetime)

	empty, err := provider.GetMinuteData(context.Background(), "005930", "20240104")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
