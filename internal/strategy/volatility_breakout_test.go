package strategy

import (
	"testing"

	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestVolatilityBreakout_Defaults(t *testing.T) {
	s := NewVolatilityBreakout(dto.StrategyParams{})

	assert.Equal(t, 0.5, s.k)
	assert.Equal(t, 2.0, s.targetProfitRate)
	assert.Equal(t, -2.0, s.stopLossRate)
	assert.True(t, s.CloseOutAtPeriodEnd())

	s = NewVolatilityBreakout(dto.StrategyParams{SellAtClose: utils.ToPointer(false)})
	assert.False(t, s.CloseOutAtPeriodEnd())
}

func TestVolatilityBreakout_BuyPrice(t *testing.T) {
	s := NewVolatilityBreakout(dto.StrategyParams{K: 0.5})

	prev := &model.DailyBar{High: 52000, Low: 49000}
	bar := model.DailyBar{Open: 49000}

	// 49000 + 0.5 * (52000 - 49000)
	assert.Equal(t, int64(50500), s.BuyPrice(bar, prev))
	assert.Equal(t, int64(0), s.BuyPrice(bar, nil))
}

func TestVolatilityBreakout_ShouldBuy(t *testing.T) {
	s := NewVolatilityBreakout(dto.StrategyParams{K: 0.5})
	prev := &model.DailyBar{High: 52000, Low: 49000}

	tests := []struct {
		name     string
		bar      model.DailyBar
		prev     *model.DailyBar
		position int64
		want     bool
	}{
		{
			name: "high breaks target",
			bar:  model.DailyBar{Open: 49000, High: 50500},
			prev: prev,
			want: true,
		},
		{
			name: "high stays under target",
			bar:  model.DailyBar{Open: 49000, High: 50499},
			prev: prev,
			want: false,
		},
		{
			name: "no previous bar means no target",
			bar:  model.DailyBar{Open: 49000, High: 60000},
			prev: nil,
			want: false,
		},
		{
			name:     "already holding",
			bar:      model.DailyBar{Open: 49000, High: 50500},
			prev:     prev,
			position: 5,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ShouldBuy(tt.bar, tt.prev, tt.position))
		})
	}
}

func TestVolatilityBreakout_SellPrice(t *testing.T) {
	// 25 percent rates keep the implied prices exact: 50000 -> 62500 / 37500.
	s := NewVolatilityBreakout(dto.StrategyParams{TargetProfitRate: 25, StopLossRate: -25})

	tests := []struct {
		name       string
		bar        model.DailyBar
		wantPrice  int64
		wantReason string
	}{
		{
			name:       "profit target reached",
			bar:        model.DailyBar{High: 63000, Low: 49000, Close: 60000},
			wantPrice:  62500,
			wantReason: "profit target reached",
		},
		{
			name:       "stop loss triggered",
			bar:        model.DailyBar{High: 51000, Low: 37000, Close: 40000},
			wantPrice:  37500,
			wantReason: "stop loss triggered",
		},
		{
			name:       "both touched prefers profit target",
			bar:        model.DailyBar{High: 63000, Low: 37000, Close: 50000},
			wantPrice:  62500,
			wantReason: "profit target reached",
		},
		{
			name:       "neither touched falls back to close",
			bar:        model.DailyBar{High: 51000, Low: 49000, Close: 50500},
			wantPrice:  50500,
			wantReason: "market close",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, reason := s.SellPrice(tt.bar, 50000)
			assert.Equal(t, tt.wantPrice, price)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestVolatilityBreakout_Ticks(t *testing.T) {
	s := NewVolatilityBreakout(dto.StrategyParams{TargetProfitRate: 25, StopLossRate: -25})

	assert.True(t, s.ShouldBuyTick(50500, 50500, 0))
	assert.False(t, s.ShouldBuyTick(50499, 50500, 0))
	assert.False(t, s.ShouldBuyTick(50500, 0, 0))
	assert.False(t, s.ShouldBuyTick(50500, 50500, 10))
	assert.Equal(t, "target price 50500 broken (K=0.50)", s.BuyTickReason(50500))

	price, reason, ok := s.SellTick(62500, 50000)
	assert.True(t, ok)
	assert.Equal(t, int64(62500), price)
	assert.Equal(t, "profit target reached", reason)

	price, reason, ok = s.SellTick(37500, 50000)
	assert.True(t, ok)
	assert.Equal(t, int64(37500), price)
	assert.Equal(t, "stop loss triggered", reason)

	_, _, ok = s.SellTick(50000, 50000)
	assert.False(t, ok)
}

func TestNew_UnknownStrategy(t *testing.T) {
	s, err := New("momentum", dto.StrategyParams{})
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "unknown strategy")

	s, err = New(NameRangeTrading, dto.StrategyParams{BuyPrice: 1000})
	assert.NoError(t, err)
	assert.Equal(t, NameRangeTrading, s.Name())

	s, err = New(NameVolatilityBreakout, dto.StrategyParams{})
	assert.NoError(t, err)
	assert.Equal(t, NameVolatilityBreakout, s.Name())
}
