package strategy

import (
	"fmt"

	"kis-trading/internal/dto"
	"kis-trading/internal/model"
)

// RangeTrading buys when the price falls to a fixed buy band and sells when it
// rises to a fixed sell band. A limit order at the band price is assumed to
// fill whenever the bar's range touches it. Non-positive band prices disable
// the corresponding side entirely.
type RangeTrading struct {
	buyPrice  int64
	sellPrice int64
}

func NewRangeTrading(params dto.StrategyParams) *RangeTrading {
	return &RangeTrading{
		buyPrice:  params.BuyPrice,
		sellPrice: params.SellPrice,
	}
}

func (s *RangeTrading) Name() string {
	return NameRangeTrading
}

// ShouldBuy fires when flat and the day's low touches the buy band.
func (s *RangeTrading) ShouldBuy(bar model.DailyBar, _ *model.DailyBar, position int64) bool {
	if position > 0 || s.buyPrice <= 0 {
		return false
	}
	return bar.Low <= s.buyPrice
}

// BuyPrice is always the configured band: the limit order fills at its own
// price, not at a worse one.
func (s *RangeTrading) BuyPrice(_ model.DailyBar, _ *model.DailyBar) int64 {
	return s.buyPrice
}

func (s *RangeTrading) BuyReason(_ model.DailyBar, _ *model.DailyBar) string {
	return fmt.Sprintf("buy price %d reached", s.buyPrice)
}

// ShouldSell fires when holding and the day's high touches the sell band.
func (s *RangeTrading) ShouldSell(bar model.DailyBar, _ int64, position int64) bool {
	if position <= 0 || s.sellPrice <= 0 {
		return false
	}
	return bar.High >= s.sellPrice
}

func (s *RangeTrading) SellPrice(_ model.DailyBar, _ int64) (int64, string) {
	return s.sellPrice, fmt.Sprintf("sell price %d reached", s.sellPrice)
}

func (s *RangeTrading) ShouldBuyTick(close, target, position int64) bool {
	return position == 0 && target > 0 && close <= target
}

func (s *RangeTrading) BuyTickReason(target int64) string {
	return fmt.Sprintf("buy price %d reached", target)
}

func (s *RangeTrading) SellTick(close, _ int64) (int64, string, bool) {
	if s.sellPrice <= 0 || close < s.sellPrice {
		return 0, "", false
	}
	return s.sellPrice, fmt.Sprintf("sell price %d reached", s.sellPrice), true
}

// CloseOutAtPeriodEnd is always false: range positions are carried and
// marked to market at the end of the period.
func (s *RangeTrading) CloseOutAtPeriodEnd() bool {
	return false
}
