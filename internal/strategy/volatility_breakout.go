package strategy

import (
	"fmt"

	"kis-trading/internal/dto"
	"kis-trading/internal/model"
)

// Default parameters for the volatility breakout strategy.
const (
	defaultK                = 0.5
	defaultTargetProfitRate = 2.0
	defaultStopLossRate     = -2.0
)

// VolatilityBreakout buys when the price breaks above a target derived from
// the previous day's range:
//
//	target = open + K * (prevHigh - prevLow)
//
// and exits on a profit target, a stop loss, or (when configured) the close
// of the final simulated bar. With only OHLC data the intraday order of
// touches is unknowable; when a single bar reaches both the profit target and
// the stop loss, the profit target wins. That tie-break is a modeling
// assumption kept for compatibility with historical results, not a claim
// about real fills.
type VolatilityBreakout struct {
	k                float64
	targetProfitRate float64
	stopLossRate     float64
	sellAtClose      bool
}

func NewVolatilityBreakout(params dto.StrategyParams) *VolatilityBreakout {
	s := &VolatilityBreakout{
		k:                params.K,
		targetProfitRate: params.TargetProfitRate,
		stopLossRate:     params.StopLossRate,
		sellAtClose:      true,
	}
	if s.k == 0 {
		s.k = defaultK
	}
	if s.targetProfitRate == 0 {
		s.targetProfitRate = defaultTargetProfitRate
	}
	if s.stopLossRate == 0 {
		s.stopLossRate = defaultStopLossRate
	}
	if params.SellAtClose != nil {
		s.sellAtClose = *params.SellAtClose
	}
	return s
}

func (s *VolatilityBreakout) Name() string {
	return NameVolatilityBreakout
}

// ShouldBuy fires when flat and the day's high breaks the target price.
// Without a previous bar the target is undefined and no buy can signal.
func (s *VolatilityBreakout) ShouldBuy(bar model.DailyBar, prev *model.DailyBar, position int64) bool {
	if position > 0 || prev == nil {
		return false
	}
	target := s.BuyPrice(bar, prev)
	if target <= 0 {
		return false
	}
	return bar.High >= target
}

// BuyPrice computes the breakout target for the day, or 0 without a previous bar.
func (s *VolatilityBreakout) BuyPrice(bar model.DailyBar, prev *model.DailyBar) int64 {
	if prev == nil {
		return 0
	}
	volatility := prev.High - prev.Low
	return int64(float64(bar.Open) + float64(volatility)*s.k)
}

func (s *VolatilityBreakout) BuyReason(bar model.DailyBar, prev *model.DailyBar) string {
	return fmt.Sprintf("target price %d broken (K=%.2f)", s.BuyPrice(bar, prev), s.k)
}

// ShouldSell fires when the day's high implies the profit target or the day's
// low implies the stop loss. Both are judged independently from OHLC.
func (s *VolatilityBreakout) ShouldSell(bar model.DailyBar, buyPrice, position int64) bool {
	if position <= 0 || buyPrice <= 0 {
		return false
	}

	highProfitRate := float64(bar.High-buyPrice) / float64(buyPrice) * 100
	lowProfitRate := float64(bar.Low-buyPrice) / float64(buyPrice) * 100

	return highProfitRate >= s.targetProfitRate || lowProfitRate <= s.stopLossRate
}

// SellPrice resolves the exit: profit target first, then stop loss, then the
// bar close. The profit-target-first order is the documented tie-break.
func (s *VolatilityBreakout) SellPrice(bar model.DailyBar, buyPrice int64) (int64, string) {
	targetPrice := s.profitTargetPrice(buyPrice)
	if bar.High >= targetPrice {
		return targetPrice, "profit target reached"
	}

	stopPrice := s.stopLossPrice(buyPrice)
	if bar.Low <= stopPrice {
		return stopPrice, "stop loss triggered"
	}

	return bar.Close, "market close"
}

func (s *VolatilityBreakout) ShouldBuyTick(close, target, position int64) bool {
	return position == 0 && target > 0 && close >= target
}

func (s *VolatilityBreakout) BuyTickReason(target int64) string {
	return fmt.Sprintf("target price %d broken (K=%.2f)", target, s.k)
}

// SellTick judges the exit against a single minute close.
func (s *VolatilityBreakout) SellTick(close, buyPrice int64) (int64, string, bool) {
	if buyPrice <= 0 {
		return 0, "", false
	}

	profitRate := float64(close-buyPrice) / float64(buyPrice) * 100
	if profitRate >= s.targetProfitRate {
		return s.profitTargetPrice(buyPrice), "profit target reached", true
	}
	if profitRate <= s.stopLossRate {
		return s.stopLossPrice(buyPrice), "stop loss triggered", true
	}

	return 0, "", false
}

func (s *VolatilityBreakout) CloseOutAtPeriodEnd() bool {
	return s.sellAtClose
}

func (s *VolatilityBreakout) profitTargetPrice(buyPrice int64) int64 {
	return int64(float64(buyPrice) * (1 + s.targetProfitRate/100))
}

func (s *VolatilityBreakout) stopLossPrice(buyPrice int64) int64 {
	return int64(float64(buyPrice) * (1 + s.stopLossRate/100))
}
