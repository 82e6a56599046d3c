package strategy

import (
	"fmt"

	"kis-trading/internal/dto"
	"kis-trading/internal/model"
)

// Strategy names accepted by the factory.
const (
	NameRangeTrading       = "range_trading"
	NameVolatilityBreakout = "volatility_breakout"
)

// Strategy decides buys and sells for the backtest engine. Implementations are
// pure functions over bars: no I/O, no mutable state beyond their parameters.
//
// Daily methods receive whole-day bars and judge fills against the day's
// high/low range. Tick methods receive minute closes; the target passed to
// ShouldBuyTick is the day-level buy price, computed once per day by the
// engine and held constant across that day's minute bars.
type Strategy interface {
	Name() string

	// ShouldBuy reports whether a flat position should open on this bar.
	ShouldBuy(bar model.DailyBar, prev *model.DailyBar, position int64) bool
	// BuyPrice returns the assumed fill price for a buy on this bar, or 0
	// when no valid price exists.
	BuyPrice(bar model.DailyBar, prev *model.DailyBar) int64
	// BuyReason describes why the buy fired, for the trade ledger.
	BuyReason(bar model.DailyBar, prev *model.DailyBar) string

	// ShouldSell reports whether an open position should close on this bar.
	ShouldSell(bar model.DailyBar, buyPrice, position int64) bool
	// SellPrice resolves the assumed fill price and ledger reason for a sell.
	SellPrice(bar model.DailyBar, buyPrice int64) (int64, string)

	// ShouldBuyTick reports whether a flat position should open at this
	// minute close given the day-level target price.
	ShouldBuyTick(close, target, position int64) bool
	// BuyTickReason describes a tick-triggered buy at the day-level target,
	// for the trade ledger.
	BuyTickReason(target int64) string
	// SellTick resolves a sell against a minute close. ok is false when no
	// exit condition holds.
	SellTick(close, buyPrice int64) (price int64, reason string, ok bool)

	// CloseOutAtPeriodEnd reports whether an open position must be force-sold
	// on the final bar of the simulated period.
	CloseOutAtPeriodEnd() bool
}

// New returns the strategy registered under name, configured with params.
// An unknown name is a configuration error, never silently defaulted.
func New(name string, params dto.StrategyParams) (Strategy, error) {
	switch name {
	case NameRangeTrading:
		return NewRangeTrading(params), nil
	case NameVolatilityBreakout:
		return NewVolatilityBreakout(params), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q (want %s or %s)",
			name, NameRangeTrading, NameVolatilityBreakout)
	}
}
