package dto

import "kis-trading/internal/model"

// TradeType distinguishes the two sides of a trade record.
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

// StrategyParams carries the strategy-specific thresholds of a backtest request.
// Which fields matter depends on the strategy name; unused fields are ignored.
type StrategyParams struct {
	// range_trading
	BuyPrice  int64 `json:"buy_price,omitempty"`
	SellPrice int64 `json:"sell_price,omitempty"`

	// volatility_breakout
	K                float64 `json:"k,omitempty"`
	TargetProfitRate float64 `json:"target_profit_rate,omitempty"`
	StopLossRate     float64 `json:"stop_loss_rate,omitempty"`
	SellAtClose      *bool   `json:"sell_at_close,omitempty"`
}

// BacktestRequest defines the parameters of one backtest run.
type BacktestRequest struct {
	StockCode      string         `json:"stock_code" validate:"required"`
	StockName      string         `json:"stock_name"`
	StartDate      string         `json:"start_date" validate:"required,len=8,numeric"`
	EndDate        string         `json:"end_date" validate:"required,len=8,numeric"`
	InitialCapital int64          `json:"initial_capital" validate:"required,gt=0"`
	Strategy       string         `json:"strategy" validate:"required"`
	Params         StrategyParams `json:"params"`
	UseMinuteData  bool           `json:"use_minute_data"`
	UseSampleData  bool           `json:"use_sample_data"`
}

// TradeRecord is one executed buy or sell in the backtest ledger.
// Records are append-only; they are never modified after creation.
type TradeRecord struct {
	Date       string    `json:"date"` // YYYYMMDD, or YYYYMMDDHHMMSS in minute mode
	Type       TradeType `json:"trade_type"`
	Price      int64     `json:"price"`
	Quantity   int64     `json:"quantity"`
	Amount     int64     `json:"amount"`
	ProfitLoss int64     `json:"profit_loss"` // sell records only
	ProfitRate float64   `json:"profit_rate"` // sell records only
	Reason     string    `json:"reason"`
}

// BacktestResult summarizes one completed backtest run.
type BacktestResult struct {
	StockCode       string            `json:"stock_code"`
	StockName       string            `json:"stock_name"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	Strategy        string            `json:"strategy"`
	InitialCapital  int64             `json:"initial_capital"`
	FinalCapital    int64             `json:"final_capital"`
	TotalTrades     int               `json:"total_trades"`
	WinningTrades   int               `json:"winning_trades"`
	LosingTrades    int               `json:"losing_trades"`
	TotalProfitLoss int64             `json:"total_profit_loss"`
	TotalReturnRate float64           `json:"total_return_rate"`
	MaxDrawdown     float64           `json:"max_drawdown"`
	WinRate         float64           `json:"win_rate"`
	Params          StrategyParams    `json:"params"`
	Trades          []TradeRecord     `json:"trades"`
	MinuteBars      []model.MinuteBar `json:"minute_bars,omitempty"` // charting data, minute mode only
}

// IsProfitable reports whether the run ended above its initial capital.
func (r *BacktestResult) IsProfitable() bool {
	return r.TotalProfitLoss > 0
}
