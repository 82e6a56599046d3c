package dto

import "time"

// EngineStatus is the lifecycle state of the live trading engine.
type EngineStatus string

const (
	EngineStopped EngineStatus = "stopped"
	EngineRunning EngineStatus = "running"
	EnginePaused  EngineStatus = "paused"
)

// TradeLog records one live order attempt made by the trading engine.
type TradeLog struct {
	Timestamp time.Time `json:"timestamp"`
	StockCode string    `json:"stock_code"`
	StockName string    `json:"stock_name"`
	Action    TradeType `json:"action"`
	Quantity  int64     `json:"quantity"`
	Price     int64     `json:"price"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
}

// StockStatus is the engine's latest view of one monitored symbol.
type StockStatus struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	CurrentPrice int64      `json:"current_price"`
	HoldingQty   int64      `json:"holding_qty"`
	AvgBuyPrice  int64      `json:"avg_buy_price"`
	EvalAmount   int64      `json:"eval_amount"`
	ProfitRate   float64    `json:"profit_rate"`
	LastCheck    *time.Time `json:"last_check,omitempty"`
}

// EngineSummary is the status payload of the engine endpoints.
type EngineSummary struct {
	Status          EngineStatus `json:"status"`
	DailyTradeCount int          `json:"daily_trade_count"`
	MaxDailyTrades  int          `json:"max_daily_trades"`
	EnabledStocks   int          `json:"enabled_stocks"`
	TotalStocks     int          `json:"total_stocks"`
	TradeLogCount   int          `json:"trade_log_count"`
}

// OrderRequest is the payload of the order placement endpoint.
// Price 0 places a market order, any other value a limit order.
type OrderRequest struct {
	StockCode string    `json:"stock_code" validate:"required"`
	Side      TradeType `json:"side" validate:"required,oneof=buy sell"`
	Quantity  int64     `json:"quantity" validate:"required,gt=0"`
	Price     int64     `json:"price" validate:"gte=0"`
}
