package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun is the persisted summary of one backtest invocation.
// Params and Trades keep the request parameters and the full trade ledger
// as JSON so the history endpoint can replay them without extra tables.
type BacktestRun struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StockCode       string         `gorm:"index;size:16" json:"stock_code"`
	StockName       string         `gorm:"size:64" json:"stock_name"`
	StartDate       string         `gorm:"size:8" json:"start_date"`
	EndDate         string         `gorm:"size:8" json:"end_date"`
	Strategy        string         `gorm:"size:32" json:"strategy"`
	InitialCapital  int64          `json:"initial_capital"`
	FinalCapital    int64          `json:"final_capital"`
	TotalTrades     int            `json:"total_trades"`
	WinningTrades   int            `json:"winning_trades"`
	LosingTrades    int            `json:"losing_trades"`
	TotalProfitLoss int64          `json:"total_profit_loss"`
	TotalReturnRate float64        `json:"total_return_rate"`
	MaxDrawdown     float64        `json:"max_drawdown"`
	WinRate         float64        `json:"win_rate"`
	Params          datatypes.JSON `json:"params"`
	Trades          datatypes.JSON `json:"trades"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}
