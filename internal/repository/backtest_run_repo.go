package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/pkg/postgres"

	"gorm.io/datatypes"
)

// BacktestRunRepository persists completed backtest summaries.
type BacktestRunRepository interface {
	Save(ctx context.Context, result *dto.BacktestResult) (*model.BacktestRun, error)
	List(ctx context.Context, stockCode string, limit int) ([]model.BacktestRun, error)
}

type backtestRunRepository struct {
	db *postgres.DB
}

func NewBacktestRunRepository(db *postgres.DB) BacktestRunRepository {
	return &backtestRunRepository{db: db}
}

func (r *backtestRunRepository) Save(ctx context.Context, result *dto.BacktestResult) (*model.BacktestRun, error) {
	params, err := json.Marshal(result.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backtest params: %w", err)
	}
	trades, err := json.Marshal(result.Trades)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backtest trades: %w", err)
	}

	run := &model.BacktestRun{
		StockCode:       result.StockCode,
		StockName:       result.StockName,
		StartDate:       result.StartDate,
		EndDate:         result.EndDate,
		Strategy:        result.Strategy,
		InitialCapital:  result.InitialCapital,
		FinalCapital:    result.FinalCapital,
		TotalTrades:     result.TotalTrades,
		WinningTrades:   result.WinningTrades,
		LosingTrades:    result.LosingTrades,
		TotalProfitLoss: result.TotalProfitLoss,
		TotalReturnRate: result.TotalReturnRate,
		MaxDrawdown:     result.MaxDrawdown,
		WinRate:         result.WinRate,
		Params:          datatypes.JSON(params),
		Trades:          datatypes.JSON(trades),
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to save backtest run: %w", err)
	}
	return run, nil
}

func (r *backtestRunRepository) List(ctx context.Context, stockCode string, limit int) ([]model.BacktestRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if stockCode != "" {
		query = query.Where("stock_code = ?", stockCode)
	}

	var runs []model.BacktestRun
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list backtest runs: %w", err)
	}
	return runs, nil
}
