package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"kis-trading/internal/dto"
	"kis-trading/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var backtestFlags struct {
	codes     string
	startDate string
	endDate   string
	capital   int64
	strategy  string
	buyPrice  int64
	sellPrice int64
	k         float64
	tp        float64
	sl        float64
	minute    bool
	sample    bool
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest from the command line and print the results as JSON",
	Run:   RunBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestFlags.codes, "codes", "", "comma separated stock codes (required)")
	f.StringVar(&backtestFlags.startDate, "start", "", "start date YYYYMMDD (required)")
	f.StringVar(&backtestFlags.endDate, "end", "", "end date YYYYMMDD (required)")
	f.Int64Var(&backtestFlags.capital, "capital", 10_000_000, "initial capital in KRW")
	f.StringVar(&backtestFlags.strategy, "strategy", "volatility_breakout", "strategy name")
	f.Int64Var(&backtestFlags.buyPrice, "buy-price", 0, "range trading buy band")
	f.Int64Var(&backtestFlags.sellPrice, "sell-price", 0, "range trading sell band")
	f.Float64Var(&backtestFlags.k, "k", 0, "volatility breakout K value")
	f.Float64Var(&backtestFlags.tp, "target-profit", 0, "target profit rate in percent")
	f.Float64Var(&backtestFlags.sl, "stop-loss", 0, "stop loss rate in percent")
	f.BoolVar(&backtestFlags.minute, "minute", false, "simulate on minute bars")
	f.BoolVar(&backtestFlags.sample, "sample", false, "use synthetic sample data instead of the broker")

	_ = backtestCmd.MarkFlagRequired("codes")
	_ = backtestCmd.MarkFlagRequired("start")
	_ = backtestCmd.MarkFlagRequired("end")
}

func RunBacktest(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	services := service.NewService(
		appDep.cfg,
		appDep.log,
		appDep.cache,
		appDep.repo,
		appDep.notifier,
		appDep.tradingCfg,
	)

	codes := strings.Split(backtestFlags.codes, ",")
	results := make([]*dto.BacktestResult, 0, len(codes))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, code := range codes {
		code := strings.TrimSpace(code)
		if code == "" {
			continue
		}
		g.Go(func() error {
			result, err := services.Backtest.Run(gctx, &dto.BacktestRequest{
				StockCode:      code,
				StartDate:      backtestFlags.startDate,
				EndDate:        backtestFlags.endDate,
				InitialCapital: backtestFlags.capital,
				Strategy:       backtestFlags.strategy,
				Params: dto.StrategyParams{
					BuyPrice:         backtestFlags.buyPrice,
					SellPrice:        backtestFlags.sellPrice,
					K:                backtestFlags.k,
					TargetProfitRate: backtestFlags.tp,
					StopLossRate:     backtestFlags.sl,
				},
				UseMinuteData: backtestFlags.minute,
				UseSampleData: backtestFlags.sample,
			})
			if err != nil {
				return fmt.Errorf("backtest for %s failed: %w", code, err)
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode results: %v", err)
	}
	fmt.Println(string(out))
}
