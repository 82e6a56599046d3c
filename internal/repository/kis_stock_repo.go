package repository

import (
	"context"
	"fmt"
	"net/http"

	"kis-trading/config"
	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/pkg/httpclient"
	"kis-trading/pkg/logger"

	"golang.org/x/time/rate"
)

// KISStockRepository exposes the KIS quotation endpoints.
type KISStockRepository interface {
	GetPrice(ctx context.Context, stockCode string) (*model.StockPrice, error)
	GetOrderBook(ctx context.Context, stockCode string) (*model.OrderBook, error)
	GetDailyPrices(ctx context.Context, stockCode string) ([]model.DailyBar, error)
	GetMinutePrices(ctx context.Context, stockCode, date string) ([]model.MinuteBar, error)
}

type kisStockRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient httpclient.HTTPClient
	auth       KISAuthRepository
	limiter    *rate.Limiter
}

func NewKISStockRepository(cfg *config.Config, log *logger.Logger, httpClient httpclient.HTTPClient, auth KISAuthRepository, limiter *rate.Limiter) KISStockRepository {
	return &kisStockRepository{
		cfg:        cfg,
		log:        log,
		httpClient: httpClient,
		auth:       auth,
		limiter:    limiter,
	}
}

// GetPrice fetches the current-price quote for one symbol.
func (r *kisStockRepository) GetPrice(ctx context.Context, stockCode string) (*model.StockPrice, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "price"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"FID_COND_MRKT_DIV_CODE": kisMarketCodeStock,
		"FID_INPUT_ISCD":         stockCode,
	}

	var priceResp dto.KISPriceResponse
	resp, err := r.httpClient.Get(ctx, kisPriceEndpoint, params, headers, &priceResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price for %s: %w", stockCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis price endpoint returned status %d", resp.StatusCode)
	}
	if priceResp.RtCd != "0" {
		return nil, kisError("price", priceResp.RtCd, priceResp.Msg1)
	}

	out := priceResp.Output
	return &model.StockPrice{
		StockCode:    stockCode,
		CurrentPrice: atoi64(out.StckPrpr),
		ChangePrice:  atoi64(out.PrdyVrss),
		ChangeRate:   atof(out.PrdyCtrt),
		Open:         atoi64(out.StckOprc),
		High:         atoi64(out.StckHgpr),
		Low:          atoi64(out.StckLwpr),
		Volume:       atoi64(out.AcmlVol),
	}, nil
}

// GetOrderBook fetches the best ask and bid levels for one symbol.
func (r *kisStockRepository) GetOrderBook(ctx context.Context, stockCode string) (*model.OrderBook, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "asking_price"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"FID_COND_MRKT_DIV_CODE": kisMarketCodeStock,
		"FID_INPUT_ISCD":         stockCode,
	}

	var bookResp dto.KISOrderBookResponse
	resp, err := r.httpClient.Get(ctx, kisOrderBookEndpoint, params, headers, &bookResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order book for %s: %w", stockCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis asking price endpoint returned status %d", resp.StatusCode)
	}
	if bookResp.RtCd != "0" {
		return nil, kisError("asking_price", bookResp.RtCd, bookResp.Msg1)
	}

	out := bookResp.Output1
	return &model.OrderBook{
		StockCode:   stockCode,
		AskPrice:    atoi64(out.Askp1),
		AskQuantity: atoi64(out.AskpRsqn1),
		BidPrice:    atoi64(out.Bidp1),
		BidQuantity: atoi64(out.BidpRsqn1),
		TotalAskQty: atoi64(out.TotalAskpRsqn),
		TotalBidQty: atoi64(out.TotalBidpRsqn),
	}, nil
}

// GetDailyPrices fetches the recent daily bars for one symbol. The API
// returns newest first; callers are responsible for ordering.
func (r *kisStockRepository) GetDailyPrices(ctx context.Context, stockCode string) ([]model.DailyBar, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "daily_price"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"FID_COND_MRKT_DIV_CODE": kisMarketCodeStock,
		"FID_INPUT_ISCD":         stockCode,
		"FID_PERIOD_DIV_CODE":    "D",
		"FID_ORG_ADJ_PRC":        "0", // adjusted prices
	}

	var dailyResp dto.KISDailyPriceResponse
	resp, err := r.httpClient.Get(ctx, kisDailyPriceEndpoint, params, headers, &dailyResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily prices for %s: %w", stockCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis daily price endpoint returned status %d", resp.StatusCode)
	}
	if dailyResp.RtCd != "0" {
		return nil, kisError("daily_price", dailyResp.RtCd, dailyResp.Msg1)
	}

	bars := make([]model.DailyBar, 0, len(dailyResp.Output))
	for _, item := range dailyResp.Output {
		if item.StckBsopDate == "" {
			continue
		}
		bars = append(bars, model.DailyBar{
			Date:   item.StckBsopDate,
			Open:   atoi64(item.StckOprc),
			High:   atoi64(item.StckHgpr),
			Low:    atoi64(item.StckLwpr),
			Close:  atoi64(item.StckClpr),
			Volume: atoi64(item.AcmlVol),
		})
	}
	return bars, nil
}

// GetMinutePrices fetches the minute bars of one trading day for one symbol.
func (r *kisStockRepository) GetMinutePrices(ctx context.Context, stockCode, date string) ([]model.MinuteBar, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "minute_price"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"FID_COND_MRKT_DIV_CODE": kisMarketCodeStock,
		"FID_INPUT_ISCD":         stockCode,
		"FID_INPUT_HOUR_1":       "153000",
		"FID_PW_DATA_INCU_YN":    "N",
		"FID_ETC_CLS_CODE":       "",
	}

	var minuteResp dto.KISMinutePriceResponse
	resp, err := r.httpClient.Get(ctx, kisMinutePriceEndpoint, params, headers, &minuteResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch minute prices for %s: %w", stockCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis minute price endpoint returned status %d", resp.StatusCode)
	}
	if minuteResp.RtCd != "0" {
		return nil, kisError("minute_price", minuteResp.RtCd, minuteResp.Msg1)
	}

	bars := make([]model.MinuteBar, 0, len(minuteResp.Output2))
	for _, item := range minuteResp.Output2 {
		if item.StckBsopDate != date {
			continue
		}
		bars = append(bars, model.MinuteBar{
			Datetime: item.StckBsopDate + item.StckCntgHour,
			Open:     atoi64(item.StckOprc),
			High:     atoi64(item.StckHgpr),
			Low:      atoi64(item.StckLwpr),
			Close:    atoi64(item.StckPrpr),
			Volume:   atoi64(item.CntgVol),
		})
	}
	return bars, nil
}
