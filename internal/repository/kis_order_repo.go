package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"kis-trading/config"
	"kis-trading/internal/dto"
	"kis-trading/internal/model"
	"kis-trading/pkg/httpclient"
	"kis-trading/pkg/logger"
	"kis-trading/pkg/utils"

	"golang.org/x/time/rate"
)

// Order division codes of the order-cash endpoint.
const (
	kisOrderLimit  = "00"
	kisOrderMarket = "01"
)

// KISOrderRepository exposes the KIS cash order endpoints.
type KISOrderRepository interface {
	// Buy places a buy order. Price 0 places a market order.
	Buy(ctx context.Context, stockCode string, quantity, price int64) (*model.OrderResult, error)
	// Sell places a sell order. Price 0 places a market order.
	Sell(ctx context.Context, stockCode string, quantity, price int64) (*model.OrderResult, error)
	// GetOrders lists the orders of one day. Empty date means today.
	GetOrders(ctx context.Context, date string) ([]model.OrderInfo, error)
}

type kisOrderRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient httpclient.HTTPClient
	auth       KISAuthRepository
	limiter    *rate.Limiter
}

func NewKISOrderRepository(cfg *config.Config, log *logger.Logger, httpClient httpclient.HTTPClient, auth KISAuthRepository, limiter *rate.Limiter) KISOrderRepository {
	return &kisOrderRepository{
		cfg:        cfg,
		log:        log,
		httpClient: httpClient,
		auth:       auth,
		limiter:    limiter,
	}
}

func (r *kisOrderRepository) Buy(ctx context.Context, stockCode string, quantity, price int64) (*model.OrderResult, error) {
	return r.placeOrder(ctx, stockCode, quantity, price, true)
}

func (r *kisOrderRepository) Sell(ctx context.Context, stockCode string, quantity, price int64) (*model.OrderResult, error) {
	return r.placeOrder(ctx, stockCode, quantity, price, false)
}

func (r *kisOrderRepository) placeOrder(ctx context.Context, stockCode string, quantity, price int64, isBuy bool) (*model.OrderResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	trIDKey := "sell"
	if isBuy {
		trIDKey = "buy"
	}
	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, trIDKey))
	if err != nil {
		return nil, err
	}

	ordDvsn := kisOrderMarket
	if price > 0 {
		ordDvsn = kisOrderLimit
	}

	body := dto.KISOrderRequest{
		CANO:       r.cfg.KIS.AccountPrefix(),
		AcntPrdtCd: r.cfg.KIS.AccountSuffix(),
		Pdno:       stockCode,
		OrdDvsn:    ordDvsn,
		OrdQty:     strconv.FormatInt(quantity, 10),
		OrdUnpr:    strconv.FormatInt(price, 10),
	}

	var orderResp dto.KISOrderResponse
	resp, err := r.httpClient.Post(ctx, kisOrderEndpoint, body, headers, &orderResp)
	if err != nil {
		return nil, fmt.Errorf("failed to place order for %s: %w", stockCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis order endpoint returned status %d", resp.StatusCode)
	}

	if orderResp.RtCd != "0" {
		// A rejected order is a result, not a transport failure.
		return &model.OrderResult{
			Success: false,
			Message: orderResp.Msg1,
		}, nil
	}

	return &model.OrderResult{
		Success:   true,
		OrderNo:   orderResp.Output.Odno,
		OrderTime: orderResp.Output.OrdTmd,
		Message:   orderResp.Msg1,
	}, nil
}

func (r *kisOrderRepository) GetOrders(ctx context.Context, date string) ([]model.OrderInfo, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if date == "" {
		date = utils.TodayKST()
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "orders"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"CANO":            r.cfg.KIS.AccountPrefix(),
		"ACNT_PRDT_CD":    r.cfg.KIS.AccountSuffix(),
		"INQR_STRT_DT":    date,
		"INQR_END_DT":     date,
		"SLL_BUY_DVSN_CD": "00",
		"INQR_DVSN":       "01",
		"PDNO":            "",
		"CCLD_DVSN":       "00",
		"ORD_GNO_BRNO":    "",
		"ODNO":            "",
		"INQR_DVSN_3":     "00",
		"INQR_DVSN_1":     "",
		"CTX_AREA_FK100":  "",
		"CTX_AREA_NK100":  "",
	}

	var listResp dto.KISOrderListResponse
	resp, err := r.httpClient.Get(ctx, kisOrderListEndpoint, params, headers, &listResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis order list endpoint returned status %d", resp.StatusCode)
	}
	if listResp.RtCd != "0" {
		return nil, kisError("orders", listResp.RtCd, listResp.Msg1)
	}

	orders := make([]model.OrderInfo, 0, len(listResp.Output1))
	for _, item := range listResp.Output1 {
		if item.Odno == "" {
			continue
		}
		side := string(dto.TradeTypeSell)
		if item.SllBuyDvsnCd == "02" {
			side = string(dto.TradeTypeBuy)
		}
		orders = append(orders, model.OrderInfo{
			OrderNo:       item.Odno,
			StockCode:     item.Pdno,
			StockName:     item.PrdtName,
			OrderSide:     side,
			OrderQty:      atoi64(item.OrdQty),
			OrderPrice:    atoi64(item.OrdUnpr),
			ExecutedQty:   atoi64(item.TotCcldQty),
			ExecutedPrice: atoi64(item.AvgPrvs),
			OrderTime:     item.OrdTmd,
		})
	}
	return orders, nil
}
