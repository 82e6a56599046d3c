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

// KISAccountRepository exposes the KIS account inquiry endpoints.
type KISAccountRepository interface {
	GetBalance(ctx context.Context) (*model.Balance, error)
	GetAvailableDeposit(ctx context.Context) (*model.Deposit, error)
}

type kisAccountRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient httpclient.HTTPClient
	auth       KISAuthRepository
	limiter    *rate.Limiter
}

func NewKISAccountRepository(cfg *config.Config, log *logger.Logger, httpClient httpclient.HTTPClient, auth KISAuthRepository, limiter *rate.Limiter) KISAccountRepository {
	return &kisAccountRepository{
		cfg:        cfg,
		log:        log,
		httpClient: httpClient,
		auth:       auth,
		limiter:    limiter,
	}
}

// GetBalance fetches the current holdings and account summary.
func (r *kisAccountRepository) GetBalance(ctx context.Context) (*model.Balance, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "balance"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"CANO":                  r.cfg.KIS.AccountPrefix(),
		"ACNT_PRDT_CD":          r.cfg.KIS.AccountSuffix(),
		"AFHR_FLPR_YN":          "N",
		"OFL_YN":                "",
		"INQR_DVSN":             "02",
		"UNPR_DVSN":             "01",
		"FUND_STTL_ICLD_YN":     "N",
		"FNCG_AMT_AUTO_RDPT_YN": "N",
		"PRCS_DVSN":             "00",
		"CTX_AREA_FK100":        "",
		"CTX_AREA_NK100":        "",
	}

	var balanceResp dto.KISBalanceResponse
	resp, err := r.httpClient.Get(ctx, kisBalanceEndpoint, params, headers, &balanceResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis balance endpoint returned status %d", resp.StatusCode)
	}
	if balanceResp.RtCd != "0" {
		return nil, kisError("balance", balanceResp.RtCd, balanceResp.Msg1)
	}

	holdings := make([]model.Holding, 0, len(balanceResp.Output1))
	for _, item := range balanceResp.Output1 {
		qty := atoi64(item.HldgQty)
		if qty <= 0 {
			continue
		}
		holdings = append(holdings, model.Holding{
			StockCode:    item.Pdno,
			StockName:    item.PrdtName,
			Quantity:     qty,
			AvgBuyPrice:  atoi64(item.PchsAvgPric),
			CurrentPrice: atoi64(item.Prpr),
			EvalAmount:   atoi64(item.EvluAmt),
			ProfitLoss:   atoi64(item.EvluPflsAmt),
			ProfitRate:   atof(item.EvluPflsRt),
		})
	}

	var summary model.AccountSummary
	if len(balanceResp.Output2) > 0 {
		out2 := balanceResp.Output2[0]
		summary = model.AccountSummary{
			Deposit:         atoi64(out2.DncaTotAmt),
			TotalBuyAmount:  atoi64(out2.PchsAmtSmtlAmt),
			TotalEvalAmount: atoi64(out2.EvluAmtSmtlAmt),
			TotalProfitLoss: atoi64(out2.EvluPflsSmtlAmt),
		}
	}

	return &model.Balance{Holdings: holdings, Summary: summary}, nil
}

// GetAvailableDeposit fetches the cash available for new orders.
func (r *kisAccountRepository) GetAvailableDeposit(ctx context.Context) (*model.Deposit, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := r.auth.Headers(ctx, kisTrID(r.cfg.KIS, "deposit"))
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"CANO":                 r.cfg.KIS.AccountPrefix(),
		"ACNT_PRDT_CD":         r.cfg.KIS.AccountSuffix(),
		"PDNO":                 "005930", // any listed code works for this inquiry
		"ORD_UNPR":             "0",
		"ORD_DVSN":             "01",
		"CMA_EVLU_AMT_ICLD_YN": "Y",
		"OVRS_ICLD_YN":         "N",
	}

	var depositResp dto.KISDepositResponse
	resp, err := r.httpClient.Get(ctx, kisDepositEndpoint, params, headers, &depositResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch available deposit: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kis deposit endpoint returned status %d", resp.StatusCode)
	}
	if depositResp.RtCd != "0" {
		return nil, kisError("deposit", depositResp.RtCd, depositResp.Msg1)
	}

	return &model.Deposit{
		AvailableCash:  atoi64(depositResp.Output.OrdPsblCash),
		AvailableTotal: atoi64(depositResp.Output.NrcvbBuyAmt),
	}, nil
}
