package repository

import (
	"fmt"
	"strconv"

	"kis-trading/config"
)

// KIS open API base URLs. The dev URL is the virtual trading sandbox.
const (
	kisProdBaseURL = "https://openapi.koreainvestment.com:9443"
	kisDevBaseURL  = "https://openapivts.koreainvestment.com:29443"
)

// KIS open API endpoints.
const (
	kisTokenEndpoint       = "/oauth2/tokenP"
	kisPriceEndpoint       = "/uapi/domestic-stock/v1/quotations/inquire-price"
	kisOrderBookEndpoint   = "/uapi/domestic-stock/v1/quotations/inquire-asking-price-exp-ccn"
	kisDailyPriceEndpoint  = "/uapi/domestic-stock/v1/quotations/inquire-daily-price"
	kisMinutePriceEndpoint = "/uapi/domestic-stock/v1/quotations/inquire-time-itemchartprice"
	kisBalanceEndpoint     = "/uapi/domestic-stock/v1/trading/inquire-balance"
	kisDepositEndpoint     = "/uapi/domestic-stock/v1/trading/inquire-psbl-order"
	kisOrderEndpoint       = "/uapi/domestic-stock/v1/trading/order-cash"
	kisOrderListEndpoint   = "/uapi/domestic-stock/v1/trading/inquire-daily-ccld"
)

// Market division code for regular KRX stocks.
const kisMarketCodeStock = "J"

// Transaction IDs differ between the production and sandbox environments.
var kisTrIDs = map[string]map[string]string{
	"prod": {
		"price":        "FHKST01010100",
		"asking_price": "FHKST01010200",
		"daily_price":  "FHKST01010400",
		"minute_price": "FHKST03010200",
		"balance":      "TTTC8434R",
		"deposit":      "TTTC8908R",
		"buy":          "TTTC0802U",
		"sell":         "TTTC0801U",
		"orders":       "TTTC8001R",
	},
	"dev": {
		"price":        "FHKST01010100",
		"asking_price": "FHKST01010200",
		"daily_price":  "FHKST01010400",
		"minute_price": "FHKST03010200",
		"balance":      "VTTC8434R",
		"deposit":      "VTTC8908R",
		"buy":          "VTTC0802U",
		"sell":         "VTTC0801U",
		"orders":       "VTTC8001R",
	},
}

// KISBaseURL returns the API host matching the configured environment.
func KISBaseURL(cfg config.KIS) string {
	if cfg.IsProduction() {
		return kisProdBaseURL
	}
	return kisDevBaseURL
}

func kisTrID(cfg config.KIS, operation string) string {
	env := "dev"
	if cfg.IsProduction() {
		env = "prod"
	}
	return kisTrIDs[env][operation]
}

// kisError turns a non-zero rt_cd into a descriptive error.
func kisError(operation, rtCd, msg string) error {
	return fmt.Errorf("kis %s failed: rt_cd=%s msg=%s", operation, rtCd, msg)
}

// atoi64 parses KIS numeric string fields, which are occasionally empty.
func atoi64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(v)
}

func atof(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
