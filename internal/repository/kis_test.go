package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"kis-trading/config"
	"kis-trading/pkg/httpclient"
	"kis-trading/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeHTTPClient struct {
	responses map[string]string
	requests  []string
}

func (f *fakeHTTPClient) respond(endpoint string, result interface{}) (*httpclient.BaseResponse, error) {
	f.requests = append(f.requests, endpoint)
	body, ok := f.responses[endpoint]
	if !ok {
		return &httpclient.BaseResponse{StatusCode: http.StatusNotFound}, nil
	}
	if result != nil {
		if err := json.Unmarshal([]byte(body), result); err != nil {
			return nil, err
		}
	}
	return &httpclient.BaseResponse{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

func (f *fakeHTTPClient) Get(_ context.Context, endpoint string, _ map[string]string, _ map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return f.respond(endpoint, result)
}

func (f *fakeHTTPClient) Post(_ context.Context, endpoint string, _ interface{}, _ map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return f.respond(endpoint, result)
}

type fakeCache struct {
	values map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]interface{})}
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) { c.values[key] = value }
func (c *fakeCache) Get(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}
func (c *fakeCache) Delete(key string) { delete(c.values, key) }
func (c *fakeCache) Flush()            { c.values = make(map[string]interface{}) }

func testKISConfig() *config.Config {
	return &config.Config{
		KIS: config.KIS{
			AppKey:      "key",
			AppSecret:   "secret",
			AccountNo:   "12345678-01",
			Environment: "dev",
		},
	}
}

func TestKISBaseURL(t *testing.T) {
	assert.Equal(t, kisDevBaseURL, KISBaseURL(config.KIS{Environment: "dev"}))
	assert.Equal(t, kisProdBaseURL, KISBaseURL(config.KIS{Environment: "prod"}))
}

func TestKISTrID(t *testing.T) {
	assert.Equal(t, "VTTC0802U", kisTrID(config.KIS{Environment: "dev"}, "buy"))
	assert.Equal(t, "TTTC0802U", kisTrID(config.KIS{Environment: "prod"}, "buy"))
	assert.Equal(t, "FHKST01010100", kisTrID(config.KIS{Environment: "dev"}, "price"))
}

func TestAtoi64(t *testing.T) {
	assert.Equal(t, int64(0), atoi64(""))
	assert.Equal(t, int64(0), atoi64("not a number"))
	assert.Equal(t, int64(70000), atoi64("70000"))
	assert.Equal(t, int64(70000), atoi64("70000.00"))
	assert.Equal(t, int64(-150), atoi64("-150"))
}

func TestKISAuthRepository_TokenCaching(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]string{
		kisTokenEndpoint: `{"access_token":"tok-1","token_type":"Bearer","expires_in":86400}`,
	}}
	auth := NewKISAuthRepository(testKISConfig(), logger.NewNop(), client, newFakeCache())

	headers, err := auth.Headers(context.Background(), "VTTC8434R")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", headers["authorization"])
	assert.Equal(t, "key", headers["appkey"])
	assert.Equal(t, "VTTC8434R", headers["tr_id"])

	// Second call reuses the cached token.
	_, err = auth.Headers(context.Background(), "VTTC8434R")
	require.NoError(t, err)
	assert.Len(t, client.requests, 1)

	// Clearing forces a re-issue.
	auth.ClearToken()
	_, err = auth.Headers(context.Background(), "VTTC8434R")
	require.NoError(t, err)
	assert.Len(t, client.requests, 2)
}

func TestKISStockRepository_GetPrice(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]string{
		kisTokenEndpoint: `{"access_token":"tok","expires_in":86400}`,
		kisPriceEndpoint: `{"rt_cd":"0","msg1":"ok","output":{
			"stck_prpr":"70000","prdy_vrss":"500","prdy_ctrt":"0.72",
			"stck_oprc":"69500","stck_hgpr":"70500","stck_lwpr":"69000","acml_vol":"1234567"}}`,
	}}
	cfg := testKISConfig()
	auth := NewKISAuthRepository(cfg, logger.NewNop(), client, newFakeCache())
	repo := NewKISStockRepository(cfg, logger.NewNop(), client, auth, rate.NewLimiter(rate.Inf, 1))

	price, err := repo.GetPrice(context.Background(), "005930")
	require.NoError(t, err)

	assert.Equal(t, "005930", price.StockCode)
	assert.Equal(t, int64(70000), price.CurrentPrice)
	assert.Equal(t, int64(500), price.ChangePrice)
	assert.InDelta(t, 0.72, price.ChangeRate, 0.0001)
	assert.Equal(t, int64(1234567), price.Volume)
}

func TestKISStockRepository_APIError(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]string{
		kisTokenEndpoint: `{"access_token":"tok","expires_in":86400}`,
		kisPriceEndpoint: `{"rt_cd":"1","msg1":"invalid symbol"}`,
	}}
	cfg := testKISConfig()
	auth := NewKISAuthRepository(cfg, logger.NewNop(), client, newFakeCache())
	repo := NewKISStockRepository(cfg, logger.NewNop(), client, auth, rate.NewLimiter(rate.Inf, 1))

	_, err := repo.GetPrice(context.Background(), "BOGUS")
	assert.ErrorContains(t, err, "invalid symbol")
}

func TestKISOrderRepository_RejectedOrderIsAResult(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]string{
		kisTokenEndpoint: `{"access_token":"tok","expires_in":86400}`,
		kisOrderEndpoint: `{"rt_cd":"1","msg1":"insufficient funds"}`,
	}}
	cfg := testKISConfig()
	auth := NewKISAuthRepository(cfg, logger.NewNop(), client, newFakeCache())
	repo := NewKISOrderRepository(cfg, logger.NewNop(), client, auth, rate.NewLimiter(rate.Inf, 1))

	result, err := repo.Buy(context.Background(), "005930", 10, 70000)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "insufficient funds", result.Message)
}

func TestKISAccountConfigSplit(t *testing.T) {
	cfg := testKISConfig()
	assert.Equal(t, "12345678", cfg.KIS.AccountPrefix())
	assert.Equal(t, "01", cfg.KIS.AccountSuffix())
}

func TestKISStockRepository_GetOrderBook(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]string{
		kisTokenEndpoint: `{"access_token":"tok","expires_in":86400}`,
		kisOrderBookEndpoint: `{"rt_cd":"0","msg1":"ok","output1":{
			"askp1":"70100","bidp1":"70000","askp_rsqn1":"1500","bidp_rsqn1":"2300",
			"total_askp_rsqn":"91000","total_bidp_rsqn":"88000"}}`,
	}}
	cfg := testKISConfig()
	auth := NewKISAuthRepository(cfg, logger.NewNop(), client, newFakeCache())
	repo := NewKISStockRepository(cfg, logger.NewNop(), client, auth, rate.NewLimiter(rate.Inf, 1))

	book, err := repo.GetOrderBook(context.Background(), "005930")
	require.NoError(t, err)

	assert.Equal(t, "005930", book.StockCode)
	assert.Equal(t, int64(70100), book.AskPrice)
	assert.Equal(t, int64(1500), book.AskQuantity)
	assert.Equal(t, int64(70000), book.BidPrice)
	assert.Equal(t, int64(2300), book.BidQuantity)
	assert.Equal(t, int64(91000), book.TotalAskQty)
	assert.Equal(t, int64(88000), book.TotalBidQty)
}

func TestKISHistoricalDataProvider_FiltersAndSorts(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]string{
		kisTokenEndpoint: `{"access_token":"tok","expires_in":86400}`,
		kisDailyPriceEndpoint: `{"rt_cd":"0","msg1":"ok","output":[
			{"stck_bsop_date":"20240105","stck_oprc":"100","stck_hgpr":"110","stck_lwpr":"90","stck_clpr":"105","acml_vol":"10"},
			{"stck_bsop_date":"20240104","stck_oprc":"100","stck_hgpr":"110","stck_lwpr":"90","stck_clpr":"104","acml_vol":"10"},
			{"stck_bsop_date":"20240103","stck_oprc":"100","stck_hgpr":"110","stck_lwpr":"90","stck_clpr":"103","acml_vol":"10"},
			{"stck_bsop_date":"20231229","stck_oprc":"100","stck_hgpr":"110","stck_lwpr":"90","stck_clpr":"102","acml_vol":"10"}]}`,
	}}
	cfg := testKISConfig()
	auth := NewKISAuthRepository(cfg, logger.NewNop(), client, newFakeCache())
	stock := NewKISStockRepository(cfg, logger.NewNop(), client, auth, rate.NewLimiter(rate.Inf, 1))
	provider := NewKISHistoricalDataProvider(stock)

	bars, err := provider.GetDailyData(context.Background(), "005930", "20240101", "20240104")
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, "20240103", bars[0].Date)
	assert.Equal(t, "20240104", bars[1].Date)
}
