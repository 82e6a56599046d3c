package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kis-trading/config"
	"kis-trading/internal/dto"
	"kis-trading/pkg/cache"
	"kis-trading/pkg/httpclient"
	"kis-trading/pkg/logger"
)

const kisTokenCacheKey = "kis:access_token"

// KISAuthRepository issues and caches the KIS open API access token and
// builds the authenticated header set expected by every other endpoint.
type KISAuthRepository interface {
	Headers(ctx context.Context, trID string) (map[string]string, error)
	ClearToken()
}

type kisAuthRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient httpclient.HTTPClient
	cache      cache.Cache
}

func NewKISAuthRepository(cfg *config.Config, log *logger.Logger, httpClient httpclient.HTTPClient, c cache.Cache) KISAuthRepository {
	return &kisAuthRepository{
		cfg:        cfg,
		log:        log,
		httpClient: httpClient,
		cache:      c,
	}
}

// Headers returns the full header set for an authenticated KIS call.
func (r *kisAuthRepository) Headers(ctx context.Context, trID string) (map[string]string, error) {
	token, err := r.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"authorization": "Bearer " + token,
		"appkey":        r.cfg.KIS.AppKey,
		"appsecret":     r.cfg.KIS.AppSecret,
		"tr_id":         trID,
	}, nil
}

// ClearToken drops the cached token, forcing a re-issue on the next call.
func (r *kisAuthRepository) ClearToken() {
	r.cache.Delete(kisTokenCacheKey)
}

func (r *kisAuthRepository) accessToken(ctx context.Context) (string, error) {
	if token, ok := r.cache.Get(kisTokenCacheKey); ok {
		if s, ok := token.(string); ok && s != "" {
			return s, nil
		}
	}

	body := dto.KISTokenRequest{
		GrantType: "client_credentials",
		AppKey:    r.cfg.KIS.AppKey,
		AppSecret: r.cfg.KIS.AppSecret,
	}

	var tokenResp dto.KISTokenResponse
	resp, err := r.httpClient.Post(ctx, kisTokenEndpoint, body, nil, &tokenResp)
	if err != nil {
		return "", fmt.Errorf("failed to request kis access token: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kis token endpoint returned status %d: %s", resp.StatusCode, string(resp.Body))
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("kis token endpoint returned an empty token")
	}

	// Expire slightly early so a token is never used at its deadline.
	ttl := time.Duration(tokenResp.ExpiresIn) * time.Second
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	r.cache.Set(kisTokenCacheKey, tokenResp.AccessToken, ttl)

	r.log.InfoContext(ctx, "Issued new KIS access token",
		logger.Field("expires_in", tokenResp.ExpiresIn))

	return tokenResp.AccessToken, nil
}
