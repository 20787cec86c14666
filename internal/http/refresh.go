package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"gitlab.com/codebadge.net/internal/adapter/crypto"
	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/domain"
)

const refreshPath = "/api/auth/refresh"

var (
	_ primary.TokenRefresher = (*JSONRefresher)(nil)
	_ primary.TokenRefresher = (*OAuth2Refresher)(nil)
)

// JSONRefresher posts the refresh token to the platform's refresh endpoint
type JSONRefresher struct {
	baseURL    string
	httpClient *http.Client
	decoder    primary.TokenDecoder
}

func NewJSONRefresher(baseURL string, timeout time.Duration, decoder primary.TokenDecoder) *JSONRefresher {
	return &JSONRefresher{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		decoder:    decoder,
	}
}

// Refresh exchanges refreshToken for a new token pair
func (r *JSONRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	bodyJSON, err := json.Marshal(domain.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+refreshPath, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send refresh request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	defer resp.Body.Close()

	var login domain.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if login.Token == "" {
		return nil, fmt.Errorf("refresh response carried no token")
	}

	return crypto.NewToken(r.decoder, login.Token, login.RefreshToken), nil
}

// OAuth2Refresher uses the standard refresh_token grant against an OAuth2
// token endpoint.
type OAuth2Refresher struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewOAuth2Refresher(cfg *config.AuthConfig, timeout time.Duration) *OAuth2Refresher {
	return &OAuth2Refresher{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Refresh exchanges refreshToken through the OAuth2 token endpoint
func (r *OAuth2Refresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	tok, err := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh oauth2 token: %w", err)
	}
	return tok, nil
}

// NewRefresher picks the refresher matching the configured mode
func NewRefresher(apiCfg *config.ApiConfig, authCfg *config.AuthConfig, decoder primary.TokenDecoder) primary.TokenRefresher {
	if authCfg.RefreshMode == config.RefreshModeOAuth2 && authCfg.TokenURL != "" {
		return NewOAuth2Refresher(authCfg, apiCfg.Timeout)
	}
	return NewJSONRefresher(apiCfg.BaseURL, apiCfg.Timeout, decoder)
}
