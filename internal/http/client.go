package http

// outbound client for the platform API

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"gitlab.com/codebadge.net/internal/adapter/crypto"
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/static/errs"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the platform API
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Message)
}

// PublicMessage exposes the server's message to the user-facing layers
func (e *APIError) PublicMessage() string {
	return e.Message
}

// Client sends JSON requests to the platform API with the session's bearer
// token. A 401 triggers at most one token refresh and one replay.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     secondary.TokenStore
	refresher  primary.TokenRefresher
	decoder    primary.TokenDecoder
	logger     primary.Logger

	refreshGroup singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenDecoder sets the decoder used to fill expiry on refreshed tokens
func WithTokenDecoder(d primary.TokenDecoder) Option {
	return func(c *Client) {
		c.decoder = d
	}
}

// NewClient creates a new API client. refresher may be nil, in which case a
// 401 is returned to the caller as errs.ErrUnauthorized.
func NewClient(
	baseURL string,
	timeout time.Duration,
	tokens secondary.TokenStore,
	refresher primary.TokenRefresher,
	logger primary.Logger,
	opts ...Option,
) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		refresher:  refresher,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request with an optional JSON body and decodes a JSON answer into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	tok, err := c.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session tokens: %w", err)
	}

	resp, err := c.send(ctx, method, path, payload, tok)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		first := readAPIError(resp)
		c.logger.Debug("Request unauthorized, refreshing session", "method", method, "path", path)

		tok, err = c.renewToken(ctx, tok)
		if err != nil {
			_ = c.tokens.Clear(ctx)
			return fmt.Errorf("%w: %w", errs.ErrUnauthorized, errors.Join(first, err))
		}

		resp, err = c.send(ctx, method, path, payload, tok)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr := readAPIError(resp)
			c.logger.Warn("Request still unauthorized after refresh", "method", method, "path", path)
			_ = c.tokens.Clear(ctx)
			return fmt.Errorf("%w: %w", errs.ErrUnauthorized, apiErr)
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, tok *oauth2.Token) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != nil && tok.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}
	return resp, nil
}

// renewToken returns a token to replay with. If another request already
// refreshed the session, the stored token is reused instead of refreshing again.
func (c *Client) renewToken(ctx context.Context, used *oauth2.Token) (*oauth2.Token, error) {
	current, err := c.tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session tokens: %w", err)
	}
	if current != nil && current.AccessToken != "" && (used == nil || current.AccessToken != used.AccessToken) {
		return current, nil
	}
	if current == nil || current.RefreshToken == "" {
		return nil, errs.ErrNoRefreshToken
	}
	if c.refresher == nil {
		return nil, errs.ErrRefreshFailed
	}

	refreshToken := current.RefreshToken
	v, err, _ := c.refreshGroup.Do(refreshToken, func() (interface{}, error) {
		// A flight for the same refresh token may have finished just before this one started.
		if stored, err := c.tokens.Load(ctx); err == nil && stored != nil && stored.RefreshToken != refreshToken && stored.AccessToken != "" {
			return stored, nil
		}
		fresh, err := c.refresher.Refresh(ctx, refreshToken)
		if err != nil {
			c.logger.Error("Failed to refresh session", "error", err)
			return nil, fmt.Errorf("%w: %w", errs.ErrRefreshFailed, err)
		}
		if fresh.RefreshToken == "" {
			fresh.RefreshToken = refreshToken
		}
		if fresh.Expiry.IsZero() {
			fresh.Expiry = crypto.NewToken(c.decoder, fresh.AccessToken, "").Expiry
		}
		if err := c.tokens.Save(ctx, fresh); err != nil {
			return nil, fmt.Errorf("failed to save refreshed tokens: %w", err)
		}
		c.logger.Info("Session refreshed")
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

func readAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(data) == 0 {
		return apiErr
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
