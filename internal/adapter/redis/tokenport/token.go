package tokenport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/oauth2"

	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
)

const tokenKeyPrefix = "session:tokens:"

var _ secondary.TokenStore = (*TokenRepository)(nil)

// TokenRepository implements the TokenStore interface with Redis
type TokenRepository struct {
	redisClient redis.Cmdable
	logger      primary.Logger
	key         string
	ttl         time.Duration
}

// NewTokenRepository creates a Redis token store scoped to one namespace.
// A zero ttl stores tokens without expiration.
func NewTokenRepository(redisClient redis.Cmdable, logger primary.Logger, namespace string, ttl time.Duration) *TokenRepository {
	return &TokenRepository{
		redisClient: redisClient,
		logger:      logger,
		key:         tokenKeyPrefix + namespace,
		ttl:         ttl,
	}
}

// storedToken is the JSON layout kept in Redis
type storedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Load retrieves the session tokens from Redis
func (r *TokenRepository) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := r.redisClient.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load session tokens", "error", err)
		return nil, fmt.Errorf("failed to load session tokens: %w", err)
	}

	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		r.logger.Error("Failed to unmarshal session tokens", "error", err)
		return nil, fmt.Errorf("failed to unmarshal session tokens: %w", err)
	}

	return &oauth2.Token{
		AccessToken:  st.AccessToken,
		RefreshToken: st.RefreshToken,
		TokenType:    st.TokenType,
		Expiry:       st.Expiry,
	}, nil
}

// Save writes the session tokens to Redis
func (r *TokenRepository) Save(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return r.Clear(ctx)
	}

	data, err := json.Marshal(storedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	})
	if err != nil {
		r.logger.Error("Failed to marshal session tokens", "error", err)
		return fmt.Errorf("failed to marshal session tokens: %w", err)
	}

	if err := r.redisClient.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session tokens", "error", err)
		return fmt.Errorf("failed to save session tokens: %w", err)
	}

	return nil
}

// Clear removes the session tokens from Redis
func (r *TokenRepository) Clear(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, r.key).Err(); err != nil {
		r.logger.Error("Failed to clear session tokens", "error", err)
		return fmt.Errorf("failed to clear session tokens: %w", err)
	}
	return nil
}
