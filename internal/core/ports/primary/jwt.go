package primary

import (
	"context"

	"golang.org/x/oauth2"

	"gitlab.com/codebadge.net/internal/domain"
)

// TokenDecoder reads claims out of access tokens issued by the identity service.
// The client holds no signing key, so claims are read without verification.
type TokenDecoder interface {
	DecodeClaims(token string) (domain.TokenClaims, error)
}

// TokenRefresher exchanges a refresh token for a new token pair
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}
