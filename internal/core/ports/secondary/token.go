package secondary

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenStore holds the session's access and refresh tokens
type TokenStore interface {
	// Load returns the stored token, or nil when nothing is stored
	Load(ctx context.Context) (*oauth2.Token, error)

	Save(ctx context.Context, token *oauth2.Token) error

	Clear(ctx context.Context) error
}
