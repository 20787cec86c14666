package secondary

import (
	"context"

	"gitlab.com/codebadge.net/internal/domain"
)

// AuthPort is the identity side of the remote API
type AuthPort interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResponse, error)
	Me(ctx context.Context) (*domain.User, error)
}
