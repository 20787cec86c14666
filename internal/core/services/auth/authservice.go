package auth

import (
	"context"

	"gitlab.com/codebadge.net/internal/domain"
)

type IAuthService interface {
	// Login exchanges credentials for a session and loads the user into the XP store
	Login(ctx context.Context, username, password string) (*domain.User, error)

	// Logout forgets the stored session
	Logout(ctx context.Context) error

	// RestoreSession reloads the user of a stored session.
	// It returns errs.ErrNotLoggedIn when no session is stored.
	RestoreSession(ctx context.Context) (*domain.User, error)
}
