package errs

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoRefreshToken  = errors.New("no refresh token stored")
	ErrRefreshFailed   = errors.New("failed to refresh session")
	ErrNotLoggedIn     = errors.New("not logged in")
	InvalidCredentials = errors.New("invalid credentials")
)
