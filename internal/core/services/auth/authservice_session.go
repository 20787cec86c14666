package auth

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/codebadge.net/internal/adapter/crypto"
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/core/services/xp"
	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/static/errs"
)

var _ IAuthService = &sessionAuthService{}

type sessionAuthService struct {
	authPort secondary.AuthPort
	tokens   secondary.TokenStore
	decoder  primary.TokenDecoder
	store    xp.IStore
	logger   primary.Logger
}

func NewSessionAuthService(
	authPort secondary.AuthPort,
	tokens secondary.TokenStore,
	decoder primary.TokenDecoder,
	store xp.IStore,
	logger primary.Logger,
) IAuthService {
	return &sessionAuthService{
		authPort: authPort,
		tokens:   tokens,
		decoder:  decoder,
		store:    store,
		logger:   logger,
	}
}

func (s *sessionAuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, errs.InvalidCredentials
	}
	// a stale session must not be refreshed and replayed against the login endpoint
	if err := s.tokens.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear previous session: %w", err)
	}

	resp, err := s.authPort.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			s.logger.Warn("Login rejected", "username", username)
			return nil, errs.InvalidCredentials
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	tok := crypto.NewToken(s.decoder, resp.Token, resp.RefreshToken)
	if err := s.tokens.Save(ctx, tok); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	user, err := s.loadUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Logged in", "username", user.Username, "points", user.Points, "expiresAt", tok.Expiry)
	return user, nil
}

func (s *sessionAuthService) Logout(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.store.SetUser(domain.User{})
	s.logger.Info("Logged out")
	return nil
}

func (s *sessionAuthService) RestoreSession(ctx context.Context) (*domain.User, error) {
	tok, err := s.tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, errs.ErrNotLoggedIn
	}

	user, err := s.loadUser(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", errs.ErrNotLoggedIn, err)
		}
		return nil, err
	}
	s.logger.Debug("Session restored", "username", user.Username)
	return user, nil
}

func (s *sessionAuthService) loadUser(ctx context.Context) (*domain.User, error) {
	user, err := s.authPort.Me(ctx)
	if err != nil {
		s.logger.Error("Failed to load current user", "error", err)
		return nil, err
	}
	s.store.SetUser(*user)
	return user, nil
}
