package restapi

import (
	"context"
	"fmt"
	"net/http"

	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/domain"
)

var _ secondary.AuthPort = (*AuthService)(nil)

// AuthService talks to the identity endpoints
type AuthService struct {
	client Requester
}

func NewAuthService(client Requester) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := s.client.Do(ctx, http.MethodPost, "/api/auth/login", domain.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &resp, nil
}

// Me fetches the current user's profile
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.client.Do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &user, nil
}
