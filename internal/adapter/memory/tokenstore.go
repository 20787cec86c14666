// Package memory holds in-process implementations of the secondary ports.
package memory

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"gitlab.com/codebadge.net/internal/core/ports/secondary"
)

var _ secondary.TokenStore = (*TokenStore)(nil)

// TokenStore keeps tokens in memory for the life of the process
type TokenStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, nil
	}
	cp := *s.token
	return &cp, nil
}

func (s *TokenStore) Save(ctx context.Context, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == nil {
		s.token = nil
		return nil
	}
	cp := *token
	s.token = &cp
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
