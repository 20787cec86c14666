// Package restapi implements the remote ports over the platform's REST API
package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/domain"
)

// Requester sends one JSON request. Implemented by internal/http.Client.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out interface{}) error
}

var _ secondary.ChallengePort = (*ChallengeService)(nil)

// ChallengeService is the typed challenge, execution and hint API
type ChallengeService struct {
	client Requester
	logger primary.Logger
}

func NewChallengeService(client Requester, logger primary.Logger) *ChallengeService {
	return &ChallengeService{
		client: client,
		logger: logger,
	}
}

// GetChallenge fetches and validates a challenge. Unknown languages are
// dropped with a warning rather than failing the fetch.
func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	var dto challengeDTO
	if err := s.client.Do(ctx, http.MethodGet, "/api/challenges/"+url.PathEscape(challengeID), nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get challenge %s: %w", challengeID, err)
	}
	ch := dto.toDomain(s.logger)
	if err := ch.Validate(); err != nil {
		s.logger.Error("Received invalid challenge", "challengeId", challengeID, "error", err)
		return nil, fmt.Errorf("invalid challenge %s: %w", challengeID, err)
	}
	return ch, nil
}

// RandomChallenge returns the ID of a random challenge
func (s *ChallengeService) RandomChallenge(ctx context.Context) (string, error) {
	var resp domain.RandomChallengeResponse
	if err := s.client.Do(ctx, http.MethodGet, "/api/challenges/random", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to get random challenge: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("random challenge response carried no id")
	}
	return resp.ID, nil
}

// Run executes code against the sample tests
func (s *ChallengeService) Run(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error) {
	return s.execute(ctx, "run", req)
}

// Submit executes code against the full suite
func (s *ChallengeService) Submit(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error) {
	return s.execute(ctx, "submit", req)
}

func (s *ChallengeService) execute(ctx context.Context, action string, req domain.RunRequest) (*domain.RunResponse, error) {
	s.logger.Debug("Executing code", "action", action, "challengeId", req.ChallengeID, "language", req.Language)

	var resp domain.RunResponse
	path := fmt.Sprintf("/api/challenges/%s/%s", url.PathEscape(req.ChallengeID), action)
	if err := s.client.Do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to %s code: %w", action, err)
	}
	if resp.Status == "" {
		return nil, fmt.Errorf("%s response carried no status", action)
	}
	return &resp, nil
}

// RequestHint asks the coaching service for a hint
func (s *ChallengeService) RequestHint(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
	var resp domain.HintResponse
	if err := s.client.Do(ctx, http.MethodPost, "/api/ai/hint", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to request hint: %w", err)
	}
	return &resp, nil
}
