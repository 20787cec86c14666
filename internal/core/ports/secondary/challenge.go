package secondary

import (
	"context"

	"gitlab.com/codebadge.net/internal/domain"
)

// ChallengePort is the remote challenge API as seen by the controllers
type ChallengePort interface {
	// GetChallenge fetches a challenge by ID
	GetChallenge(ctx context.Context, challengeID string) (*domain.Challenge, error)

	// RandomChallenge returns the ID of a random challenge
	RandomChallenge(ctx context.Context) (string, error)

	// Run executes code against the sample tests
	Run(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error)

	// Submit executes code against the full test suite
	Submit(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error)

	// RequestHint asks the coaching service for a hint
	RequestHint(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error)
}
