// Package session opens a challenge-solving workspace: the editor buffer plus
// the run/submit and hint controllers that share the user's XP store.
package session

import (
	"context"
	"fmt"

	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/core/services/editor"
	"gitlab.com/codebadge.net/internal/core/services/hint"
	"gitlab.com/codebadge.net/internal/core/services/solver"
	"gitlab.com/codebadge.net/internal/core/services/xp"
)

type Workspace struct {
	Editor *editor.Editor
	Solver *solver.Controller
	Hint   *hint.Controller
}

// Open loads challengeID and builds a workspace around it
func Open(
	ctx context.Context,
	challenges secondary.ChallengePort,
	store xp.IStore,
	cfg *config.SolverConfig,
	logger primary.Logger,
	challengeID string,
) (*Workspace, error) {
	ch, err := challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to open challenge %s: %w", challengeID, err)
	}
	ed, err := editor.New(ch)
	if err != nil {
		return nil, fmt.Errorf("failed to open challenge %s: %w", challengeID, err)
	}
	logger.Info("Challenge opened", "challengeId", ch.ID, "title", ch.Title, "language", ed.Language(), "solved", ch.Solved)

	return &Workspace{
		Editor: ed,
		Solver: solver.NewController(challenges, store, ed, cfg, logger),
		Hint:   hint.NewController(challenges, store, ed, cfg, logger),
	}, nil
}
