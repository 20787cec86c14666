package solver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/core/services/editor"
	"gitlab.com/codebadge.net/internal/core/services/xp"
	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/static/errs"
)

const genericRunError = "Something went wrong while running your code. Please try again."

var _ IController = (*Controller)(nil)

// Controller serializes run/submit calls with a busy flag: a call made while
// another is in flight is dropped, never queued.
type Controller struct {
	challenges secondary.ChallengePort
	store      xp.IStore
	editor     editor.IEditor
	cfg        *config.SolverConfig
	logger     primary.Logger

	busy atomic.Bool

	mu            sync.Mutex
	state         State
	console       ConsoleView
	result        *domain.TestResult
	prompt        *SuccessPrompt
	solvedAtLoad  bool
	solvedSession bool
}

// NewController creates a controller for the challenge loaded in ed
func NewController(
	challenges secondary.ChallengePort,
	store xp.IStore,
	ed editor.IEditor,
	cfg *config.SolverConfig,
	logger primary.Logger,
) *Controller {
	return &Controller{
		challenges:   challenges,
		store:        store,
		editor:       ed,
		cfg:          cfg,
		logger:       logger,
		state:        StateIdle,
		console:      ConsoleTestcases,
		solvedAtLoad: ed.Challenge().Solved,
	}
}

func (c *Controller) RunOrSubmit(ctx context.Context, mode Mode) Outcome {
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Debug("Run ignored, another call is in flight", "mode", mode)
		return Outcome{State: StateRunning, Skipped: true}
	}
	defer c.busy.Store(false)

	ch := c.editor.Challenge()
	req := domain.RunRequest{
		ChallengeID: ch.ID,
		Language:    c.editor.Language(),
		Code:        c.editor.Code(),
	}

	c.mu.Lock()
	c.state = StateRunning
	c.console = ConsoleResult
	c.prompt = nil
	c.mu.Unlock()

	c.logger.Info("Running code", "challengeId", ch.ID, "language", req.Language, "mode", mode)

	resp, err := c.call(ctx, mode, req)
	if err != nil {
		c.logger.Error("Failed to run code", "challengeId", ch.ID, "mode", mode, "error", err)
		result := domain.NewErrorResult(errs.PublicMessage(err, genericRunError))
		c.mu.Lock()
		c.state = StateErrored
		c.result = result
		c.mu.Unlock()
		return Outcome{State: StateErrored, Result: result}
	}

	result := &domain.TestResult{
		Status:     resp.Status,
		Cases:      resp.Results,
		Message:    resp.Message,
		ReceivedAt: time.Now(),
	}
	if !result.Passed() {
		c.mu.Lock()
		c.state = StateFailed
		c.result = result
		c.mu.Unlock()
		c.logger.Info("Tests failed", "challengeId", ch.ID, "status", result.Status, "passed", result.PassedCount(), "total", len(result.Cases))
		return Outcome{State: StateFailed, Result: result}
	}

	awarded := 0
	if !(c.cfg.SkipAwardWhenSolved && c.solvedAtLoad) {
		awarded = ch.AwardPoints(c.cfg.DefaultAward)
		balance := c.store.ApplyDelta(awarded, fmt.Sprintf("solved %s", ch.ID))
		c.logger.Info("Challenge solved", "challengeId", ch.ID, "awarded", awarded, "balance", balance)
	} else {
		c.logger.Info("Challenge solved again, no award", "challengeId", ch.ID)
	}

	prompt := &SuccessPrompt{
		ChallengeID: ch.ID,
		Awarded:     awarded,
		Choices:     []SuccessChoice{ChoiceNextRandom, ChoiceDashboard, ChoiceStay},
	}

	c.mu.Lock()
	c.state = StatePassed
	c.result = result
	c.prompt = prompt
	c.solvedSession = true
	c.mu.Unlock()

	return Outcome{State: StatePassed, Result: result, Awarded: awarded, Success: prompt}
}

func (c *Controller) call(ctx context.Context, mode Mode, req domain.RunRequest) (*domain.RunResponse, error) {
	if c.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RunTimeout)
		defer cancel()
	}
	switch mode {
	case ModeSubmit:
		return c.challenges.Submit(ctx, req)
	case ModeRun:
		return c.challenges.Run(ctx, req)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Busy() bool {
	return c.busy.Load()
}

func (c *Controller) Console() ConsoleView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.console
}

func (c *Controller) ShowTestcases() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.console = ConsoleTestcases
}

func (c *Controller) Result() *domain.TestResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) SuccessPrompt() *SuccessPrompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

// Solved reports whether the challenge was solved before or during this session
func (c *Controller) Solved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.solvedAtLoad || c.solvedSession
}

func (c *Controller) ResolveSuccess(ctx context.Context, choice SuccessChoice) (Navigation, error) {
	c.mu.Lock()
	prompt := c.prompt
	c.mu.Unlock()
	if prompt == nil {
		return Navigation{}, errs.ErrNoSuccessPrompt
	}

	var nav Navigation
	switch choice {
	case ChoiceStay:
	case ChoiceDashboard:
		nav = Navigation{Route: DashboardRoute}
	case ChoiceNextRandom:
		id, err := c.challenges.RandomChallenge(ctx)
		if err != nil {
			c.logger.Error("Failed to pick a random challenge", "error", err)
			return Navigation{}, fmt.Errorf("failed to pick next challenge: %w", err)
		}
		nav = Navigation{Route: "/challenges/" + id, ChallengeID: id}
	default:
		return Navigation{}, fmt.Errorf("unknown success choice %q", choice)
	}

	c.mu.Lock()
	if c.prompt == prompt {
		c.prompt = nil
	}
	c.mu.Unlock()
	return nav, nil
}
