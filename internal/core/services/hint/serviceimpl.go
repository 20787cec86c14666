package hint

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/core/services/editor"
	"gitlab.com/codebadge.net/internal/core/services/xp"
	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/static/errs"
)

const (
	Greeting      = "Hi! I'm your coding coach. Stuck? Ask me for a hint and I'll nudge you in the right direction."
	RequestText   = "Can I get a hint for my current code?"
	FallbackError = "Sorry, I couldn't generate a hint right now. Your XP has been refunded."
)

var _ IController = (*Controller)(nil)

// Controller owns one challenge session's hint conversation. Each accepted
// request debits the hint cost up front and settles the debit exactly once.
type Controller struct {
	challenges secondary.ChallengePort
	store      xp.IStore
	editor     editor.IEditor
	cfg        *config.SolverConfig
	logger     primary.Logger

	busy atomic.Bool

	mu    sync.Mutex
	turns []domain.Turn
}

// NewController creates a controller whose conversation starts with a greeting
func NewController(
	challenges secondary.ChallengePort,
	store xp.IStore,
	ed editor.IEditor,
	cfg *config.SolverConfig,
	logger primary.Logger,
) *Controller {
	return &Controller{
		challenges: challenges,
		store:      store,
		editor:     ed,
		cfg:        cfg,
		logger:     logger,
		turns:      []domain.Turn{domain.NewTurn(domain.RoleAssistant, Greeting)},
	}
}

func (c *Controller) RequestHint(ctx context.Context) (domain.Turn, bool) {
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Debug("Hint request ignored, another is in flight")
		return domain.Turn{}, false
	}
	defer c.busy.Store(false)

	ch := c.editor.Challenge()
	cost := c.cfg.HintCost

	tx := c.store.Begin(cost, fmt.Sprintf("hint for %s", ch.ID))
	if err := tx.Apply(); err != nil {
		balance := c.store.Balance()
		c.logger.Info("Hint rejected locally", "challengeId", ch.ID, "balance", balance, "cost", cost, "error", err)
		return c.append(domain.RoleAssistant, insufficientMessage(cost, balance)), true
	}
	c.append(domain.RoleUser, RequestText)

	req := domain.HintRequest{
		ChallengeID: ch.ID,
		Code:        c.editor.Code(),
		Language:    c.editor.Language(),
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		balance := tx.Rollback()
		c.logger.Error("Failed to get hint", "challengeId", ch.ID, "balance", balance, "error", err)
		return c.append(domain.RoleAssistant, errs.PublicMessage(err, FallbackError)), true
	}

	balance := tx.Commit(resp.RemainingPoints)
	c.logger.Info("Hint received", "challengeId", ch.ID, "balance", balance, "confirmed", resp.RemainingPoints != nil)
	return c.append(domain.RoleAssistant, resp.Hint), true
}

func (c *Controller) call(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
	if c.cfg.HintTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.HintTimeout)
		defer cancel()
	}
	return c.challenges.RequestHint(ctx, req)
}

func (c *Controller) append(role domain.Role, text string) domain.Turn {
	turn := domain.NewTurn(role, text)
	c.mu.Lock()
	c.turns = append(c.turns, turn)
	c.mu.Unlock()
	return turn
}

func (c *Controller) Conversation() []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Controller) Busy() bool {
	return c.busy.Load()
}

func (c *Controller) CanAfford() bool {
	return c.store.Balance() >= c.cfg.HintCost
}

func (c *Controller) Cost() int {
	return c.cfg.HintCost
}

func insufficientMessage(cost, balance int) string {
	return fmt.Sprintf("You need at least %d XP to ask for a hint. You currently have %d XP.", cost, balance)
}
