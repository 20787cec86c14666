package hint

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gitlab.com/codebadge.net/internal/adapter/logging"
	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/services/editor"
	"gitlab.com/codebadge.net/internal/core/services/xp"
	"gitlab.com/codebadge.net/internal/domain"
)

type fakePort struct {
	mu    sync.Mutex
	calls int
	last  domain.HintRequest
	hint  func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error)
}

func (f *fakePort) GetChallenge(ctx context.Context, id string) (*domain.Challenge, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePort) RandomChallenge(ctx context.Context) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakePort) Run(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePort) Submit(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePort) RequestHint(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
	f.mu.Lock()
	f.calls++
	f.last = req
	f.mu.Unlock()
	return f.hint(ctx, req)
}

func (f *fakePort) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func intPtr(v int) *int { return &v }

func newTestController(t *testing.T, port *fakePort, balance int) (*Controller, *xp.Store) {
	t.Helper()
	ed, err := editor.New(&domain.Challenge{
		ID:               "two-sum",
		AllowedLanguages: []domain.Language{domain.LanguageGo},
		StarterCode:      []domain.StarterCode{{Language: domain.LanguageGo, Code: "package main\n"}},
	})
	if err != nil {
		t.Fatalf("failed to create editor: %v", err)
	}
	cfg := &config.SolverConfig{HintCost: 5, DefaultAward: 10, HintTimeout: time.Second}
	store := xp.NewStore(domain.User{ID: "u1", Username: "ada", Points: balance})
	return NewController(port, store, ed, cfg, logging.NewNopLogger()), store
}

func roles(turns []domain.Turn) []domain.Role {
	out := make([]domain.Role, 0, len(turns))
	for _, t := range turns {
		out = append(out, t.Role)
	}
	return out
}

func equalRoles(a, b []domain.Role) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestConversationStartsWithGreeting(t *testing.T) {
	c, _ := newTestController(t, &fakePort{}, 0)

	turns := c.Conversation()
	if len(turns) != 1 || turns[0].Role != domain.RoleAssistant || turns[0].Text != Greeting {
		t.Errorf("unexpected seed conversation %+v", turns)
	}
}

func TestInsufficientBalanceIsRejectedLocally(t *testing.T) {
	port := &fakePort{hint: func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		t.Error("no network call expected")
		return nil, nil
	}}
	c, store := newTestController(t, port, 3)

	if c.CanAfford() {
		t.Error("balance 3 should not afford a hint costing 5")
	}
	turn, ok := c.RequestHint(context.Background())
	if !ok {
		t.Fatal("expected the request to be handled")
	}
	if turn.Role != domain.RoleAssistant {
		t.Errorf("expected an assistant turn, got %s", turn.Role)
	}
	if turn.Text != "You need at least 5 XP to ask for a hint. You currently have 3 XP." {
		t.Errorf("unexpected text %q", turn.Text)
	}
	if store.Balance() != 3 {
		t.Errorf("expected balance 3, got %d", store.Balance())
	}
	if port.Calls() != 0 {
		t.Errorf("expected no calls, got %d", port.Calls())
	}
	if got := roles(c.Conversation()); !equalRoles(got, []domain.Role{domain.RoleAssistant, domain.RoleAssistant}) {
		t.Errorf("unexpected conversation roles %v", got)
	}
}

func TestServerBalanceIsAuthoritative(t *testing.T) {
	var seen []int
	port := &fakePort{}
	c, store := newTestController(t, port, 20)
	store.Subscribe(func(ch xp.Change) { seen = append(seen, ch.After) })

	port.hint = func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		if store.Balance() != 15 {
			t.Errorf("expected optimistic debit to 15 before the response, got %d", store.Balance())
		}
		return &domain.HintResponse{Hint: "try two pointers", RemainingPoints: intPtr(15)}, nil
	}

	turn, ok := c.RequestHint(context.Background())
	if !ok {
		t.Fatal("expected the request to be handled")
	}
	if turn.Text != "try two pointers" || turn.Role != domain.RoleAssistant {
		t.Errorf("unexpected turn %+v", turn)
	}
	if store.Balance() != 15 {
		t.Errorf("expected balance 15, got %d", store.Balance())
	}
	want := []domain.Role{domain.RoleAssistant, domain.RoleUser, domain.RoleAssistant}
	if got := roles(c.Conversation()); !equalRoles(got, want) {
		t.Errorf("expected roles %v, got %v", want, got)
	}
	if len(seen) != 2 || seen[0] != 15 || seen[1] != 15 {
		t.Errorf("expected debit then confirmation notifications, got %v", seen)
	}
	if port.last.ChallengeID != "two-sum" || port.last.Language != domain.LanguageGo || port.last.Code != "package main\n" {
		t.Errorf("unexpected request %+v", port.last)
	}
}

func TestServerValueOverridesOptimisticDebit(t *testing.T) {
	port := &fakePort{hint: func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		return &domain.HintResponse{Hint: "check the edge case", RemainingPoints: intPtr(42)}, nil
	}}
	c, store := newTestController(t, port, 20)

	c.RequestHint(context.Background())
	if store.Balance() != 42 {
		t.Errorf("expected server balance 42, got %d", store.Balance())
	}
}

func TestMissingRemainingPointsKeepsDebit(t *testing.T) {
	port := &fakePort{hint: func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		return &domain.HintResponse{Hint: "think about sorting"}, nil
	}}
	c, store := newTestController(t, port, 20)

	c.RequestHint(context.Background())
	if store.Balance() != 15 {
		t.Errorf("expected balance 15, got %d", store.Balance())
	}
}

func TestFailureRollsBack(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{name: "network", err: errors.New("connection reset"), wantText: FallbackError},
		{name: "server message", err: &publicErr{msg: "Hint service is overloaded."}, wantText: "Hint service is overloaded."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &fakePort{}
			c, store := newTestController(t, port, 20)
			port.hint = func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
				if store.Balance() != 15 {
					t.Errorf("expected optimistic balance 15, got %d", store.Balance())
				}
				return nil, tt.err
			}

			turn, _ := c.RequestHint(context.Background())
			if turn.Text != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, turn.Text)
			}
			if store.Balance() != 20 {
				t.Errorf("expected rollback to 20, got %d", store.Balance())
			}
			want := []domain.Role{domain.RoleAssistant, domain.RoleUser, domain.RoleAssistant}
			if got := roles(c.Conversation()); !equalRoles(got, want) {
				t.Errorf("expected roles %v, got %v", want, got)
			}
			if c.Busy() {
				t.Error("busy flag not released")
			}
		})
	}
}

type publicErr struct{ msg string }

func (e *publicErr) Error() string         { return e.msg }
func (e *publicErr) PublicMessage() string { return e.msg }

func TestRollbackKeepsConcurrentCredit(t *testing.T) {
	port := &fakePort{}
	c, store := newTestController(t, port, 20)
	port.hint = func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		// a passing submit lands while the hint is in flight
		store.ApplyDelta(25, "solved two-sum")
		return nil, errors.New("boom")
	}

	c.RequestHint(context.Background())
	if store.Balance() != 45 {
		t.Errorf("expected 20 + 25 after rollback, got %d", store.Balance())
	}
}

func TestTimeoutRollsBack(t *testing.T) {
	port := &fakePort{hint: func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c, store := newTestController(t, port, 20)
	c.cfg.HintTimeout = 20 * time.Millisecond

	turn, _ := c.RequestHint(context.Background())
	if store.Balance() != 20 {
		t.Errorf("expected rollback to 20 after timeout, got %d", store.Balance())
	}
	if turn.Role != domain.RoleAssistant || turn.Text == "" {
		t.Errorf("expected an assistant apology, got %+v", turn)
	}
	if c.Busy() {
		t.Error("busy flag not released after timeout")
	}
}

func TestSecondRequestWhileBusyIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	port := &fakePort{hint: func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		close(started)
		<-release
		return &domain.HintResponse{Hint: "h", RemainingPoints: intPtr(15)}, nil
	}}
	c, store := newTestController(t, port, 20)

	done := make(chan struct{})
	go func() {
		c.RequestHint(context.Background())
		close(done)
	}()
	<-started

	if !c.Busy() {
		t.Fatal("expected controller to be busy")
	}
	if _, ok := c.RequestHint(context.Background()); ok {
		t.Error("expected second request to be dropped")
	}

	close(release)
	<-done
	if port.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", port.Calls())
	}
	if store.Balance() != 15 {
		t.Errorf("expected balance 15, got %d", store.Balance())
	}
	if n := len(c.Conversation()); n != 3 {
		t.Errorf("expected 3 turns, got %d", n)
	}
}

func TestRetryAfterFailureRechecksBalance(t *testing.T) {
	fail := true
	port := &fakePort{hint: func(ctx context.Context, req domain.HintRequest) (*domain.HintResponse, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &domain.HintResponse{Hint: "ok", RemainingPoints: intPtr(0)}, nil
	}}
	c, store := newTestController(t, port, 5)

	c.RequestHint(context.Background())
	if !c.CanAfford() {
		t.Fatal("rolled-back balance should afford a retry")
	}
	fail = false
	c.RequestHint(context.Background())
	if store.Balance() != 0 {
		t.Errorf("expected balance 0, got %d", store.Balance())
	}
	if c.CanAfford() {
		t.Error("empty balance should not afford another hint")
	}
}
