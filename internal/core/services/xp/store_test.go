package xp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gitlab.com/codebadge.net/internal/adapter/logging"
	"gitlab.com/codebadge.net/internal/adapter/memory"
	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/static/errs"
)

func TestStoreMutations(t *testing.T) {
	s := NewStore(domain.User{ID: "u1", Points: 20})

	if got := s.ApplyDelta(25, "challenge solved"); got != 45 {
		t.Errorf("expected 45 after delta, got %d", got)
	}
	if got := s.Replace(15, "server"); got != 15 {
		t.Errorf("expected 15 after replace, got %d", got)
	}
	if got := s.ApplyDelta(-100, "penalty"); got != 0 {
		t.Errorf("expected balance clamped at 0, got %d", got)
	}
	if got := s.Replace(-3, "server"); got != 0 {
		t.Errorf("expected negative replace clamped at 0, got %d", got)
	}
}

func TestTryDebit(t *testing.T) {
	tests := []struct {
		name      string
		balance   int
		cost      int
		wantOK    bool
		wantAfter int
	}{
		{name: "covered", balance: 20, cost: 5, wantOK: true, wantAfter: 15},
		{name: "exact", balance: 5, cost: 5, wantOK: true, wantAfter: 0},
		{name: "short", balance: 3, cost: 5, wantOK: false, wantAfter: 3},
		{name: "negative cost", balance: 3, cost: -1, wantOK: false, wantAfter: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(domain.User{Points: tt.balance})
			before, ok := s.TryDebit(tt.cost, "hint")
			if ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if before != tt.balance {
				t.Errorf("expected before=%d, got %d", tt.balance, before)
			}
			if s.Balance() != tt.wantAfter {
				t.Errorf("expected balance %d, got %d", tt.wantAfter, s.Balance())
			}
		})
	}
}

func TestSubscribersSeeEveryChangeInOrder(t *testing.T) {
	s := NewStore(domain.User{Points: 10})
	var seen []int
	var readBack []int
	unsubscribe := s.Subscribe(func(c Change) {
		seen = append(seen, c.After)
		// Reading the store from a listener is allowed and sees the new value.
		readBack = append(readBack, s.Balance())
	})

	s.ApplyDelta(5, "a")
	s.Replace(40, "b")
	s.TryDebit(100, "rejected")
	unsubscribe()
	s.ApplyDelta(1, "after unsubscribe")

	want := []int{15, 40}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] || readBack[i] != want[i] {
			t.Errorf("change %d: expected %d, got %d (read back %d)", i, want[i], seen[i], readBack[i])
		}
	}
}

func TestTransactionCommitWithServerValue(t *testing.T) {
	s := NewStore(domain.User{Points: 20})
	tx := s.Begin(5, "hint")
	if err := tx.Apply(); err != nil {
		t.Fatalf("expected debit to apply, got %v", err)
	}
	if err := tx.Apply(); err == nil {
		t.Error("expected a second Apply to be refused")
	}
	if tx.Previous != 20 || s.Balance() != 15 {
		t.Fatalf("expected optimistic 15 from 20, got %d from %d", s.Balance(), tx.Previous)
	}

	server := 12
	if got := tx.Commit(&server); got != 12 {
		t.Errorf("expected server value 12, got %d", got)
	}
	// Settled transactions ignore further calls.
	if got := tx.Rollback(); got != 12 {
		t.Errorf("expected rollback after commit to be a no-op, got %d", got)
	}
}

func TestTransactionCommitWithoutServerValueKeepsDebit(t *testing.T) {
	s := NewStore(domain.User{Points: 20})
	tx := s.Begin(5, "hint")
	tx.Apply()
	if got := tx.Commit(nil); got != 15 {
		t.Errorf("expected debit to stand at 15, got %d", got)
	}
}

func TestTransactionRollbackIsExactInverse(t *testing.T) {
	s := NewStore(domain.User{Points: 20})
	tx := s.Begin(5, "hint")
	tx.Apply()
	if got := tx.Rollback(); got != 20 {
		t.Errorf("expected rollback to 20, got %d", got)
	}
	if got := tx.Rollback(); got != 20 {
		t.Errorf("expected second rollback to be a no-op, got %d", got)
	}
	if !tx.Settled() {
		t.Error("expected transaction to be settled")
	}
}

func TestTransactionRollbackKeepsInterleavedCredit(t *testing.T) {
	s := NewStore(domain.User{Points: 20})
	tx := s.Begin(5, "hint")
	tx.Apply()
	s.ApplyDelta(25, "challenge solved")

	if got := tx.Rollback(); got != 45 {
		t.Errorf("expected 20 + 25 after rollback, got %d", got)
	}
}

func TestTransactionApplyRejectedWhenShort(t *testing.T) {
	s := NewStore(domain.User{Points: 3})
	tx := s.Begin(5, "hint")
	if err := tx.Apply(); !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := tx.Rollback(); got != 3 {
		t.Errorf("expected rollback of an unapplied tx to leave 3, got %d", got)
	}
}

func TestConcurrentDeltasAreNotLost(t *testing.T) {
	s := NewStore(domain.User{Points: 0})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); s.ApplyDelta(10, "credit") }()
		go func() {
			defer wg.Done()
			tx := s.Begin(5, "hint")
			if tx.Apply() == nil {
				tx.Rollback()
			}
		}()
	}
	wg.Wait()
	if got := s.Balance(); got != 1000 {
		t.Errorf("expected 1000, got %d", got)
	}
}

func TestLedgerRecorder(t *testing.T) {
	s := NewStore(domain.User{ID: "u1", Points: 20})
	repo := memory.NewLedgerRepository()
	rec := NewLedgerRecorder(s, repo, logging.NewNopLogger())

	tx := s.Begin(5, "hint")
	tx.Apply()
	tx.Rollback()
	s.ApplyDelta(25, "challenge solved")
	rec.Close()

	entries, _ := repo.ListEntries(context.Background(), "u1", 0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Delta != 25 || entries[0].After != 45 {
		t.Errorf("unexpected newest entry %+v", entries[0])
	}
	if entries[1].Kind != domain.ChangeRollback || entries[1].Delta != 5 {
		t.Errorf("expected rollback entry, got %+v", entries[1])
	}
	if entries[2].Delta != -5 || entries[2].Before != 20 {
		t.Errorf("expected debit entry, got %+v", entries[2])
	}
}

func TestLedgerRecorderSkipsAnonymousChanges(t *testing.T) {
	s := NewStore(domain.User{})
	repo := memory.NewLedgerRepository()
	rec := NewLedgerRecorder(s, repo, logging.NewNopLogger())

	s.ApplyDelta(5, "before login")
	s.SetUser(domain.User{ID: "u1", Points: 20})
	s.SetUser(domain.User{})
	rec.Close()

	entries, _ := repo.ListEntries(context.Background(), "u1", 0)
	if len(entries) != 1 || entries[0].Kind != domain.ChangeUser {
		t.Errorf("expected only the login entry, got %+v", entries)
	}
	if anon, _ := repo.ListEntries(context.Background(), "", 0); len(anon) != 0 {
		t.Errorf("expected no anonymous entries, got %d", len(anon))
	}
}

func TestLedgerRecorderCloseDuringDelivery(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := NewStore(domain.User{ID: "u1", Points: 20})
		rec := NewLedgerRecorder(s, memory.NewLedgerRepository(), logging.NewNopLogger())

		entered := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		s.Subscribe(func(c Change) {
			once.Do(func() {
				close(entered)
				<-release
			})
		})

		applied := make(chan int)
		go func() { applied <- s.ApplyDelta(25, "challenge solved") }()
		<-entered

		rec.Close()
		close(release)

		if got := <-applied; got != 45 {
			t.Fatalf("expected balance 45, got %d", got)
		}
		// a later change must not reach the closed recorder
		s.ApplyDelta(-5, "hint")
		rec.Close()
	}
}
