package xp

import (
	"errors"
	"fmt"
	"sync"

	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/static/errs"
)

var errTxStarted = errors.New("transaction already applied or settled")

type txState int

const (
	txPending txState = iota
	txApplied
	txSettled
)

// Transaction is an optimistic debit that must be settled exactly once,
// either by Commit or by Rollback.
type Transaction struct {
	mu       sync.Mutex
	store    *Store
	cost     int
	reason   string
	state    txState
	Previous int
}

// Apply debits the cost from the live balance. It returns
// errs.ErrInsufficientBalance, leaving the balance untouched, when the
// balance does not cover the cost.
func (t *Transaction) Apply() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != txPending {
		return errTxStarted
	}
	before, ok := t.store.TryDebit(t.cost, t.reason)
	if !ok {
		return fmt.Errorf("%w: have %d, need %d", errs.ErrInsufficientBalance, before, t.cost)
	}
	t.Previous = before
	t.state = txApplied
	return nil
}

// Commit settles the debit. A non-nil serverValue is authoritative and
// replaces the balance; otherwise the optimistic debit stands.
func (t *Transaction) Commit(serverValue *int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != txApplied {
		return t.store.Balance()
	}
	t.state = txSettled
	if serverValue != nil {
		return t.store.Replace(*serverValue, t.reason+" confirmed")
	}
	return t.store.Balance()
}

// Rollback reverses the debit by adding the cost back to the live balance.
func (t *Transaction) Rollback() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != txApplied {
		return t.store.Balance()
	}
	t.state = txSettled
	return t.store.applyDelta(domain.ChangeRollback, t.cost, t.reason+" refunded")
}

// Settled reports whether Commit or Rollback has run
func (t *Transaction) Settled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == txSettled
}
