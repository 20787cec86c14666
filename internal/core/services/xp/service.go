package xp

import (
	"time"

	"gitlab.com/codebadge.net/internal/domain"
)

// Change describes one mutation of the shared user record
type Change struct {
	Kind   domain.ChangeKind
	Before int
	After  int
	Delta  int
	Reason string
	User   domain.User
	At     time.Time
}

// Listener receives every change synchronously, in mutation order.
// Listeners may read the store but must not mutate it.
type Listener func(Change)

// IStore is the single mutation surface for the session's user and XP balance
type IStore interface {
	// User returns a copy of the current user
	User() domain.User

	// Balance returns the live point balance
	Balance() int

	// SetUser replaces the whole user record, e.g. after login or a profile fetch
	SetUser(user domain.User)

	// ApplyDelta adds delta to the live balance and returns the new balance
	ApplyDelta(delta int, reason string) int

	// Replace sets the balance to a server-confirmed value
	Replace(value int, reason string) int

	// TryDebit subtracts cost only if the live balance covers it
	TryDebit(cost int, reason string) (before int, ok bool)

	// Begin starts an optimistic debit of cost
	Begin(cost int, reason string) *Transaction

	// Subscribe registers a listener; the returned func removes it
	Subscribe(l Listener) (unsubscribe func())
}
