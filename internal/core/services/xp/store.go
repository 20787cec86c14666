package xp

import (
	"sync"
	"time"

	"gitlab.com/codebadge.net/internal/domain"
)

var _ IStore = (*Store)(nil)

// Store is the shared user/XP cell. Every mutation is computed against the
// live value under the lock, so concurrent controllers never lose updates.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	user      domain.User
	listeners map[int]Listener
	nextID    int
}

func NewStore(user domain.User) *Store {
	if user.Points < 0 {
		user.Points = 0
	}
	return &Store{
		user:      user,
		listeners: make(map[int]Listener),
	}
}

func (s *Store) User() domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Points
}

func (s *Store) SetUser(user domain.User) {
	if user.Points < 0 {
		user.Points = 0
	}
	s.mutate(domain.ChangeUser, "user loaded", func(current domain.User) (domain.User, bool) {
		return user, true
	})
}

func (s *Store) ApplyDelta(delta int, reason string) int {
	return s.applyDelta(domain.ChangeDelta, delta, reason)
}

func (s *Store) applyDelta(kind domain.ChangeKind, delta int, reason string) int {
	c, _ := s.mutate(kind, reason, func(current domain.User) (domain.User, bool) {
		current.Points += delta
		if current.Points < 0 {
			current.Points = 0
		}
		return current, true
	})
	return c.After
}

func (s *Store) Replace(value int, reason string) int {
	if value < 0 {
		value = 0
	}
	c, _ := s.mutate(domain.ChangeReplace, reason, func(current domain.User) (domain.User, bool) {
		current.Points = value
		return current, true
	})
	return c.After
}

func (s *Store) TryDebit(cost int, reason string) (int, bool) {
	c, ok := s.mutate(domain.ChangeDelta, reason, func(current domain.User) (domain.User, bool) {
		if cost < 0 || current.Points < cost {
			return current, false
		}
		current.Points -= cost
		return current, true
	})
	return c.Before, ok
}

func (s *Store) Begin(cost int, reason string) *Transaction {
	return &Transaction{store: s, cost: cost, reason: reason}
}

func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// mutate applies fn to the live user and, when fn accepts, notifies every
// listener before returning. notifyMu keeps delivery in mutation order.
func (s *Store) mutate(kind domain.ChangeKind, reason string, fn func(domain.User) (domain.User, bool)) (Change, bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	before := s.user
	next, ok := fn(before)
	if !ok {
		s.mu.Unlock()
		return Change{Kind: kind, Before: before.Points, After: before.Points, User: before}, false
	}
	s.user = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	c := Change{
		Kind:   kind,
		Before: before.Points,
		After:  next.Points,
		Delta:  next.Points - before.Points,
		Reason: reason,
		User:   next,
		At:     time.Now(),
	}
	for _, l := range listeners {
		l(c)
	}
	return c, true
}
