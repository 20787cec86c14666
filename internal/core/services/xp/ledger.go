package xp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/domain"
)

const ledgerQueueSize = 64

// LedgerRecorder persists every balance change of a store. Writes happen on a
// background goroutine so listeners never block on the database.
type LedgerRecorder struct {
	repo        secondary.LedgerRepository
	logger      primary.Logger
	entries     chan *domain.LedgerEntry
	unsubscribe func()
	wg          sync.WaitGroup

	// mu orders sends against Close; a change delivered after Close is dropped
	mu     sync.Mutex
	closed bool
}

// NewLedgerRecorder subscribes to store and starts the writer
func NewLedgerRecorder(store IStore, repo secondary.LedgerRepository, logger primary.Logger) *LedgerRecorder {
	r := &LedgerRecorder{
		repo:    repo,
		logger:  logger,
		entries: make(chan *domain.LedgerEntry, ledgerQueueSize),
	}

	r.wg.Add(1)
	go r.run()

	r.unsubscribe = store.Subscribe(func(c Change) {
		// anonymous changes (logout, demo before login) have no owner to record against
		if c.User.ID == "" || (c.Kind == domain.ChangeUser && c.Before == c.After) {
			return
		}
		entry := &domain.LedgerEntry{
			ID:        uuid.New(),
			UserID:    c.User.ID,
			Kind:      c.Kind,
			Delta:     c.Delta,
			Before:    c.Before,
			After:     c.After,
			Reason:    c.Reason,
			CreatedAt: c.At,
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		r.entries <- entry
	})
	return r
}

func (r *LedgerRecorder) run() {
	defer r.wg.Done()
	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.repo.SaveEntry(ctx, entry); err != nil {
			r.logger.Error("Failed to record ledger entry", "entryId", entry.ID, "error", err)
		}
		cancel()
	}
}

// Close stops recording and waits for queued entries to be written
func (r *LedgerRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.unsubscribe()
	close(r.entries)
	r.mu.Unlock()

	r.wg.Wait()
}
