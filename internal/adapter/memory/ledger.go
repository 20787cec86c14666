package memory

import (
	"context"
	"sync"

	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/domain"
)

var _ secondary.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository keeps ledger entries in memory
type LedgerRepository struct {
	mu      sync.Mutex
	entries []*domain.LedgerEntry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) SaveEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *LedgerRepository) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.LedgerEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		cp := *r.entries[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
