package secondary

import (
	"context"

	"gitlab.com/codebadge.net/internal/domain"
)

type LedgerRepository interface {
	// SaveEntry appends one balance mutation
	SaveEntry(ctx context.Context, entry *domain.LedgerEntry) error

	// ListEntries returns a user's entries, newest first
	ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error)
}
