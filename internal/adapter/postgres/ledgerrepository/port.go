// Package ledgerrepository stores the XP ledger in PostgreSQL
package ledgerrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/domain"
	querybuilder "gitlab.com/codebadge.net/internal/utils"
)

var _ secondary.LedgerRepository = (*LedgerRepository)(nil)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS %s.xp_ledger (
		id             UUID PRIMARY KEY,
		user_id        TEXT NOT NULL,
		kind           TEXT NOT NULL,
		delta          INTEGER NOT NULL,
		balance_before INTEGER NOT NULL,
		balance_after  INTEGER NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS xp_ledger_user_created_idx ON %s.xp_ledger (user_id, created_at DESC);
`

// LedgerRepository implements the LedgerRepository interface with PostgreSQL
type LedgerRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(db *sqlx.DB, logger primary.Logger, schema string) *LedgerRepository {
	if schema == "" {
		schema = "public"
	}
	return &LedgerRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// Migrate creates the ledger table when it does not exist
func (r *LedgerRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(createTableQuery, r.schema, r.schema)); err != nil {
		r.logger.Error("Failed to create ledger table", "error", err)
		return fmt.Errorf("failed to create ledger table: %w", err)
	}
	return nil
}

// SaveEntry inserts one ledger entry
func (r *LedgerRepository) SaveEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	tbl := domain.GetLedgerTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.ID, tbl.UserID, tbl.Kind, tbl.Delta, tbl.Before, tbl.After, tbl.Reason, tbl.CreatedAt).
		Into(tbl.TableName()).
		Values(entry.ID, entry.UserID, entry.Kind, entry.Delta, entry.Before, entry.After, entry.Reason, entry.CreatedAt).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save ledger entry", "entryId", entry.ID, "error", err)
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}

	return nil
}

// ListEntries returns a user's most recent ledger entries
func (r *LedgerRepository) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	tbl := domain.GetLedgerTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.UserID, tbl.Kind, tbl.Delta, tbl.Before, tbl.After, tbl.Reason, tbl.CreatedAt).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.UserID), userID).
		OrderBy(tbl.CreatedAt, false).
		Limit(limit).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var entries []*domain.LedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		r.logger.Error("Failed to list ledger entries", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return entries, nil
}
