package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeKind is how a balance mutation was expressed
type ChangeKind string

const (
	ChangeDelta    ChangeKind = "delta"
	ChangeReplace  ChangeKind = "replace"
	ChangeRollback ChangeKind = "rollback"
	ChangeUser     ChangeKind = "user"
)

// LedgerEntry records one XP balance mutation
type LedgerEntry struct {
	ID        uuid.UUID  `db:"id"`
	UserID    string     `db:"user_id"`
	Kind      ChangeKind `db:"kind"`
	Delta     int        `db:"delta"`
	Before    int        `db:"balance_before"`
	After     int        `db:"balance_after"`
	Reason    string     `db:"reason"`
	CreatedAt time.Time  `db:"created_at"`
}

type LedgerTable struct {
	ID        string
	UserID    string
	Kind      string
	Delta     string
	Before    string
	After     string
	Reason    string
	CreatedAt string
}

func GetLedgerTable() LedgerTable {
	return LedgerTable{
		ID:        "id",
		UserID:    "user_id",
		Kind:      "kind",
		Delta:     "delta",
		Before:    "balance_before",
		After:     "balance_after",
		Reason:    "reason",
		CreatedAt: "created_at",
	}
}

func (LedgerTable) TableName() string {
	return "xp_ledger"
}
