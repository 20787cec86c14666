package hint

import (
	"context"

	"gitlab.com/codebadge.net/internal/domain"
)

// IController runs the hint conversation and its XP debit/refund protocol
type IController interface {
	// RequestHint asks for a hint on the editor's current code and returns the
	// assistant's answer. ok is false when a request is already in flight.
	RequestHint(ctx context.Context) (turn domain.Turn, ok bool)

	// Conversation returns a copy of all turns so far
	Conversation() []domain.Turn

	Busy() bool

	// CanAfford reports whether the live balance covers one hint
	CanAfford() bool

	Cost() int
}
