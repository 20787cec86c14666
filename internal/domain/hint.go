package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Turn is one message in the hint conversation
type Turn struct {
	ID   uuid.UUID
	Role Role
	Text string
	At   time.Time
}

// NewTurn creates a new conversation turn
func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:   uuid.New(),
		Role: role,
		Text: text,
		At:   time.Now(),
	}
}
