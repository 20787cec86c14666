package errs

import (
	"context"
	"errors"
)

// PublicError is implemented by errors that carry a message safe to show users
type PublicError interface {
	error
	PublicMessage() string
}

const timeoutMessage = "The request timed out. Please try again."

// PublicMessage returns the user-facing message carried by err, or fallback
func PublicMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutMessage
	}
	var pe PublicError
	if errors.As(err, &pe) && pe.PublicMessage() != "" {
		return pe.PublicMessage()
	}
	return fallback
}
