package errs

import (
	"errors"

	"gitlab.com/codebadge.net/internal/domain"
)

var ErrUnknownLanguage = domain.ErrUnknownLanguage

var (
	ErrLanguageNotAllowed  = errors.New("language not allowed for this challenge")
	ErrChallengeNotLoaded  = errors.New("no challenge loaded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoSuccessPrompt     = errors.New("no success prompt to resolve")
)
