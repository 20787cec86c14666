package editor

import "gitlab.com/codebadge.net/internal/domain"

// IEditor is the code buffer of one challenge-solving session
type IEditor interface {
	Challenge() *domain.Challenge
	Language() domain.Language
	Code() string

	// SetCode records a user edit
	SetCode(code string)

	// ChangeLanguage switches language, loading that language's starter code when it has one
	ChangeLanguage(lang domain.Language) error

	// Reset restores the starter code of the current language
	Reset()

	// Dirty reports whether the text was edited since the last language switch or reset
	Dirty() bool
}
