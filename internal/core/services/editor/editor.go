package editor

import (
	"fmt"
	"sync"

	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/static/errs"
)

var _ IEditor = (*Editor)(nil)

// Editor binds a code buffer to a loaded challenge. The language is always
// one of the challenge's allowed languages.
type Editor struct {
	mu        sync.RWMutex
	challenge *domain.Challenge
	language  domain.Language
	code      string
	dirty     bool
}

// New opens an editor on ch. The initial language is the first allowed
// language with starter code, falling back to the first allowed language.
func New(ch *domain.Challenge) (*Editor, error) {
	if ch == nil {
		return nil, errs.ErrChallengeNotLoaded
	}
	if len(ch.AllowedLanguages) == 0 {
		return nil, fmt.Errorf("challenge %s has no allowed languages", ch.ID)
	}

	lang := ch.AllowedLanguages[0]
	for _, l := range ch.AllowedLanguages {
		if _, ok := ch.StarterFor(l); ok {
			lang = l
			break
		}
	}

	e := &Editor{challenge: ch, language: lang}
	e.code, _ = ch.StarterFor(lang)
	return e, nil
}

func (e *Editor) Challenge() *domain.Challenge {
	return e.challenge
}

func (e *Editor) Language() domain.Language {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.language
}

func (e *Editor) Code() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.code
}

func (e *Editor) SetCode(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if code != e.code {
		e.code = code
		e.dirty = true
	}
}

func (e *Editor) ChangeLanguage(lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", errs.ErrUnknownLanguage, lang)
	}
	if !e.challenge.Allows(lang) {
		return fmt.Errorf("%w: %s", errs.ErrLanguageNotAllowed, lang)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.language = lang
	if starter, ok := e.challenge.StarterFor(lang); ok {
		e.code = starter
		e.dirty = false
	}
	return nil
}

func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if starter, ok := e.challenge.StarterFor(e.language); ok {
		e.code = starter
	} else {
		e.code = ""
	}
	e.dirty = false
}

func (e *Editor) Dirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dirty
}
