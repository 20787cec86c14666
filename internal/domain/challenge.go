package domain

import (
	"fmt"
)

// Difficulty represents how hard a challenge is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// StarterCode is the initial editor text for one language
type StarterCode struct {
	Language Language `json:"language"`
	Code     string   `json:"code"`
}

// Challenge represents a coding problem as served by the challenge API.
// It is immutable once loaded, apart from Solved.
type Challenge struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Difficulty       Difficulty    `json:"difficulty"`
	Points           int           `json:"points"`
	AllowedLanguages []Language    `json:"allowedLanguages"`
	StarterCode      []StarterCode `json:"starterCode"`
	Solved           bool          `json:"solved"`
}

// Validate checks the starter code invariants: one entry per language, and
// only for allowed languages.
func (c *Challenge) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("challenge id is required")
	}
	if len(c.AllowedLanguages) == 0 {
		return fmt.Errorf("challenge %s has no allowed languages", c.ID)
	}
	seen := make(map[Language]bool, len(c.StarterCode))
	for _, sc := range c.StarterCode {
		if seen[sc.Language] {
			return fmt.Errorf("challenge %s has duplicate starter code for %s", c.ID, sc.Language)
		}
		seen[sc.Language] = true
		if !c.Allows(sc.Language) {
			return fmt.Errorf("challenge %s has starter code for disallowed language %s", c.ID, sc.Language)
		}
	}
	return nil
}

// Allows reports whether lang is one of the challenge's allowed languages
func (c *Challenge) Allows(lang Language) bool {
	for _, l := range c.AllowedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// StarterFor returns the starter code for lang, if any
func (c *Challenge) StarterFor(lang Language) (string, bool) {
	for _, sc := range c.StarterCode {
		if sc.Language == lang {
			return sc.Code, true
		}
	}
	return "", false
}

// AwardPoints returns the challenge point value, or fallback when the
// challenge does not specify one.
func (c *Challenge) AwardPoints(fallback int) int {
	if c.Points > 0 {
		return c.Points
	}
	return fallback
}
