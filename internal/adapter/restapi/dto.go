package restapi

import (
	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/domain"
)

// challengeDTO is the wire form of a challenge. Languages stay raw strings so
// one unknown tag does not fail the whole decode.
type challengeDTO struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	Points           int               `json:"points"`
	AllowedLanguages []string          `json:"allowedLanguages"`
	StarterCode      []starterCodeDTO  `json:"starterCode"`
	Solved           bool              `json:"solved"`
}

type starterCodeDTO struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// toDomain normalizes languages, dropping unknown ones and their starter code
func (d *challengeDTO) toDomain(logger primary.Logger) *domain.Challenge {
	ch := &domain.Challenge{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  d.Difficulty,
		Points:      d.Points,
		Solved:      d.Solved,
	}
	for _, raw := range d.AllowedLanguages {
		lang, err := domain.ParseLanguage(raw)
		if err != nil {
			logger.Warn("Dropping unknown language", "challengeId", d.ID, "language", raw)
			continue
		}
		ch.AllowedLanguages = append(ch.AllowedLanguages, lang)
	}
	for _, sc := range d.StarterCode {
		lang, err := domain.ParseLanguage(sc.Language)
		if err != nil {
			logger.Warn("Dropping starter code for unknown language", "challengeId", d.ID, "language", sc.Language)
			continue
		}
		ch.StarterCode = append(ch.StarterCode, domain.StarterCode{Language: lang, Code: sc.Code})
	}
	return ch
}
