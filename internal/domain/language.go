package domain

import (
	"fmt"
	"strings"
)

// Language is a closed set of language identifiers accepted by the execution service.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageCpp        Language = "cpp"
	LanguageC          Language = "c"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
	LanguageCSharp     Language = "csharp"
)

var knownLanguages = map[Language]struct{}{
	LanguageJavaScript: {},
	LanguageTypeScript: {},
	LanguagePython:     {},
	LanguageJava:       {},
	LanguageCpp:        {},
	LanguageC:          {},
	LanguageGo:         {},
	LanguageRust:       {},
	LanguageCSharp:     {},
}

var languageAliases = map[string]Language{
	"js":      LanguageJavaScript,
	"node":    LanguageJavaScript,
	"ts":      LanguageTypeScript,
	"py":      LanguagePython,
	"python3": LanguagePython,
	"c++":     LanguageCpp,
	"golang":  LanguageGo,
	"rs":      LanguageRust,
	"c#":      LanguageCSharp,
	"cs":      LanguageCSharp,
}

// ErrUnknownLanguage is returned by ParseLanguage for identifiers outside the known set.
var ErrUnknownLanguage = fmt.Errorf("unknown language")

// ParseLanguage normalizes a free-form identifier into a Language.
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if l, ok := languageAliases[key]; ok {
		return l, nil
	}
	l := Language(key)
	if _, ok := knownLanguages[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return l, nil
}

func (l Language) Valid() bool {
	_, ok := knownLanguages[l]
	return ok
}

func (l Language) String() string {
	return string(l)
}

// UnmarshalText normalizes languages coming off the wire.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
