package core

import "fmt"

// Language selects the language-specific behavior of the cleaner and
// the quality gate.
type Language string

const (
	// LanguageArabic enables Arabic script folding and the Arabic-block
	// script-ratio criterion.
	LanguageArabic Language = "ar"
	// LanguageEnglish enables NFC composition and the Latin-block
	// script-ratio criterion.
	LanguageEnglish Language = "en"
	// LanguageMixed applies no script-specific folding and skips the
	// script-ratio criterion.
	LanguageMixed Language = "mixed"
)

// ParseLanguage validates a language tag.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageArabic, LanguageEnglish, LanguageMixed:
		return Language(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}
