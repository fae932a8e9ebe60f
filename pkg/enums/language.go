package enums

import "fmt"

// Language is a spoken language a customer may list.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageSpanish Language = "Spanish"
	LanguageFrench  Language = "French"
	LanguageGerman  Language = "German"
	LanguageChinese Language = "Chinese"
	LanguageHindi   Language = "Hindi"
)

var validLanguages = []Language{
	LanguageEnglish,
	LanguageSpanish,
	LanguageFrench,
	LanguageGerman,
	LanguageChinese,
	LanguageHindi,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Language.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLanguage converts raw input into a Language.
func ParseLanguage(value string) (Language, error) {
	for _, candidate := range validLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid language %q", value)
}

// Languages returns every known Language in declaration order.
func Languages() []Language {
	return append([]Language(nil), validLanguages...)
}
