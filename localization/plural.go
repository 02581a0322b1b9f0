package localization

import (
	"strings"

	"golang.org/x/text/language"
)

// Pluralize returns word in the plural form for count, using the grammar of the locale's base language.
// German adds the dative "n" when relative is set ("vor 2 Tagen"). Unknown languages use English rules.
func Pluralize(locale string, count int, word string, relative bool) string {
	if count == 1 {
		return word
	}

	switch BaseLanguage(locale) {
	case "de":
		if !strings.HasSuffix(word, "e") {
			word += "e"
		}
		if relative {
			word += "n"
		}
		return word
	case "es":
		switch {
		case strings.HasSuffix(word, "ión"):
			return strings.TrimSuffix(word, "ión") + "iones"
		case strings.HasSuffix(word, "z"):
			return strings.TrimSuffix(word, "z") + "ces"
		default:
			return word + "s"
		}
	case "fr":
		if strings.HasSuffix(word, "al") {
			return word + "aux"
		}
		return word + "s"
	default:
		return word + "s"
	}
}

// BaseLanguage returns the lowercase ISO 639 code of locale, "de" for "de-AT" or "de_AT".
func BaseLanguage(locale string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if normalized == "" {
		return ""
	}

	tag, err := language.Parse(normalized)
	if err != nil {
		before, _, _ := strings.Cut(normalized, "-")
		return strings.ToLower(before)
	}

	base, _ := tag.Base()
	return base.String()
}
