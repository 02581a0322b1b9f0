package localization

import (
	"sort"
)

// MissingKey lists the dotted keys a locale lacks compared to the fallback locale.
type MissingKey struct {
	Locale string
	Keys   []string
}

// CheckLocalizations compares every registered locale with the fallback locale.
func (m *Manager) CheckLocalizations() []MissingKey {
	fallback := m.tables[m.opts.fallbackLocale]

	var result []MissingKey
	for _, locale := range m.locales {
		if locale == m.opts.fallbackLocale {
			continue
		}
		if missing := FindMissingKeys(fallback, m.tables[locale]); len(missing) > 0 {
			result = append(result, MissingKey{Locale: locale, Keys: missing})
		}
	}
	return result
}

// FindMissingKeys returns the dotted paths present in reference but absent from current.
// Only mappings are descended into; a missing mapping is reported once, not per leaf.
func FindMissingKeys(reference, current Table) []string {
	var missing []string

	var explore func(ref, cur map[string]any, prefix string)
	explore = func(ref, cur map[string]any, prefix string) {
		for key, value := range ref {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}

			existing, ok := cur[key]
			if !ok {
				missing = append(missing, path)
				continue
			}

			refMap, refIsMap := asMap(value)
			curMap, curIsMap := asMap(existing)
			if refIsMap && curIsMap {
				explore(refMap, curMap, path)
			}
		}
	}

	explore(map[string]any(reference), map[string]any(current), "")
	sort.Strings(missing)
	return missing
}
