package localization

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// SubstituteString replaces every {key} in s with the rendered value of vars[key].
// Placeholders without a matching variable are left as they are. Where two placeholders start at
// the same position the longer one wins.
func SubstituteString(s string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(s, "{") {
		return s
	}

	keys := slices.Sorted(maps.Keys(vars))
	slices.SortStableFunc(keys, func(a, b string) int { return cmp.Compare(len(b), len(a)) })

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", render(vars[k]))
	}

	return strings.NewReplacer(pairs...).Replace(s)
}

// Substitute applies SubstituteString to a string, or recursively to every value of a mapping or
// element of a sequence. Other values are returned unchanged. Structured input is copied, never mutated.
func Substitute(value any, vars Vars) any {
	switch v := value.(type) {
	case string:
		return SubstituteString(v, vars)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Substitute(item, vars)
		}
		return out
	case Table:
		return Table(Substitute(map[string]any(v), vars).(map[string]any))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Substitute(item, vars)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = SubstituteString(item, vars)
		}
		return out
	default:
		return value
	}
}

func render(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
