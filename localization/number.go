package localization

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// snowflakeDigits is the shortest length of a Discord id.
const snowflakeDigits = 17

// FormatNumber prints n with the digit grouping of locale, "1,234" for en and "1.234" for de.
func FormatNumber(locale string, n int64) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("%d", n)
}

func (m *Manager) prepareVars(locale string, vars Vars) Vars {
	if !m.opts.localizeNumbers || len(vars) == 0 {
		return vars
	}

	out := make(Vars, len(vars))
	for k, v := range vars {
		n, ok := asInt64(v)
		if !ok || (m.opts.ignoreIDs && len(strconv.FormatInt(n, 10)) >= snowflakeDigits) {
			out[k] = v
			continue
		}
		out[k] = FormatNumber(locale, n)
	}
	return out
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}
