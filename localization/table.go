package localization

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// GeneralSection is the namespace segment shared by every file or command.
const GeneralSection = "general"

// Table is the nested translation tree of a single locale.
type Table map[string]any

// Localizations maps a locale code to its table.
type Localizations map[string]Table

// Vars holds per call substitution variables.
type Vars map[string]any

// UnmarshalFunc decodes a language document into a table.
type UnmarshalFunc func(data []byte, v any) error

var decoders = map[string]UnmarshalFunc{
	".json": json.Unmarshal,
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".toml": toml.Unmarshal,
}

// Extensions lists the file extensions understood by Decode, in lookup order.
func Extensions() []string {
	return []string{".json", ".yaml", ".yml", ".toml"}
}

// Decode parses a language document. The decoder is picked by the file extension of name.
func Decode(name string, data []byte) (Table, error) {
	ext := strings.ToLower(path.Ext(name))
	unmarshal, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported language file extension %q", ext)
	}

	raw := map[string]any{}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	return Table(normalize(raw).(map[string]any)), nil
}

// LoadDir reads every <locale>.<ext> file at the top level of fsys.
func LoadDir(fsys fs.FS) (Localizations, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	result := Localizations{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if _, ok := decoders[ext]; !ok {
			continue
		}

		data, readErr := fs.ReadFile(fsys, name)
		if readErr != nil {
			return nil, readErr
		}

		table, decodeErr := Decode(name, data)
		if decodeErr != nil {
			return nil, decodeErr
		}

		locale := strings.TrimSuffix(name, path.Ext(name))
		result[locale] = MergeSections(result[locale], table)
	}

	if len(result) == 0 {
		return nil, errors.New("no language files found")
	}

	return result, nil
}

// Lookup walks the table along segments and returns the value found at the end.
func (t Table) Lookup(segments ...string) (any, bool) {
	var current any = map[string]any(t)
	for _, seg := range segments {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Section returns a top level mapping of the table, or nil.
func (t Table) Section(name string) map[string]any {
	section, _ := asMap(t[name])
	return section
}

// Keys returns the dotted paths of every leaf in the table, sorted.
func (t Table) Keys() []string {
	var keys []string
	var walk func(prefix string, value any)
	walk = func(prefix string, value any) {
		node, ok := asMap(value)
		if !ok {
			keys = append(keys, prefix)
			return
		}
		for k, v := range node {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			walk(next, v)
		}
	}
	walk("", map[string]any(t))
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return Table(deepCopy(map[string]any(t)).(map[string]any))
}

// MergeSections merges override over base one level deep.
// Within a shared section, override keys replace base keys. Other sections are copied as is.
func MergeSections(base, override Table) Table {
	merged := base.Clone()
	if merged == nil {
		merged = Table{}
	}

	for section, value := range override {
		overrideSection, isMap := asMap(value)
		baseSection, baseIsMap := asMap(merged[section])
		if !isMap || !baseIsMap {
			merged[section] = deepCopy(value)
			continue
		}

		for k, v := range overrideSection {
			baseSection[k] = deepCopy(v)
		}
	}

	return merged
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Table:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case Table:
		return deepCopy(map[string]any(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	default:
		return val
	}
}

// normalize turns decoder specific shapes (yaml's map[any]any, toml's []map[string]any) into the
// map[string]any / []any shapes used everywhere else.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return val
	}
}
