package localization_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tibue99/ezcord-sub000/localization"
)

func TestDecode(t *testing.T) {
	expected := localization.Table{
		"greet": map[string]any{
			"hello": "Hello {name}",
			"list":  []any{"a", "b"},
		},
	}

	testCases := []struct {
		name string
		file string
		data string
	}{
		{"json", "en.json", `{"greet": {"hello": "Hello {name}", "list": ["a", "b"]}}`},
		{"yaml", "en.yaml", "greet:\n  hello: Hello {name}\n  list:\n    - a\n    - b\n"},
		{"yml", "en.YML", "greet:\n  hello: Hello {name}\n  list: [a, b]\n"},
		{"toml", "en.toml", "[greet]\nhello = \"Hello {name}\"\nlist = [\"a\", \"b\"]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := localization.Decode(tc.file, []byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, expected, table)
		})
	}

	_, err := localization.Decode("en.ini", []byte("a=b"))
	require.Error(t, err)

	_, err = localization.Decode("en.json", []byte("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en.json")
}

func TestLoadDir(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json":     {Data: []byte(`{"greet": {"hello": "Hello"}}`)},
		"en.yaml":     {Data: []byte("greet:\n  bye: Bye\n")},
		"de.toml":     {Data: []byte("[greet]\nhello = \"Hallo\"\n")},
		"README.md":   {Data: []byte("# not a language")},
		"sub/fr.json": {Data: []byte(`{"greet": {"hello": "Bonjour"}}`)},
	}

	locs, err := localization.LoadDir(fsys)
	require.NoError(t, err)

	assert.Len(t, locs, 2)
	assert.Equal(t, map[string]any{"hello": "Hello", "bye": "Bye"}, locs["en"].Section("greet"))
	assert.Equal(t, map[string]any{"hello": "Hallo"}, locs["de"].Section("greet"))

	_, err = localization.LoadDir(fstest.MapFS{"notes.txt": {Data: []byte("x")}})
	require.Error(t, err)
}

func TestMergeSections(t *testing.T) {
	base := localization.Table{
		"a":    map[string]any{"x": "1", "nested": map[string]any{"deep": "base"}},
		"b":    map[string]any{"k": "v"},
		"flat": "base",
	}
	override := localization.Table{
		"a":    map[string]any{"y": "2", "nested": map[string]any{"other": "override"}},
		"c":    map[string]any{"new": "section"},
		"flat": "override",
	}

	merged := localization.MergeSections(base, override)

	assert.Equal(t, map[string]any{
		"x":      "1",
		"y":      "2",
		"nested": map[string]any{"other": "override"},
	}, merged.Section("a"))
	assert.Equal(t, map[string]any{"k": "v"}, merged.Section("b"))
	assert.Equal(t, map[string]any{"new": "section"}, merged.Section("c"))
	assert.Equal(t, "override", merged["flat"])

	// Inputs stay untouched.
	assert.Equal(t, map[string]any{"x": "1", "nested": map[string]any{"deep": "base"}}, base.Section("a"))
	assert.NotContains(t, base, "c")

	assert.Equal(t, override, localization.MergeSections(nil, override))
}

func TestTableLookupAndKeys(t *testing.T) {
	table := localization.Table{
		"greet": map[string]any{
			"hello": map[string]any{"msg": "Hi"},
			"bye":   "Bye",
		},
		"general": map[string]any{"bot": "EzBot"},
	}

	value, ok := table.Lookup("greet", "hello", "msg")
	assert.True(t, ok)
	assert.Equal(t, "Hi", value)

	_, ok = table.Lookup("greet", "bye", "msg")
	assert.False(t, ok)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)

	assert.Nil(t, table.Section("missing"))
	assert.Equal(t, []string{"general.bot", "greet.bye", "greet.hello.msg"}, table.Keys())

	clone := table.Clone()
	clone.Section("greet")["bye"] = "changed"
	assert.Equal(t, "Bye", table.Section("greet")["bye"])
}

func TestFindMissingKeys(t *testing.T) {
	reference := localization.Table{
		"greet": map[string]any{
			"hello": map[string]any{"msg": "Hi", "intro": "I am"},
			"bye":   "Bye",
		},
		"top": "value",
	}
	current := localization.Table{
		"greet": map[string]any{
			"hello": map[string]any{"msg": "Hallo"},
			"bye":   map[string]any{"unexpected": "shape"},
		},
	}

	assert.Equal(t, []string{"greet.hello.intro", "top"}, localization.FindMissingKeys(reference, current))
	assert.Empty(t, localization.FindMissingKeys(reference, reference))
}
