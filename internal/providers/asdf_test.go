package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
	"github.com/danmuck/statectl/internal/testutil/testlog"
)

func buildAsdfComponents(t *testing.T) (*components.Component, *components.Component) {
	t.Helper()
	asdf, err := components.FromPrimitive(map[string]any{
		"name":         "packages.asdf",
		"dependencies": []any{},
		"qualifier":    []any{},
		"elements": map[string]any{
			"asdf_config_path":               "~/.asdfrc",
			"asdf_dir":                       "~/bin/.asdf",
			"asdf_updates_disabled":          []any{"list"},
			"asdfrc":                         []any{"list", "e", "legacy_version_file = yes"},
			"default_tool_versions_filename": ".tool_versions",
			"global_tool_versions":           []any{"list", "e", `python 3.9.6\n`},
			"versions": map[string]any{
				"nodejs":    []any{"set", "14.16.1", "16.1.0"},
				"python":    []any{"set", "3.9.6"},
				"ruby":      []any{"set", "2.4.8", "3.0.2"},
				"terraform": []any{"set", "1.0.3"},
			},
		},
	}, false)
	require.NoError(t, err)

	asdf2, err := components.FromPrimitive(map[string]any{
		"name":         "packages.asdf",
		"dependencies": []any{},
		"qualifier":    []any{},
		"elements": map[string]any{
			"asdf_config_path":               "~/.asdfrc",
			"asdf_dir":                       "~/bin/.asdf",
			"asdf_updates_disabled":          []any{"list", "e"},
			"asdfrc":                         []any{"list"},
			"default_tool_versions_filename": ".tool_versions",
			"global_tool_versions":           []any{"list", "e", `python 3.9.6\n`, `ruby 3.0.2\n`},
			"versions": map[string]any{
				"nodejs":    []any{"set", "14.16.1", "16.1.0"},
				"ruby":      []any{"set", "2.4.9", "3.0.1", "3.0.2"},
				"terraform": []any{"set", "1.0.4"},
			},
		},
	}, false)
	require.NoError(t, err)

	return asdf, asdf2
}

func TestAsdfRenderer(t *testing.T) {
	asdf, asdf2 := buildAsdfComponents(t)

	diff, err := asdf.Diff(asdf2)
	require.NoError(t, err)

	commands, err := (&AsdfRenderer{}).Commands(diff)
	require.NoError(t, err)

	expected := [][]string{
		{"touch", `"~/bin/.asdf/asdf_updates_disabled"`},
		{"rm", `"~/.asdfrc"`},
		{"statectl", "patch", `"~/.tool_versions"`, `[["=",0,"python 3.9.6\\n"],["+",1,"ruby 3.0.2\\n"]]`},
		{"asdf", "plugin", "remove", "python"},
		{"asdf", "install", "ruby", "2.4.9"},
		{"asdf", "install", "ruby", "3.0.1"},
		{"asdf", "uninstall", "ruby", "2.4.8"},
		{"asdf", "install", "terraform", "1.0.4"},
		{"asdf", "uninstall", "terraform", "1.0.3"},
	}
	assert.Equal(t, expected, commands)
}

func TestAsdfGatherParsesListOutput(t *testing.T) {
	testlog.Start(t)
	runner := &scriptedRunner{responses: map[string]string{
		"asdf list": "python\n  3.9.6\nruby\n  No versions installed\n",
	}}
	t.Setenv("ASDF_DIR", t.TempDir())
	t.Setenv("ASDF_CONFIG_FILE", t.TempDir()+"/.asdfrc")
	t.Setenv("ASDF_DEFAULT_TOOL_VERSIONS_FILENAME", ".missing_tool_versions")

	gatherer := &AsdfGatherer{Runner: runner}
	c, err := gatherer.Gather(nil)
	require.NoError(t, err)

	versions, ok := c.Elements["versions"].(elements.Map)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"python", "ruby"}, versions.Keys())

	python, ok := versions.Get("python")
	require.True(t, ok)
	assert.Equal(t, []any{"set", "3.9.6"}, python.Primitive())

	ruby, ok := versions.Get("ruby")
	require.True(t, ok)
	assert.Equal(t, []any{"set"}, ruby.Primitive())
}
