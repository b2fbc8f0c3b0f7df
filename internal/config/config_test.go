package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/providers"
)

func TestBuiltinWiring(t *testing.T) {
	cfg := Builtin()
	assert.Equal(t, "homebrew", cfg.Gather[providers.HomebrewName])
	assert.Equal(t, "asdf", cfg.Render[providers.AsdfName])
	assert.Equal(t, "pipx", cfg.Gather[providers.PipxName])
	require.NoError(t, Validate(cfg))
}

func TestLoadLayersFilesOverBuiltin(t *testing.T) {
	// keep the real user config out of the test
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "override.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[gather]
"packages.homebrew" = "custom"
"packages.extra" = "homebrew"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Gather[providers.HomebrewName], "file layer wins")
	assert.Equal(t, "homebrew", cfg.Gather["packages.extra"], "new entries are added")
	assert.Equal(t, "asdf", cfg.Gather[providers.AsdfName], "untouched builtins survive")
	assert.Equal(t, "homebrew", cfg.Render[providers.HomebrewName], "render wiring untouched")
}

func TestLoadRejectsMissingExplicitFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte(`gather = "not a table"`), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsBlankEntries(t *testing.T) {
	cfg := Builtin()
	cfg.Gather["packages.bad"] = "  "
	require.Error(t, Validate(cfg))
}

func TestRegistryWiring(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	reg := cfg.Registry(nil)
	assert.Equal(t,
		[]string{providers.AsdfName, providers.HomebrewName, providers.PipxName},
		reg.GathererNames())

	for _, name := range reg.RendererNames() {
		_, err := reg.Renderer(name)
		require.NoError(t, err)
	}
}
