package providers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/systems"
	"github.com/danmuck/statectl/internal/testutil/testlog"
)

func systemOf(comps ...*components.Component) *systems.System {
	return systems.New(comps...)
}

// scriptedRunner serves canned stdout keyed by the joined command line.
type scriptedRunner struct {
	responses map[string]string
	calls     []string
}

func (r *scriptedRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	return []byte(r.responses[key]), nil, 0, nil
}

func TestRegistryResolvesDeferredHandlers(t *testing.T) {
	testlog.Start(t)
	reg := NewRegistry(&scriptedRunner{})
	reg.DeferGatherer(HomebrewName, "homebrew")
	reg.DeferRenderer(HomebrewName, "homebrew")

	g, err := reg.Gatherer(HomebrewName)
	require.NoError(t, err)
	require.NotNil(t, g)

	// resolved handlers are cached
	again, err := reg.Gatherer(HomebrewName)
	require.NoError(t, err)
	assert.Same(t, g, again)

	r, err := reg.Renderer(HomebrewName)
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestRegistryUnknownProvider(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Gatherer("packages.unknown")
	require.ErrorIs(t, err, ErrUnknownProvider)

	reg.DeferRenderer("packages.broken", "no-such-factory")
	_, err = reg.Renderer("packages.broken")
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry(nil)
	reg.DeferGatherer(PipxName, "pipx")
	reg.DeferGatherer(AsdfName, "asdf")
	reg.RegisterGatherer(HomebrewName, &HomebrewGatherer{})

	assert.Equal(t, []string{AsdfName, HomebrewName, PipxName}, reg.GathererNames())
	assert.Empty(t, reg.RendererNames())
}

func TestBuiltinFactoriesAreRegistered(t *testing.T) {
	for _, name := range []string{"homebrew", "asdf", "pipx"} {
		reg := NewRegistry(nil)
		reg.DeferGatherer("component", name)
		reg.DeferRenderer("component", name)

		_, err := reg.Gatherer("component")
		require.NoError(t, err, "gatherer factory %q", name)
		_, err = reg.Renderer("component")
		require.NoError(t, err, "renderer factory %q", name)
	}
}
