package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
)

func pipxSpec(version string) elements.Map {
	return elements.NewMapOfStrings(map[string]string{
		"package_spec":   "black",
		"version":        version,
		"pip_args":       "",
		"suffix":         "",
		"python_version": "3.11",
		"include_deps":   "no",
	})
}

func pipxComponent(applications map[string]elements.Full) *components.Component {
	return &components.Component{
		Name: PipxName,
		Elements: map[string]elements.Element{
			"applications": elements.NewMap(applications),
		},
	}
}

func TestPipxGather(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]string{
		"pipx list --json": `{
			"venvs": {
				"black": {
					"metadata": {
						"python_version": "Python 3.11.4",
						"main_package": {
							"package_or_url": "black",
							"package_version": "23.1.0",
							"pip_args": [],
							"suffix": "",
							"include_dependencies": false
						}
					}
				}
			}
		}`,
	}}

	c, err := (&PipxGatherer{Runner: runner}).Gather(nil)
	require.NoError(t, err)

	applications := c.Elements["applications"].(elements.Map)
	spec, ok := applications.Get("black")
	require.True(t, ok)

	m := spec.(elements.Map)
	version, _ := m.Get("version")
	assert.Equal(t, elements.Atom("23.1.0"), version)
	includeDeps, _ := m.Get("include_deps")
	assert.Equal(t, elements.Atom("no"), includeDeps)
}

func TestPipxRenderer(t *testing.T) {
	newTool := elements.NewMapOfStrings(map[string]string{
		"package_spec":   "new-tool",
		"version":        "1.0.0",
		"pip_args":       "",
		"suffix":         "",
		"python_version": "3.11",
		"include_deps":   "yes",
	})

	actual := pipxComponent(map[string]elements.Full{
		"black":    pipxSpec("21.0"),
		"old-tool": pipxSpec("1.0"),
	})
	desired := pipxComponent(map[string]elements.Full{
		"black":    pipxSpec("22.0"),
		"new-tool": newTool,
	})

	diff, err := actual.Diff(desired)
	require.NoError(t, err)

	commands, err := (&PipxRenderer{}).Commands(diff)
	require.NoError(t, err)

	expected := [][]string{
		{"pipx", "uninstall", "old-tool"},
		{"pipx", "install", "--pip-args", "", "--suffix", "", "--python", "3.11", "--include-deps", "new-tool==1.0.0"},
		{"pipx", "upgrade", "--pip-args", "black==22.0", "black"},
	}
	assert.Equal(t, expected, commands)
}

func TestPipxRendererRejectsSpecRewrites(t *testing.T) {
	actual := pipxComponent(map[string]elements.Full{"black": pipxSpec("21.0")})

	changed := elements.NewMapOfStrings(map[string]string{
		"package_spec":   "black",
		"version":        "22.0",
		"pip_args":       "--no-cache",
		"suffix":         "",
		"python_version": "3.11",
		"include_deps":   "no",
	})
	desired := pipxComponent(map[string]elements.Full{"black": changed})

	diff, err := actual.Diff(desired)
	require.NoError(t, err)

	_, err = (&PipxRenderer{}).Commands(diff)
	require.Error(t, err)
}
