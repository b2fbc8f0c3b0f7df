package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
)

func homebrewComponent(taps, formulas, casks []string) *components.Component {
	return &components.Component{
		Name: HomebrewName,
		Elements: map[string]elements.Element{
			"taps":            elements.NewSetOfStrings(taps...),
			"simple_formulas": elements.NewSetOfStrings(formulas...),
			"formulas":        elements.Map{},
			"simple_casks":    elements.NewSetOfStrings(casks...),
			"casks":           elements.Map{},
		},
	}
}

func TestHomebrewGather(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]string{
		"brew tap": "homebrew/core\nhomebrew/cask\n",
		"brew info --json=v2 --installed": `{
			"casks": [{"full_token": "firefox"}],
			"formulae": [
				{"full_name": "jq", "installed": [{"installed_on_request": true}]},
				{"full_name": "dependency-only", "installed": [{"installed_on_request": false}]}
			]
		}`,
	}}

	c, err := (&HomebrewGatherer{Runner: runner}).Gather(nil)
	require.NoError(t, err)

	taps := c.Elements["taps"].(elements.Set)
	assert.Equal(t, []string{"homebrew/cask", "homebrew/core"}, taps.Strings())

	formulas := c.Elements["simple_formulas"].(elements.Set)
	assert.Equal(t, []string{"jq"}, formulas.Strings(), "dependency-only installs are not requested state")

	casks := c.Elements["simple_casks"].(elements.Set)
	assert.Equal(t, []string{"firefox"}, casks.Strings())
}

func TestHomebrewRenderer(t *testing.T) {
	actual := homebrewComponent(
		[]string{"homebrew/core"},
		[]string{"jq", "old"},
		[]string{"firefox"},
	)
	desired := homebrewComponent(
		[]string{"homebrew/core", "homebrew/cask"},
		[]string{"jq", "new1", "new2"},
		nil,
	)

	diff, err := actual.Diff(desired)
	require.NoError(t, err)

	commands, err := (&HomebrewRenderer{}).Commands(diff)
	require.NoError(t, err)

	expected := [][]string{
		{"brew", "tap", "homebrew/cask"},
		{"brew", "install", "new1", "new2"},
		{"brew", "uninstall", "old"},
		{"brew", "uninstall", "--cask", "firefox"},
	}
	assert.Equal(t, expected, commands)
}

func TestHomebrewRendererRejectsOptionDiffs(t *testing.T) {
	actual := homebrewComponent(nil, nil, nil)
	desired := homebrewComponent(nil, nil, nil)
	desired.Elements["formulas"] = elements.NewMap(map[string]elements.Full{
		"postgresql": elements.NewMapOfStrings(map[string]string{"version": "14"}),
	})

	diff, err := actual.Diff(desired)
	require.NoError(t, err)

	_, err = (&HomebrewRenderer{}).Commands(diff)
	require.Error(t, err)
}
