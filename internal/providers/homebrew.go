package providers

import (
	"fmt"
	"sort"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
	"github.com/danmuck/statectl/internal/shell"
)

// HomebrewName is the component name owned by the homebrew provider.
const HomebrewName = "packages.homebrew"

func init() {
	RegisterGathererFactory("homebrew", func(r shell.Runner) Gatherer {
		return &HomebrewGatherer{Runner: r}
	})
	RegisterRendererFactory("homebrew", func() Renderer {
		return &HomebrewRenderer{}
	})
}

// HomebrewGatherer captures taps, formulas and casks installed through
// homebrew. Formulas installed only as dependencies are left out; they
// follow from what is requested.
type HomebrewGatherer struct {
	Runner shell.Runner
}

func (g *HomebrewGatherer) runner() shell.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return shell.ExecRunner{}
}

func (g *HomebrewGatherer) Empty() *components.Component {
	return &components.Component{
		Name: HomebrewName,
		Elements: map[string]elements.Element{
			"taps":            elements.Set{},
			"simple_formulas": elements.Set{},
			"formulas":        elements.Map{},
			"simple_casks":    elements.Set{},
			"casks":           elements.Map{},
		},
	}
}

type brewInfo struct {
	Casks    []brewCask    `json:"casks"`
	Formulae []brewFormula `json:"formulae"`
}

type brewCask struct {
	FullToken string `json:"full_token"`
}

type brewFormula struct {
	FullName  string `json:"full_name"`
	Installed []struct {
		InstalledOnRequest bool `json:"installed_on_request"`
	} `json:"installed"`
}

func (g *HomebrewGatherer) Gather(qualifier []string) (*components.Component, error) {
	taps, err := shell.Lines(g.runner(), []string{"brew", "tap"})
	if err != nil {
		return nil, err
	}

	var info brewInfo
	if err := shell.JSON(g.runner(), []string{"brew", "info", "--json=v2", "--installed"}, &info); err != nil {
		return nil, err
	}

	var formulas []string
	for _, formula := range info.Formulae {
		requested := false
		for _, install := range formula.Installed {
			if install.InstalledOnRequest {
				requested = true
				break
			}
		}
		if requested {
			formulas = append(formulas, formula.FullName)
		}
	}
	casks := make([]string, 0, len(info.Casks))
	for _, cask := range info.Casks {
		casks = append(casks, cask.FullToken)
	}

	return &components.Component{
		Name: HomebrewName,
		Elements: map[string]elements.Element{
			"taps":            elements.NewSetOfStrings(taps...),
			"simple_formulas": elements.NewSetOfStrings(formulas...),
			"formulas":        elements.Map{},
			"simple_casks":    elements.NewSetOfStrings(casks...),
			"casks":           elements.Map{},
		},
	}, nil
}

// HomebrewRenderer emits brew commands for a homebrew component diff.
type HomebrewRenderer struct{}

func (r *HomebrewRenderer) Commands(diff *components.Component) ([][]string, error) {
	var out [][]string

	taps, err := setDiffOf(diff, "taps")
	if err != nil {
		return nil, err
	}
	out = append(out, commandsFor([]string{"brew", "tap"}, sortedAtomValues(taps.ToAdd))...)
	out = append(out, commandsFor([]string{"brew", "untap"}, sortedAtomValues(taps.ToRemove))...)

	formulas, err := mapDiffOf(diff, "formulas")
	if err != nil {
		return nil, err
	}
	if !formulas.Empty() {
		return nil, fmt.Errorf("homebrew: formula options are not supported")
	}
	simpleFormulas, err := setDiffOf(diff, "simple_formulas")
	if err != nil {
		return nil, err
	}
	out = append(out, commandsFor([]string{"brew", "install"}, sortedAtomValues(simpleFormulas.ToAdd))...)
	out = append(out, commandsFor([]string{"brew", "uninstall"}, sortedAtomValues(simpleFormulas.ToRemove))...)

	casks, err := mapDiffOf(diff, "casks")
	if err != nil {
		return nil, err
	}
	if !casks.Empty() {
		return nil, fmt.Errorf("homebrew: cask options are not supported")
	}
	simpleCasks, err := setDiffOf(diff, "simple_casks")
	if err != nil {
		return nil, err
	}
	out = append(out, commandsFor([]string{"brew", "install", "--cask"}, sortedAtomValues(simpleCasks.ToAdd))...)
	out = append(out, commandsFor([]string{"brew", "uninstall", "--cask"}, sortedAtomValues(simpleCasks.ToRemove))...)

	return out, nil
}

// commandsFor chunks params onto command, emitting nothing when there is
// nothing to pass.
func commandsFor(command []string, params []string) [][]string {
	if len(params) == 0 {
		return nil
	}
	return shell.Chunk(command, params)
}

func sortedAtomValues(items []elements.Full) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if atom, ok := item.(elements.Atom); ok {
			out = append(out, string(atom))
		}
	}
	sort.Strings(out)
	return out
}
