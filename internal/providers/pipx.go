package providers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
	"github.com/danmuck/statectl/internal/shell"
)

// PipxName is the component name owned by the pipx provider.
const PipxName = "packages.pipx"

func init() {
	RegisterGathererFactory("pipx", func(r shell.Runner) Gatherer {
		return &PipxGatherer{Runner: r}
	})
	RegisterRendererFactory("pipx", func() Renderer {
		return &PipxRenderer{}
	})
}

// PipxGatherer captures the applications installed through pipx, one spec
// map per virtualenv.
type PipxGatherer struct {
	Runner shell.Runner
}

func (g *PipxGatherer) runner() shell.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return shell.ExecRunner{}
}

func (g *PipxGatherer) Empty() *components.Component {
	return &components.Component{
		Name: PipxName,
		Elements: map[string]elements.Element{
			"applications": elements.Map{},
		},
	}
}

type pipxList struct {
	Venvs map[string]pipxVenv `json:"venvs"`
}

type pipxVenv struct {
	Metadata pipxMetadata `json:"metadata"`
}

type pipxMetadata struct {
	MainPackage   pipxPackage `json:"main_package"`
	PythonVersion string      `json:"python_version"`
}

type pipxPackage struct {
	PackageOrURL        string   `json:"package_or_url"`
	PackageVersion      string   `json:"package_version"`
	PipArgs             []string `json:"pip_args"`
	Suffix              string   `json:"suffix"`
	IncludeDependencies bool     `json:"include_dependencies"`
}

func (g *PipxGatherer) Gather(qualifier []string) (*components.Component, error) {
	var spec pipxList
	if err := shell.JSON(g.runner(), []string{"pipx", "list", "--json"}, &spec); err != nil {
		return nil, err
	}

	applications := make(map[string]elements.Full, len(spec.Venvs))
	for venv, venvSpec := range spec.Venvs {
		applications[venv] = applicationSpec(venvSpec.Metadata)
	}

	return &components.Component{
		Name: PipxName,
		Elements: map[string]elements.Element{
			"applications": elements.NewMap(applications),
		},
	}, nil
}

func applicationSpec(metadata pipxMetadata) elements.Map {
	includeDeps := "no"
	if metadata.MainPackage.IncludeDependencies {
		includeDeps = "yes"
	}
	return elements.NewMapOfStrings(map[string]string{
		"package_spec":   metadata.MainPackage.PackageOrURL,
		"version":        metadata.MainPackage.PackageVersion,
		"pip_args":       strings.Join(metadata.MainPackage.PipArgs, " "),
		"suffix":         metadata.MainPackage.Suffix,
		"python_version": metadata.PythonVersion,
		"include_deps":   includeDeps,
	})
}

// PipxRenderer emits pipx commands for a pipx component diff. Spec changes
// beyond a plain version bump have no command rendering.
type PipxRenderer struct{}

func (r *PipxRenderer) Commands(diff *components.Component) ([][]string, error) {
	applications, err := mapDiffOf(diff, "applications")
	if err != nil {
		return nil, err
	}

	var out [][]string
	for _, application := range sortedStrings(applications.KeysToRemove) {
		out = append(out, []string{"pipx", "uninstall", application})
	}

	for _, application := range sortedKeysOfFullMap(applications.ItemsToAdd) {
		spec, ok := applications.ItemsToAdd[application].(elements.Map)
		if !ok {
			return nil, shapeError(diff, "applications", "map of application specs", applications.ItemsToAdd[application])
		}
		packageSpec := specValue(spec, "package_spec")
		version := specValue(spec, "version")
		if !strings.Contains(packageSpec, "=") {
			packageSpec = packageSpec + "==" + version
		} else {
			log.Warn().
				Str("package_spec", packageSpec).
				Str("version", version).
				Msg("package spec may pin a different version")
		}

		command := []string{"pipx", "install"}
		command = append(command, "--pip-args", specValue(spec, "pip_args"))
		command = append(command, "--suffix", specValue(spec, "suffix"))
		command = append(command, "--python", specValue(spec, "python_version"))
		if specValue(spec, "include_deps") == "yes" {
			command = append(command, "--include-deps")
		}
		command = append(command, packageSpec)
		out = append(out, command)
	}

	for _, application := range sortedKeysOfDiffMap(applications.ItemsToSet) {
		specDiff, ok := applications.ItemsToSet[application].(elements.MapDiff)
		if !ok {
			return nil, shapeError(diff, "applications", "map diff of application specs", applications.ItemsToSet[application])
		}
		versionDiff, ok := specDiff.ItemsToSet["version"]
		if !ok || len(specDiff.ItemsToSet) != 1 || len(specDiff.KeysToRemove) != 0 || len(specDiff.ItemsToAdd) != 0 {
			return nil, fmt.Errorf("pipx: only version changes are supported for %s", application)
		}
		version, ok := versionDiff.(elements.AtomDiff)
		if !ok {
			return nil, shapeError(diff, "applications", "atom diff version", versionDiff)
		}
		out = append(out, []string{
			"pipx", "upgrade",
			"--pip-args", application + "==" + version.Value(),
			application,
		})
	}

	return out, nil
}

func specValue(spec elements.Map, key string) string {
	value, ok := spec.Get(key)
	if !ok {
		return ""
	}
	atom, ok := value.(elements.Atom)
	if !ok {
		return ""
	}
	return string(atom)
}

func sortedStrings(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
