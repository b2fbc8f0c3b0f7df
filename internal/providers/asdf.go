package providers

import (
	"os"
	"sort"
	"strings"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
	"github.com/danmuck/statectl/internal/shell"
)

// AsdfName is the component name owned by the asdf provider.
const AsdfName = "packages.asdf"

func init() {
	RegisterGathererFactory("asdf", func(r shell.Runner) Gatherer {
		return &AsdfGatherer{Runner: r}
	})
	RegisterRendererFactory("asdf", func() Renderer {
		return &AsdfRenderer{}
	})
}

// AsdfGatherer captures installed asdf plugins and versions along with the
// configuration files and environment the asdf installation reads.
type AsdfGatherer struct {
	Runner shell.Runner
}

func (g *AsdfGatherer) runner() shell.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return shell.ExecRunner{}
}

func (g *AsdfGatherer) Empty() *components.Component {
	return &components.Component{
		Name: AsdfName,
		Elements: map[string]elements.Element{
			"versions":                       elements.Map{},
			"global_tool_versions":           elements.List{},
			"asdfrc":                         elements.List{},
			"asdf_updates_disabled":          elements.List{},
			"asdf_dir":                       elements.Atom(""),
			"default_tool_versions_filename": elements.Atom(""),
			"asdf_config_path":               elements.Atom(""),
		},
	}
}

func (g *AsdfGatherer) Gather(qualifier []string) (*components.Component, error) {
	lines, err := shell.Lines(g.runner(), []string{"asdf", "list"})
	if err != nil {
		return nil, err
	}
	versions := map[string][]string{}
	currentPlugin := ""
	for _, line := range lines {
		if !strings.HasPrefix(line, " ") {
			currentPlugin = line
			versions[currentPlugin] = nil
			continue
		}
		if line == "  No versions installed" {
			continue
		}
		versions[currentPlugin] = append(versions[currentPlugin], strings.TrimSpace(line))
	}
	versionSets := make(map[string]elements.Full, len(versions))
	for plugin, installed := range versions {
		versionSets[plugin] = elements.NewSetOfStrings(installed...)
	}

	toolVersionsFilename := envOr("ASDF_DEFAULT_TOOL_VERSIONS_FILENAME", ".tool_versions")
	globalVersions, err := GatherFile("~/" + toolVersionsFilename)
	if err != nil {
		return nil, err
	}
	configPath := envOr("ASDF_CONFIG_FILE", "~/.asdfrc")
	asdfrc, err := GatherFile(configPath)
	if err != nil {
		return nil, err
	}
	asdfDir := envOr("ASDF_DIR", "~/.asdf")
	updatesDisabled, err := GatherFile(asdfDir + "/asdf_updates_disabled")
	if err != nil {
		return nil, err
	}

	return &components.Component{
		Name: AsdfName,
		Elements: map[string]elements.Element{
			"versions":                       elements.NewMap(versionSets),
			"global_tool_versions":           globalVersions,
			"asdfrc":                         asdfrc,
			"asdf_updates_disabled":          updatesDisabled,
			"asdf_dir":                       elements.Atom(asdfDir),
			"default_tool_versions_filename": elements.Atom(toolVersionsFilename),
			"asdf_config_path":               elements.Atom(configPath),
		},
	}, nil
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// AsdfRenderer emits the file patches and asdf commands for an asdf
// component diff.
type AsdfRenderer struct{}

func (r *AsdfRenderer) Commands(diff *components.Component) ([][]string, error) {
	var out [][]string

	asdfDir, err := atomDiffOf(diff, "asdf_dir")
	if err != nil {
		return nil, err
	}
	updatesDisabled, err := listDiffOf(diff, "asdf_updates_disabled")
	if err != nil {
		return nil, err
	}
	cmds, err := RenderFileDiff(asdfDir+"/asdf_updates_disabled", updatesDisabled)
	if err != nil {
		return nil, err
	}
	out = append(out, cmds...)

	configPath, err := atomDiffOf(diff, "asdf_config_path")
	if err != nil {
		return nil, err
	}
	asdfrc, err := listDiffOf(diff, "asdfrc")
	if err != nil {
		return nil, err
	}
	cmds, err = RenderFileDiff(configPath, asdfrc)
	if err != nil {
		return nil, err
	}
	out = append(out, cmds...)

	toolVersionsFilename, err := atomDiffOf(diff, "default_tool_versions_filename")
	if err != nil {
		return nil, err
	}
	globalVersions, err := listDiffOf(diff, "global_tool_versions")
	if err != nil {
		return nil, err
	}
	cmds, err = RenderFileDiff("~/"+toolVersionsFilename, globalVersions)
	if err != nil {
		return nil, err
	}
	out = append(out, cmds...)

	versions, err := mapDiffOf(diff, "versions")
	if err != nil {
		return nil, err
	}
	removed := append([]string(nil), versions.KeysToRemove...)
	sort.Strings(removed)
	for _, plugin := range removed {
		out = append(out, []string{"asdf", "plugin", "remove", plugin})
	}
	added := sortedKeysOfFullMap(versions.ItemsToAdd)
	for _, plugin := range added {
		out = append(out, []string{"asdf", "plugin", "add", plugin})
	}
	for _, plugin := range added {
		if set, ok := versions.ItemsToAdd[plugin].(elements.Set); ok {
			for _, version := range set.Strings() {
				out = append(out, []string{"asdf", "install", plugin, version})
			}
		}
	}
	for _, plugin := range sortedKeysOfDiffMap(versions.ItemsToSet) {
		setDiff, ok := versions.ItemsToSet[plugin].(elements.SetDiff)
		if !ok {
			continue
		}
		for _, version := range sortedAtomValues(setDiff.ToAdd) {
			out = append(out, []string{"asdf", "install", plugin, version})
		}
		for _, version := range sortedAtomValues(setDiff.ToRemove) {
			out = append(out, []string{"asdf", "uninstall", plugin, version})
		}
	}

	return out, nil
}

func sortedKeysOfFullMap(m map[string]elements.Full) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysOfDiffMap(m map[string]elements.Diff) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
