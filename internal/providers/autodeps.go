package providers

import (
	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
	"github.com/danmuck/statectl/internal/systems"
)

// MarkAutoDependencies inspects a gathered full system and records the
// cross-provider dependencies it can infer: when asdf or pipx is itself
// installed through homebrew, the corresponding component gains a
// dependency on the homebrew component so command rendering keeps them in
// installation order.
func MarkAutoDependencies(system *systems.System) {
	markToolDependency(system, AsdfName, "asdf")
	markToolDependency(system, PipxName, "pipx")
}

func markToolDependency(system *systems.System, componentName, formula string) {
	tool, ok := system.Get(components.DependencyKey{Name: componentName})
	if !ok {
		return
	}
	homebrew, ok := system.Get(components.DependencyKey{Name: HomebrewName})
	if !ok || !homebrewInstalls(homebrew, formula) {
		return
	}
	key := homebrew.Key()
	for _, dep := range tool.Dependencies {
		if dep.Equal(key) {
			return
		}
	}
	tool.Dependencies = append(tool.Dependencies, key)
}

func homebrewInstalls(homebrew *components.Component, formula string) bool {
	if simple, ok := homebrew.Elements["simple_formulas"].(elements.Set); ok {
		if simple.Contains(elements.Atom(formula)) {
			return true
		}
	}
	if complexFormulas, ok := homebrew.Elements["formulas"].(elements.Map); ok {
		if _, found := complexFormulas.Get(formula); found {
			return true
		}
	}
	return false
}
