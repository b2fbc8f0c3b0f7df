// Package providers hosts the pluggable gather/render handlers for concrete
// package managers, plus the registry that resolves them by component name.
package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/shell"
)

// ErrUnknownProvider reports a component name with no registered handler.
var ErrUnknownProvider = errors.New("providers: unknown provider")

// Gatherer captures the local machine state owned by one provider as a full
// component.
type Gatherer interface {
	// Empty returns a full component with the provider's element names and
	// shapes, all zero.
	Empty() *components.Component
	// Gather reads the local machine state.
	Gather(qualifier []string) (*components.Component, error)
}

// Renderer turns a diff component into the commands that realize it.
type Renderer interface {
	Commands(diff *components.Component) ([][]string, error)
}

// GathererFactory builds a gatherer around a command runner.
type GathererFactory func(r shell.Runner) Gatherer

// RendererFactory builds a renderer.
type RendererFactory func() Renderer

var (
	factoryMu         sync.RWMutex
	gathererFactories = map[string]GathererFactory{}
	rendererFactories = map[string]RendererFactory{}
)

// RegisterGathererFactory makes a gatherer implementation available under a
// factory id that configs can refer to.
func RegisterGathererFactory(id string, f GathererFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	gathererFactories[id] = f
}

// RegisterRendererFactory makes a renderer implementation available under a
// factory id that configs can refer to.
func RegisterRendererFactory(id string, f RendererFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	rendererFactories[id] = f
}

// Registry resolves component names to handlers. Handlers are instantiated
// lazily on first use so that listing providers never touches the host.
type Registry struct {
	mu        sync.RWMutex
	runner    shell.Runner
	gatherers map[string]Gatherer
	renderers map[string]Renderer
	deferredG map[string]string
	deferredR map[string]string
}

// NewRegistry initializes an empty registry whose gatherers run commands
// through r.
func NewRegistry(r shell.Runner) *Registry {
	if r == nil {
		r = shell.ExecRunner{}
	}
	return &Registry{
		runner:    r,
		gatherers: map[string]Gatherer{},
		renderers: map[string]Renderer{},
		deferredG: map[string]string{},
		deferredR: map[string]string{},
	}
}

// RegisterGatherer binds an instantiated gatherer to a component name.
func (reg *Registry) RegisterGatherer(name string, g Gatherer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.gatherers[name] = g
}

// RegisterRenderer binds an instantiated renderer to a component name.
func (reg *Registry) RegisterRenderer(name string, r Renderer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.renderers[name] = r
}

// DeferGatherer binds a component name to a factory id, to be instantiated
// on first use.
func (reg *Registry) DeferGatherer(name, factoryID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.deferredG[name] = factoryID
}

// DeferRenderer binds a component name to a factory id, to be instantiated
// on first use.
func (reg *Registry) DeferRenderer(name, factoryID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.deferredR[name] = factoryID
}

// Gatherer resolves the gatherer for a component name.
func (reg *Registry) Gatherer(name string) (Gatherer, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if g, ok := reg.gatherers[name]; ok {
		return g, nil
	}
	id, ok := reg.deferredG[name]
	if !ok {
		return nil, fmt.Errorf("%w: no gatherer for %q", ErrUnknownProvider, name)
	}
	factoryMu.RLock()
	factory, ok := gathererFactories[id]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: gatherer %q refers to unknown factory %q", ErrUnknownProvider, name, id)
	}
	g := factory(reg.runner)
	reg.gatherers[name] = g
	return g, nil
}

// Renderer resolves the renderer for a component name.
func (reg *Registry) Renderer(name string) (Renderer, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.renderers[name]; ok {
		return r, nil
	}
	id, ok := reg.deferredR[name]
	if !ok {
		return nil, fmt.Errorf("%w: no renderer for %q", ErrUnknownProvider, name)
	}
	factoryMu.RLock()
	factory, ok := rendererFactories[id]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: renderer %q refers to unknown factory %q", ErrUnknownProvider, name, id)
	}
	r := factory()
	reg.renderers[name] = r
	return r, nil
}

// GathererNames lists every component name with a gatherer, sorted.
func (reg *Registry) GathererNames() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	seen := map[string]bool{}
	for name := range reg.gatherers {
		seen[name] = true
	}
	for name := range reg.deferredG {
		seen[name] = true
	}
	return sortedNames(seen)
}

// RendererNames lists every component name with a renderer, sorted.
func (reg *Registry) RendererNames() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	seen := map[string]bool{}
	for name := range reg.renderers {
		seen[name] = true
	}
	for name := range reg.deferredR {
		seen[name] = true
	}
	return sortedNames(seen)
}

func sortedNames(seen map[string]bool) []string {
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
