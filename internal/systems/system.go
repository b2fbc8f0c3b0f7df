// Package systems composes components into whole machine configurations and
// extends diff/apply/combine to them, including creation and deletion of
// components present on only one side.
package systems

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
)

// RemovalName is the reserved component name that marks a component for
// deletion in a diff system. The deleted component's key is carried in the
// placeholder's qualifier.
const RemovalName = "component.remove"

// Version identifies the serialized document format.
const Version = "2"

var (
	// ErrCircularDependency reports that dependency-ordered iteration
	// stalled with components remaining.
	ErrCircularDependency = errors.New("systems: circular dependency")
	// ErrInvalid reports an operand that fails system validity.
	ErrInvalid = errors.New("systems: invalid system")
)

// System is a collection of components with unique dependency keys.
type System struct {
	Components []*components.Component
}

// New builds a system over the given components.
func New(comps ...*components.Component) *System {
	return &System{Components: comps}
}

// ByKey indexes the components by dependency key.
func (s *System) ByKey() map[string]*components.Component {
	out := make(map[string]*components.Component, len(s.Components))
	for _, c := range s.Components {
		out[keyString(c.Key())] = c
	}
	return out
}

// Get returns the component with the given key.
func (s *System) Get(key components.DependencyKey) (*components.Component, bool) {
	for _, c := range s.Components {
		if c.Key().Equal(key) {
			return c, true
		}
	}
	return nil, false
}

// IsDiff reports whether every component is a diff component.
func (s *System) IsDiff() bool {
	for _, c := range s.Components {
		if !c.IsDiff() {
			return false
		}
	}
	return true
}

// IsFull reports whether every component is a full component.
func (s *System) IsFull() bool {
	for _, c := range s.Components {
		if !c.IsFull() {
			return false
		}
	}
	return true
}

// Validate checks system validity: valid components, unique keys, uniform
// full-ness or diff-ness, and resolvable dependencies.
func (s *System) Validate() error {
	byKey := make(map[string]bool, len(s.Components))
	for _, c := range s.Components {
		if !c.IsValid() {
			return fmt.Errorf("%w: component %s mixes full and diff elements", ErrInvalid, c.Key())
		}
		ks := keyString(c.Key())
		if byKey[ks] {
			return fmt.Errorf("%w: duplicate component %s", ErrInvalid, c.Key())
		}
		byKey[ks] = true
	}
	if !s.IsDiff() && !s.IsFull() {
		return fmt.Errorf("%w: mixed full and diff components", ErrInvalid)
	}
	for _, c := range s.Components {
		for _, dep := range c.Dependencies {
			if !byKey[keyString(dep)] {
				return fmt.Errorf("%w: component %s depends on missing %s", ErrInvalid, c.Key(), dep)
			}
		}
	}
	return nil
}

// IsValid reports whether Validate passes.
func (s *System) IsValid() bool { return s.Validate() == nil }

// InOrder returns the components in a deterministic, dependency-respecting
// order: repeatedly emit the sorted subset whose dependencies have all been
// emitted (dependencies absent from the system count as satisfied). A stall
// with components remaining is a circular dependency.
func (s *System) InOrder() ([]*components.Component, error) {
	remaining := s.ByKey()
	out := make([]*components.Component, 0, len(s.Components))
	for len(remaining) > 0 {
		var unblocked []*components.Component
		for _, c := range remaining {
			blocked := false
			for _, dep := range c.Dependencies {
				if _, present := remaining[keyString(dep)]; present {
					blocked = true
					break
				}
			}
			if !blocked {
				unblocked = append(unblocked, c)
			}
		}
		if len(unblocked) == 0 {
			return nil, fmt.Errorf("%w: %d components unreachable", ErrCircularDependency, len(remaining))
		}
		sort.Slice(unblocked, func(i, j int) bool { return unblocked[i].Compare(unblocked[j]) < 0 })
		for _, c := range unblocked {
			out = append(out, c)
			delete(remaining, keyString(c.Key()))
		}
	}
	return out, nil
}

// validateOperands checks both operands of a binary operation. Dependency
// resolution is skipped for diff operands: a diff system legitimately omits
// unchanged components that changed ones depend on.
func validateOperands(a, b *System) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if b.IsDiff() {
		for _, c := range b.Components {
			if !c.IsValid() {
				return fmt.Errorf("%w: component %s mixes full and diff elements", ErrInvalid, c.Key())
			}
		}
		return nil
	}
	return b.Validate()
}

// Diff computes the diff system that transforms s into other. Components
// present only in other become zero diffs; components present only in s
// become removal placeholders; differing shared components become ordinary
// component diffs; equal ones are omitted.
func (s *System) Diff(other *System) (*System, error) {
	if err := validateOperands(s, other); err != nil {
		return nil, err
	}
	if !s.IsFull() || !other.IsFull() {
		return nil, fmt.Errorf("%w: cannot diff diff systems", ErrInvalid)
	}
	ours, theirs := s.ByKey(), other.ByKey()
	var out []*components.Component
	for _, ks := range sortedKeys(theirs) {
		theirComponent := theirs[ks]
		ourComponent, shared := ours[ks]
		if !shared {
			zd, err := theirComponent.ZeroDiff()
			if err != nil {
				return nil, err
			}
			out = append(out, zd)
			continue
		}
		if ourComponent.Equal(theirComponent) {
			continue
		}
		d, err := ourComponent.Diff(theirComponent)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	for _, ks := range sortedKeys(ours) {
		if _, shared := theirs[ks]; shared {
			continue
		}
		out = append(out, removalPlaceholder(ours[ks].Key()))
	}
	return New(out...), nil
}

// Apply replays a diff system against this full system, materializing
// created components, applying per-component diffs and honoring removal
// placeholders.
func (s *System) Apply(other *System) (*System, error) {
	if err := validateOperands(s, other); err != nil {
		return nil, err
	}
	if !s.IsFull() || !other.IsDiff() {
		return nil, fmt.Errorf("%w: can only apply a diff system to a full system", ErrInvalid)
	}
	ours, theirs := s.ByKey(), other.ByKey()
	removed := make(map[string]bool)
	for _, c := range other.Components {
		if key, ok := removalKey(c); ok {
			removed[keyString(key)] = true
		}
	}
	var out []*components.Component
	for _, ks := range sortedKeys(ours) {
		if removed[ks] {
			continue
		}
		ourComponent := ours[ks]
		theirComponent, present := theirs[ks]
		if !present {
			out = append(out, ourComponent.Copy())
			continue
		}
		applied, err := ourComponent.Apply(theirComponent)
		if err != nil {
			return nil, err
		}
		out = append(out, applied)
	}
	for _, ks := range sortedKeys(theirs) {
		theirComponent := theirs[ks]
		if theirComponent.Name == RemovalName {
			continue
		}
		if _, present := ours[ks]; present {
			continue
		}
		materialized, err := theirComponent.ZeroApply()
		if err != nil {
			return nil, err
		}
		out = append(out, materialized)
	}
	return New(out...), nil
}

// Combine unions two full systems by key, merging shared components
// recursively.
func (s *System) Combine(other *System) (*System, error) {
	if err := validateOperands(s, other); err != nil {
		return nil, err
	}
	if !s.IsFull() || !other.IsFull() {
		return nil, fmt.Errorf("%w: cannot combine diff systems", ErrInvalid)
	}
	ours, theirs := s.ByKey(), other.ByKey()
	var out []*components.Component
	for _, ks := range sortedKeys(ours) {
		ourComponent := ours[ks]
		theirComponent, shared := theirs[ks]
		if !shared {
			out = append(out, ourComponent.Copy())
			continue
		}
		combined, err := ourComponent.Combine(theirComponent)
		if err != nil {
			return nil, err
		}
		out = append(out, combined)
	}
	for _, ks := range sortedKeys(theirs) {
		if _, shared := ours[ks]; shared {
			continue
		}
		out = append(out, theirs[ks].Copy())
	}
	return New(out...), nil
}

// Equal reports whether both systems hold pairwise equal components,
// irrespective of order.
func (s *System) Equal(other *System) bool {
	if len(s.Components) != len(other.Components) {
		return false
	}
	a, b := s.sorted(), other.sorted()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (s *System) sorted() []*components.Component {
	out := append([]*components.Component(nil), s.Components...)
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Primitive returns the serialized document. The is_diff flag is
// authoritative for how every nested element primitive must be read back.
func (s *System) Primitive() map[string]any {
	comps := make([]any, 0, len(s.Components))
	for _, c := range s.sorted() {
		comps = append(comps, c.Primitive())
	}
	return map[string]any{
		"components": comps,
		"version":    Version,
		"is_diff":    s.IsDiff(),
	}
}

// FromPrimitive rebuilds a system from its serialized document.
func FromPrimitive(p any) (*System, error) {
	obj, ok := p.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: system must be an object, got %T", elements.ErrInvalidPrimitive, p)
	}
	if version, ok := obj["version"].(string); ok && version != Version {
		return nil, fmt.Errorf("%w: unsupported document version %q", elements.ErrInvalidPrimitive, version)
	}
	isDiff, ok := obj["is_diff"].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: system document missing is_diff", elements.ErrInvalidPrimitive)
	}
	rawComponents, ok := obj["components"].([]any)
	if !ok && obj["components"] != nil {
		return nil, fmt.Errorf("%w: system components must be an array", elements.ErrInvalidPrimitive)
	}
	comps := make([]*components.Component, 0, len(rawComponents))
	for _, raw := range rawComponents {
		c, err := components.FromPrimitive(raw, isDiff)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return New(comps...), nil
}

// removalPlaceholder fabricates the reserved component that marks key for
// deletion, smuggling the deleted key through the qualifier.
func removalPlaceholder(key components.DependencyKey) *components.Component {
	qualifier := append([]string{key.Name}, key.Qualifier...)
	return &components.Component{
		Name:      RemovalName,
		Qualifier: qualifier,
		Elements: map[string]elements.Element{
			"_": elements.AtomDiff(""),
		},
	}
}

// removalKey decodes the deleted key out of a removal placeholder.
func removalKey(c *components.Component) (components.DependencyKey, bool) {
	if c.Name != RemovalName || len(c.Qualifier) == 0 {
		return components.DependencyKey{}, false
	}
	return components.DependencyKey{Name: c.Qualifier[0], Qualifier: c.Qualifier[1:]}, true
}

func keyString(key components.DependencyKey) string {
	return key.Name + "\x00" + strings.Join(key.Qualifier, "\x00")
}

func sortedKeys(m map[string]*components.Component) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
