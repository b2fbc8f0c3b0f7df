// Package components groups named elements into the units that gatherers
// produce and renderers consume.
package components

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/danmuck/statectl/internal/elements"
)

// ErrIncompatible reports a pairwise operation between components that do
// not describe the same unit (or an invalid operand).
var ErrIncompatible = errors.New("components: incompatible components")

// DependencyKey uniquely identifies a component within a system.
type DependencyKey struct {
	Name      string
	Qualifier []string
}

func (k DependencyKey) String() string {
	if len(k.Qualifier) == 0 {
		return k.Name
	}
	return k.Name + "[" + strings.Join(k.Qualifier, "/") + "]"
}

// Equal reports whether both keys name the same component instance.
func (k DependencyKey) Equal(other DependencyKey) bool {
	return k.Name == other.Name && slices.Equal(k.Qualifier, other.Qualifier)
}

// Compare orders keys by name, then qualifier.
func (k DependencyKey) Compare(other DependencyKey) int {
	if c := strings.Compare(k.Name, other.Name); c != 0 {
		return c
	}
	return slices.Compare(k.Qualifier, other.Qualifier)
}

// Component is a named bag of named elements, disambiguated by a qualifier
// and ordered within a system by its declared dependencies. Elements are
// homogeneously full or homogeneously diff, never mixed.
type Component struct {
	Name         string
	Qualifier    []string
	Dependencies []DependencyKey
	Elements     map[string]elements.Element
}

// Key returns the (name, qualifier) pair identifying this component.
func (c *Component) Key() DependencyKey {
	return DependencyKey{Name: c.Name, Qualifier: c.Qualifier}
}

// IsDiff reports whether every element is a diff element.
func (c *Component) IsDiff() bool {
	for _, e := range c.Elements {
		if _, ok := e.(elements.Diff); !ok {
			return false
		}
	}
	return true
}

// IsFull reports whether every element is a full element.
func (c *Component) IsFull() bool {
	for _, e := range c.Elements {
		if _, ok := e.(elements.Full); !ok {
			return false
		}
	}
	return true
}

// IsValid reports whether the component is homogeneous (or empty).
func (c *Component) IsValid() bool {
	return c.IsDiff() || c.IsFull()
}

// ElementNames returns the element names in sorted order.
func (c *Component) ElementNames() []string {
	names := make([]string, 0, len(c.Elements))
	for name := range c.Elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Component) validateCompatible(other *Component) error {
	if !c.IsValid() || !other.IsValid() {
		return fmt.Errorf("%w: invalid operand", ErrIncompatible)
	}
	if c.Name != other.Name {
		return fmt.Errorf("%w: name %q vs %q", ErrIncompatible, c.Name, other.Name)
	}
	if !slices.Equal(c.Qualifier, other.Qualifier) {
		return fmt.Errorf("%w: component %q has mismatched qualifiers", ErrIncompatible, c.Name)
	}
	if !slices.EqualFunc(c.Dependencies, other.Dependencies, DependencyKey.Equal) {
		return fmt.Errorf("%w: component %q has mismatched dependencies", ErrIncompatible, c.Name)
	}
	if !slices.Equal(c.ElementNames(), other.ElementNames()) {
		return fmt.Errorf("%w: component %q has mismatched element sets", ErrIncompatible, c.Name)
	}
	return nil
}

func (c *Component) fullElements(op string) (map[string]elements.Full, error) {
	out := make(map[string]elements.Full, len(c.Elements))
	for name, e := range c.Elements {
		full, ok := e.(elements.Full)
		if !ok {
			return nil, fmt.Errorf("%w: cannot %s a diff component", ErrIncompatible, op)
		}
		out[name] = full
	}
	return out, nil
}

func (c *Component) diffElements(op string) (map[string]elements.Diff, error) {
	out := make(map[string]elements.Diff, len(c.Elements))
	for name, e := range c.Elements {
		d, ok := e.(elements.Diff)
		if !ok {
			return nil, fmt.Errorf("%w: %s requires a diff component", ErrIncompatible, op)
		}
		out[name] = d
	}
	return out, nil
}

func (c *Component) like(elems map[string]elements.Element) *Component {
	return &Component{
		Name:         c.Name,
		Qualifier:    slices.Clone(c.Qualifier),
		Dependencies: cloneKeys(c.Dependencies),
		Elements:     elems,
	}
}

// Diff produces the diff component that, applied to c, yields other.
func (c *Component) Diff(other *Component) (*Component, error) {
	if err := c.validateCompatible(other); err != nil {
		return nil, err
	}
	ours, err := c.fullElements("diff")
	if err != nil {
		return nil, err
	}
	theirs, err := other.fullElements("diff")
	if err != nil {
		return nil, err
	}
	elems := make(map[string]elements.Element, len(ours))
	for name, mine := range ours {
		d, err := mine.Diff(theirs[name])
		if err != nil {
			return nil, fmt.Errorf("component %q element %q: %w", c.Name, name, err)
		}
		elems[name] = d
	}
	return c.like(elems), nil
}

// Apply replays a diff component against this full component.
func (c *Component) Apply(other *Component) (*Component, error) {
	if err := c.validateCompatible(other); err != nil {
		return nil, err
	}
	ours, err := c.fullElements("apply")
	if err != nil {
		return nil, err
	}
	theirs, err := other.diffElements("apply")
	if err != nil {
		return nil, err
	}
	elems := make(map[string]elements.Element, len(ours))
	for name, mine := range ours {
		applied, err := mine.Apply(theirs[name])
		if err != nil {
			return nil, fmt.Errorf("component %q element %q: %w", c.Name, name, err)
		}
		elems[name] = applied
	}
	return c.like(elems), nil
}

// Combine merges two full components element by element.
func (c *Component) Combine(other *Component) (*Component, error) {
	if err := c.validateCompatible(other); err != nil {
		return nil, err
	}
	ours, err := c.fullElements("combine")
	if err != nil {
		return nil, err
	}
	theirs, err := other.fullElements("combine")
	if err != nil {
		return nil, err
	}
	elems := make(map[string]elements.Element, len(ours))
	for name, mine := range ours {
		combined, err := mine.Combine(theirs[name])
		if err != nil {
			return nil, fmt.Errorf("component %q element %q: %w", c.Name, name, err)
		}
		elems[name] = combined
	}
	return c.like(elems), nil
}

// ZeroDiff diffs every element from its zero value to itself, describing how
// to materialize this component from nothing.
func (c *Component) ZeroDiff() (*Component, error) {
	ours, err := c.fullElements("zerodiff")
	if err != nil {
		return nil, err
	}
	elems := make(map[string]elements.Element, len(ours))
	for name, mine := range ours {
		d, err := mine.Zero().Diff(mine)
		if err != nil {
			return nil, fmt.Errorf("component %q element %q: %w", c.Name, name, err)
		}
		elems[name] = d
	}
	return c.like(elems), nil
}

// ZeroApply reconstructs a full component from a zero diff.
func (c *Component) ZeroApply() (*Component, error) {
	theirs, err := c.diffElements("zeroapply")
	if err != nil {
		return nil, err
	}
	elems := make(map[string]elements.Element, len(theirs))
	for name, d := range theirs {
		full, err := zeroOf(d).Apply(d)
		if err != nil {
			return nil, fmt.Errorf("component %q element %q: %w", c.Name, name, err)
		}
		elems[name] = full
	}
	return c.like(elems), nil
}

func zeroOf(d elements.Diff) elements.Full {
	switch d.Kind() {
	case elements.KindAtom:
		return elements.Atom("")
	case elements.KindSet:
		return elements.Set{}
	case elements.KindMap:
		return elements.Map{}
	default:
		return elements.List{}
	}
}

// Copy returns a deep, independent duplicate.
func (c *Component) Copy() *Component {
	elems := make(map[string]elements.Element, len(c.Elements))
	for name, e := range c.Elements {
		switch v := e.(type) {
		case elements.Full:
			elems[name] = v.Copy()
		case elements.Diff:
			elems[name] = v.Copy()
		}
	}
	return c.like(elems)
}

// Equal reports deep equality of two components.
func (c *Component) Equal(other *Component) bool {
	if c.Name != other.Name || !slices.Equal(c.Qualifier, other.Qualifier) {
		return false
	}
	if !slices.EqualFunc(c.Dependencies, other.Dependencies, DependencyKey.Equal) {
		return false
	}
	if !slices.Equal(c.ElementNames(), other.ElementNames()) {
		return false
	}
	for name, e := range c.Elements {
		if !elements.Equal(e, other.Elements[name]) {
			return false
		}
	}
	return true
}

// Compare orders components by name, then qualifier, then element content.
func (c *Component) Compare(other *Component) int {
	if v := c.Key().Compare(other.Key()); v != 0 {
		return v
	}
	an, bn := c.ElementNames(), other.ElementNames()
	for i := 0; i < len(an) && i < len(bn); i++ {
		if v := strings.Compare(an[i], bn[i]); v != 0 {
			return v
		}
		if v := elements.Compare(c.Elements[an[i]], other.Elements[bn[i]]); v != 0 {
			return v
		}
	}
	return cmp.Compare(len(an), len(bn))
}

// Primitive returns the JSON-shaped encoding. Whether elements are full or
// diff is not recoverable from the shape alone; FromPrimitive takes an
// explicit isDiff flag for that reason.
func (c *Component) Primitive() map[string]any {
	deps := make([]any, len(c.Dependencies))
	for i, dep := range c.Dependencies {
		deps[i] = []any{dep.Name, stringsToAny(dep.Qualifier)}
	}
	elems := make(map[string]any, len(c.Elements))
	for name, e := range c.Elements {
		elems[name] = e.Primitive()
	}
	return map[string]any{
		"name":         c.Name,
		"dependencies": deps,
		"qualifier":    stringsToAny(c.Qualifier),
		"elements":     elems,
	}
}

// FromPrimitive rebuilds a component. The caller must know whether the
// document holds full or diff elements and say so via isDiff.
func FromPrimitive(p any, isDiff bool) (*Component, error) {
	obj, ok := p.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: component must be an object, got %T", elements.ErrInvalidPrimitive, p)
	}
	name, ok := obj["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: component name must be a string", elements.ErrInvalidPrimitive)
	}
	qualifier, err := stringSlice(obj["qualifier"])
	if err != nil {
		return nil, fmt.Errorf("component %q qualifier: %w", name, err)
	}
	deps, err := dependencySlice(obj["dependencies"])
	if err != nil {
		return nil, fmt.Errorf("component %q dependencies: %w", name, err)
	}
	rawElems, ok := obj["elements"].(map[string]any)
	if !ok && obj["elements"] != nil {
		return nil, fmt.Errorf("%w: component %q elements must be an object", elements.ErrInvalidPrimitive, name)
	}
	elems := make(map[string]elements.Element, len(rawElems))
	for elemName, rawElem := range rawElems {
		var e elements.Element
		var err error
		if isDiff {
			e, err = elements.DiffFromPrimitive(rawElem)
		} else {
			e, err = elements.FullFromPrimitive(rawElem)
		}
		if err != nil {
			return nil, fmt.Errorf("component %q element %q: %w", name, elemName, err)
		}
		elems[elemName] = e
	}
	return &Component{
		Name:         name,
		Qualifier:    qualifier,
		Dependencies: deps,
		Elements:     elems,
	}, nil
}

func cloneKeys(keys []DependencyKey) []DependencyKey {
	out := make([]DependencyKey, len(keys))
	for i, k := range keys {
		out[i] = DependencyKey{Name: k.Name, Qualifier: slices.Clone(k.Qualifier)}
	}
	return out
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func stringSlice(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array of strings, got %T", elements.ErrInvalidPrimitive, raw)
	}
	out := make([]string, len(entries))
	for i, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a string, got %T", elements.ErrInvalidPrimitive, entry)
		}
		out[i] = s
	}
	return out, nil
}

func dependencySlice(raw any) ([]DependencyKey, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array, got %T", elements.ErrInvalidPrimitive, raw)
	}
	out := make([]DependencyKey, 0, len(entries))
	for _, entry := range entries {
		pair, ok := entry.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: dependency must be a [name, qualifier] pair", elements.ErrInvalidPrimitive)
		}
		depName, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: dependency name must be a string", elements.ErrInvalidPrimitive)
		}
		qualifier, err := stringSlice(pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, DependencyKey{Name: depName, Qualifier: qualifier})
	}
	return out, nil
}
