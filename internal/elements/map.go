package elements

import (
	"fmt"
	"sort"
)

// Map is a string-keyed collection of full elements. Keys are Atom values;
// contained elements may be any full kind and are recursed into by
// diff/apply/combine.
type Map struct {
	entries map[string]Full
}

// NewMap builds a map from the given entries.
func NewMap(entries map[string]Full) Map {
	m := Map{entries: make(map[string]Full, len(entries))}
	for k, v := range entries {
		m.entries[k] = v.Copy()
	}
	return m
}

// NewMapOfStrings builds a Map of Atoms.
func NewMapOfStrings(entries map[string]string) Map {
	m := Map{entries: make(map[string]Full, len(entries))}
	for k, v := range entries {
		m.entries[k] = Atom(v)
	}
	return m
}

func (Map) Kind() Kind { return KindMap }

// Len returns the number of entries.
func (m Map) Len() int { return len(m.entries) }

// Get returns the element stored under key.
func (m Map) Get(key string) (Full, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Map) Diff(other Full) (Diff, error) {
	o, ok := other.(Map)
	if !ok {
		return nil, typeMismatch("diff", KindMap, other.Kind())
	}
	d := MapDiff{
		ItemsToAdd: map[string]Full{},
		ItemsToSet: map[string]Diff{},
	}
	for _, key := range m.Keys() {
		if _, present := o.entries[key]; !present {
			d.KeysToRemove = append(d.KeysToRemove, key)
		}
	}
	for _, key := range o.Keys() {
		theirs := o.entries[key]
		ours, present := m.entries[key]
		if !present {
			d.ItemsToAdd[key] = theirs.Copy()
			continue
		}
		if Equal(ours, theirs) {
			continue
		}
		vd, err := ours.Diff(theirs)
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", key, err)
		}
		d.ItemsToSet[key] = vd
	}
	return d, nil
}

func (m Map) Apply(d Diff) (Full, error) {
	md, ok := d.(MapDiff)
	if !ok {
		return nil, typeMismatch("apply", KindMap, d.Kind())
	}
	entries := make(map[string]Full, len(m.entries))
	for k, v := range m.entries {
		entries[k] = v.Copy()
	}
	for _, key := range md.KeysToRemove {
		if _, present := entries[key]; !present {
			return nil, fmt.Errorf("%w: map apply: key %q not present", ErrConsistency, key)
		}
		delete(entries, key)
	}
	for _, key := range sortedKeysOfDiffs(md.ItemsToSet) {
		existing, present := entries[key]
		if !present {
			return nil, fmt.Errorf("%w: map apply: key %q not present", ErrConsistency, key)
		}
		applied, err := existing.Apply(md.ItemsToSet[key])
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", key, err)
		}
		entries[key] = applied
	}
	for _, key := range sortedKeysOfFulls(md.ItemsToAdd) {
		entries[key] = md.ItemsToAdd[key].Copy()
	}
	return Map{entries: entries}, nil
}

// Combine copies one-sided keys and recursively combines shared keys. This
// is what distinguishes combine from replaying a zero-diff: nested structure
// under a shared key is merged, not overwritten.
func (m Map) Combine(other Full) (Full, error) {
	o, ok := other.(Map)
	if !ok {
		return nil, typeMismatch("combine", KindMap, other.Kind())
	}
	entries := make(map[string]Full, len(m.entries)+len(o.entries))
	for k, v := range m.entries {
		entries[k] = v.Copy()
	}
	for _, key := range o.Keys() {
		theirs := o.entries[key]
		ours, present := entries[key]
		if !present {
			entries[key] = theirs.Copy()
			continue
		}
		combined, err := ours.Combine(theirs)
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", key, err)
		}
		entries[key] = combined
	}
	return Map{entries: entries}, nil
}

func (Map) Zero() Full { return Map{} }

func (m Map) Copy() Full {
	entries := make(map[string]Full, len(m.entries))
	for k, v := range m.entries {
		entries[k] = v.Copy()
	}
	return Map{entries: entries}
}

func (m Map) Primitive() any {
	out := make(map[string]any, len(m.entries))
	for k, v := range m.entries {
		out[k] = v.Primitive()
	}
	return out
}

// MapDiff carries removed keys, added entries (full, deep-copied) and
// changed entries (diffed recursively via the contained kind).
type MapDiff struct {
	KeysToRemove []string
	ItemsToAdd   map[string]Full
	ItemsToSet   map[string]Diff
}

func (MapDiff) Kind() Kind { return KindMap }

// Empty reports whether the diff changes nothing.
func (d MapDiff) Empty() bool {
	return len(d.KeysToRemove) == 0 && len(d.ItemsToAdd) == 0 && len(d.ItemsToSet) == 0
}

func (d MapDiff) Copy() Diff {
	out := MapDiff{
		KeysToRemove: append([]string(nil), d.KeysToRemove...),
		ItemsToAdd:   make(map[string]Full, len(d.ItemsToAdd)),
		ItemsToSet:   make(map[string]Diff, len(d.ItemsToSet)),
	}
	for k, v := range d.ItemsToAdd {
		out.ItemsToAdd[k] = v.Copy()
	}
	for k, v := range d.ItemsToSet {
		out.ItemsToSet[k] = v.Copy()
	}
	return out
}

func (d MapDiff) Primitive() any {
	removed := append([]string(nil), d.KeysToRemove...)
	sort.Strings(removed)
	toRemove := make([]any, len(removed))
	for i, k := range removed {
		toRemove[i] = k
	}
	added := make(map[string]any, len(d.ItemsToAdd))
	for k, v := range d.ItemsToAdd {
		added[k] = v.Primitive()
	}
	set := make(map[string]any, len(d.ItemsToSet))
	for k, v := range d.ItemsToSet {
		set[k] = v.Primitive()
	}
	return map[string]any{
		"diff_type":      mapTag,
		"keys_to_remove": toRemove,
		"items_to_add":   added,
		"items_to_set":   set,
	}
}

func sortedKeysOfFulls(m map[string]Full) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysOfDiffs(m map[string]Diff) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
