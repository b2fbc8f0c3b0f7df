package elements

import (
	"slices"
	"sort"
)

// Set is an unordered collection of full elements. Internally entries are
// kept sorted by the structural order and deduplicated, which makes every
// operation deterministic.
type Set struct {
	items []Full
}

// NewSet builds a set from the given elements, deduplicating structurally
// equal entries.
func NewSet(items ...Full) Set {
	return newSet(slices.Clone(items))
}

// NewSetOfStrings builds a Set of Atoms.
func NewSetOfStrings(values ...string) Set {
	items := make([]Full, 0, len(values))
	for _, v := range values {
		items = append(items, Atom(v))
	}
	return newSet(items)
}

func newSet(items []Full) Set {
	sort.SliceStable(items, func(i, j int) bool { return Compare(items[i], items[j]) < 0 })
	deduped := items[:0]
	for _, item := range items {
		if len(deduped) == 0 || Compare(deduped[len(deduped)-1], item) != 0 {
			deduped = append(deduped, item)
		}
	}
	return Set{items: deduped}
}

func (Set) Kind() Kind { return KindSet }

// Len returns the number of entries.
func (s Set) Len() int { return len(s.items) }

// Items returns the entries in structural order.
func (s Set) Items() []Full { return slices.Clone(s.items) }

// Contains reports whether a structurally equal entry is present.
func (s Set) Contains(item Full) bool {
	_, found := sort.Find(len(s.items), func(i int) int { return Compare(item, s.items[i]) })
	return found
}

// Strings returns the entries of a set of Atoms as plain strings; non-Atom
// entries are skipped.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if a, ok := item.(Atom); ok {
			out = append(out, string(a))
		}
	}
	return out
}

func (s Set) Diff(other Full) (Diff, error) {
	o, ok := other.(Set)
	if !ok {
		return nil, typeMismatch("diff", KindSet, other.Kind())
	}
	return SetDiff{
		ToAdd:    o.difference(s),
		ToRemove: s.difference(o),
	}, nil
}

// difference returns deep copies of the entries of s absent from other.
func (s Set) difference(other Set) []Full {
	var out []Full
	for _, item := range s.items {
		if !other.Contains(item) {
			out = append(out, item.Copy())
		}
	}
	return out
}

func (s Set) Apply(d Diff) (Full, error) {
	sd, ok := d.(SetDiff)
	if !ok {
		return nil, typeMismatch("apply", KindSet, d.Kind())
	}
	remove := newSet(slices.Clone(sd.ToRemove))
	items := make([]Full, 0, len(s.items)+len(sd.ToAdd))
	for _, item := range s.items {
		if !remove.Contains(item) {
			items = append(items, item.Copy())
		}
	}
	for _, item := range sd.ToAdd {
		items = append(items, item.Copy())
	}
	return newSet(items), nil
}

// Combine unions both sets; nothing is removed.
func (s Set) Combine(other Full) (Full, error) {
	o, ok := other.(Set)
	if !ok {
		return nil, typeMismatch("combine", KindSet, other.Kind())
	}
	items := make([]Full, 0, len(s.items)+len(o.items))
	for _, item := range s.items {
		items = append(items, item.Copy())
	}
	for _, item := range o.items {
		items = append(items, item.Copy())
	}
	return newSet(items), nil
}

func (Set) Zero() Full { return Set{} }

func (s Set) Copy() Full {
	items := make([]Full, len(s.items))
	for i, item := range s.items {
		items[i] = item.Copy()
	}
	return Set{items: items}
}

func (s Set) Primitive() any {
	out := make([]any, 0, len(s.items)+1)
	out = append(out, setTag)
	for _, item := range s.items {
		out = append(out, item.Primitive())
	}
	return out
}

// SetDiff carries the entries to add and remove, each a full element of the
// contained kind.
type SetDiff struct {
	ToAdd    []Full
	ToRemove []Full
}

func (SetDiff) Kind() Kind { return KindSet }

func (d SetDiff) Copy() Diff {
	return SetDiff{ToAdd: copyFulls(d.ToAdd), ToRemove: copyFulls(d.ToRemove)}
}

func (d SetDiff) Primitive() any {
	return map[string]any{
		"diff_type": setTag,
		"to_add":    fullPrimitives(sortedFulls(d.ToAdd)),
		"to_remove": fullPrimitives(sortedFulls(d.ToRemove)),
	}
}

func copyFulls(items []Full) []Full {
	out := make([]Full, len(items))
	for i, item := range items {
		out[i] = item.Copy()
	}
	return out
}

func sortedFulls(items []Full) []Full {
	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

func fullPrimitives(items []Full) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.Primitive()
	}
	return out
}
