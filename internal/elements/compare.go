package elements

import (
	"cmp"
	"sort"
	"strings"
)

// Compare is a total, side-effect-free structural order over elements. It is
// independent of any native hashing or map semantics, which lets containers
// nest (Set of Set, Set of Map) and gives serialization and iteration a
// stable sort. Atoms order lexicographically; containers compare as sorted
// multisets or tuples, with the first differing minimal entry deciding and a
// shorter prefix-equal operand ordering first. Distinct shapes order by an
// arbitrary but fixed rank.
func Compare(a, b Element) int {
	if c := cmp.Compare(shapeRank(a), shapeRank(b)); c != 0 {
		return c
	}
	switch av := a.(type) {
	case Atom:
		return strings.Compare(string(av), string(b.(Atom)))
	case Set:
		return compareFullSlice(av.items, b.(Set).items)
	case Map:
		return compareMaps(av, b.(Map))
	case List:
		return compareAtomSlice(av.items, b.(List).items)
	case AtomDiff:
		return strings.Compare(string(av), string(b.(AtomDiff)))
	case SetDiff:
		bv := b.(SetDiff)
		if c := compareFullSlice(sortedFulls(av.ToAdd), sortedFulls(bv.ToAdd)); c != 0 {
			return c
		}
		return compareFullSlice(sortedFulls(av.ToRemove), sortedFulls(bv.ToRemove))
	case MapDiff:
		return compareMapDiffs(av, b.(MapDiff))
	case ListDiff:
		return compareOps(av.Ops, b.(ListDiff).Ops)
	default:
		return 0
	}
}

func shapeRank(e Element) int {
	switch e.(type) {
	case Atom:
		return 0
	case Set:
		return 1
	case Map:
		return 2
	case List:
		return 3
	case AtomDiff:
		return 4
	case SetDiff:
		return 5
	case MapDiff:
		return 6
	case ListDiff:
		return 7
	default:
		return 8
	}
}

func compareFullSlice(a, b []Full) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareAtomSlice(a, b []Atom) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(string(a[i]), string(b[i])); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareMaps(a, b Map) int {
	ak, bk := a.Keys(), b.Keys()
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := Compare(a.entries[ak[i]], b.entries[bk[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ak), len(bk))
}

func compareMapDiffs(a, b MapDiff) int {
	ar := append([]string(nil), a.KeysToRemove...)
	br := append([]string(nil), b.KeysToRemove...)
	sort.Strings(ar)
	sort.Strings(br)
	if c := compareStringSlice(ar, br); c != 0 {
		return c
	}
	if c := compareFullMaps(a.ItemsToAdd, b.ItemsToAdd); c != 0 {
		return c
	}
	return compareDiffMaps(a.ItemsToSet, b.ItemsToSet)
}

func compareStringSlice(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareFullMaps(a, b map[string]Full) int {
	ak, bk := sortedKeysOfFulls(a), sortedKeysOfFulls(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := Compare(a[ak[i]], b[bk[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ak), len(bk))
}

func compareDiffMaps(a, b map[string]Diff) int {
	ak, bk := sortedKeysOfDiffs(a), sortedKeysOfDiffs(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := Compare(a[ak[i]], b[bk[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ak), len(bk))
}

func compareOps(a, b []ListOp) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i].Op, b[i].Op); c != 0 {
			return c
		}
		if c := cmp.Compare(a[i].Index, b[i].Index); c != 0 {
			return c
		}
		if c := strings.Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}
