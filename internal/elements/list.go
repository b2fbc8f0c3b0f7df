package elements

import (
	"fmt"
	"slices"

	"github.com/pmezard/go-difflib/difflib"
)

// Opcode identifiers used in list-diff entries.
const (
	OpEqual   = "="
	OpReplace = "~"
	OpInsert  = "+"
	OpDelete  = "-"
)

// List is an ordered sequence of Atoms.
type List struct {
	items []Atom
}

// NewList builds a list from the given atoms.
func NewList(items ...Atom) List {
	return List{items: slices.Clone(items)}
}

// NewLines builds a List of Atoms from plain strings.
func NewLines(lines []string) List {
	items := make([]Atom, len(lines))
	for i, line := range lines {
		items[i] = Atom(line)
	}
	return List{items: items}
}

func (List) Kind() Kind { return KindList }

// Len returns the number of entries.
func (l List) Len() int { return len(l.items) }

// Items returns the entries in order.
func (l List) Items() []Atom { return slices.Clone(l.items) }

// Strings returns the entries as plain strings.
func (l List) Strings() []string {
	out := make([]string, len(l.items))
	for i, item := range l.items {
		out[i] = string(item)
	}
	return out
}

// Diff aligns both lists with a longest-common-subsequence match and emits an
// opcode stream indexed against other's positions, bracketing each change
// with one entry of equal context for anchoring.
func (l List) Diff(other Full) (Diff, error) {
	o, ok := other.(List)
	if !ok {
		return nil, typeMismatch("diff", KindList, other.Kind())
	}
	a, b := l.Strings(), o.Strings()
	var ops []ListOp
	for _, group := range difflib.NewMatcher(a, b).GetGroupedOpCodes(1) {
		for _, oc := range group {
			switch oc.Tag {
			case 'e':
				for j := oc.J1; j < oc.J2; j++ {
					ops = append(ops, ListOp{Op: OpEqual, Index: j, Value: b[j]})
				}
			case 'r':
				// A replace run may cover spans of different lengths; the
				// overlap is replaced in place and the excess becomes plain
				// inserts or deletes so that replaying the stream always
				// reconstructs other exactly.
				common := min(oc.I2-oc.I1, oc.J2-oc.J1)
				for k := 0; k < common; k++ {
					ops = append(ops, ListOp{Op: OpReplace, Index: oc.J1 + k, Value: b[oc.J1+k]})
				}
				for j := oc.J1 + common; j < oc.J2; j++ {
					ops = append(ops, ListOp{Op: OpInsert, Index: j, Value: b[j]})
				}
				for i := oc.I1 + common; i < oc.I2; i++ {
					ops = append(ops, ListOp{Op: OpDelete, Index: oc.J2, Value: a[i]})
				}
			case 'i':
				for j := oc.J1; j < oc.J2; j++ {
					ops = append(ops, ListOp{Op: OpInsert, Index: j, Value: b[j]})
				}
			case 'd':
				for i := oc.I1; i < oc.I2; i++ {
					ops = append(ops, ListOp{Op: OpDelete, Index: oc.J1, Value: a[i]})
				}
			}
		}
	}
	return ListDiff{Ops: ops}, nil
}

// Apply replays the opcode stream. Equal opcodes are anchors: if the recorded
// value no longer matches the receiver's content at that position the diff is
// stale and the apply fails.
func (l List) Apply(d Diff) (Full, error) {
	ld, ok := d.(ListDiff)
	if !ok {
		return nil, typeMismatch("apply", KindList, d.Kind())
	}
	items := slices.Clone(l.items)
	for _, op := range ld.Ops {
		switch op.Op {
		case OpEqual:
			if op.Index < 0 || op.Index >= len(items) || items[op.Index] != Atom(op.Value) {
				return nil, fmt.Errorf("%w: list apply: anchor mismatch at offset %d, expected %q", ErrConsistency, op.Index, op.Value)
			}
		case OpReplace:
			if op.Index < 0 || op.Index >= len(items) {
				return nil, fmt.Errorf("%w: list apply: replace offset %d out of range", ErrConsistency, op.Index)
			}
			items[op.Index] = Atom(op.Value)
		case OpInsert:
			if op.Index < 0 || op.Index > len(items) {
				return nil, fmt.Errorf("%w: list apply: insert offset %d out of range", ErrConsistency, op.Index)
			}
			items = slices.Insert(items, op.Index, Atom(op.Value))
		case OpDelete:
			if op.Index < 0 || op.Index >= len(items) {
				return nil, fmt.Errorf("%w: list apply: delete offset %d out of range", ErrConsistency, op.Index)
			}
			items = slices.Delete(items, op.Index, op.Index+1)
		default:
			return nil, fmt.Errorf("%w: list apply: invalid opcode %q", ErrInvalidPrimitive, op.Op)
		}
	}
	return List{items: items}, nil
}

// Combine replays the diff towards other but only ever inserts: deletions
// are skipped and replacements keep both values side by side, so the content
// of both lists survives.
func (l List) Combine(other Full) (Full, error) {
	o, ok := other.(List)
	if !ok {
		return nil, typeMismatch("combine", KindList, other.Kind())
	}
	d, err := l.Diff(o)
	if err != nil {
		return nil, err
	}
	ld := d.(ListDiff)
	items := slices.Clone(l.items)
	// offset tracks how far the combined list has drifted ahead of the
	// positions the opcode stream was indexed against.
	offset := 0
	for _, op := range ld.Ops {
		at := op.Index + offset
		switch op.Op {
		case OpEqual:
			if at >= len(items) || items[at] != Atom(op.Value) {
				return nil, fmt.Errorf("%w: list combine: anchor mismatch at offset %d", ErrConsistency, op.Index)
			}
		case OpDelete:
			offset++
		case OpInsert:
			if at > len(items) {
				return nil, fmt.Errorf("%w: list combine: insert offset %d out of range", ErrConsistency, op.Index)
			}
			items = slices.Insert(items, at, Atom(op.Value))
		case OpReplace:
			if at > len(items) {
				return nil, fmt.Errorf("%w: list combine: replace offset %d out of range", ErrConsistency, op.Index)
			}
			items = slices.Insert(items, at, Atom(op.Value))
			offset++
		}
	}
	return List{items: items}, nil
}

func (List) Zero() Full { return List{} }

func (l List) Copy() Full { return List{items: slices.Clone(l.items)} }

func (l List) Primitive() any {
	out := make([]any, 0, len(l.items)+1)
	out = append(out, listTag)
	for _, item := range l.items {
		out = append(out, escapeScalar(string(item)))
	}
	return out
}

// ListOp is one entry of a list-diff opcode stream. Index addresses the
// target list's frame; Value carries the affected content.
type ListOp struct {
	Op    string
	Index int
	Value string
}

// ListDiff is an ordered opcode stream transforming one List into another.
type ListDiff struct {
	Ops []ListOp
}

func (ListDiff) Kind() Kind { return KindList }

// Empty reports whether the diff changes nothing.
func (d ListDiff) Empty() bool { return len(d.Ops) == 0 }

func (d ListDiff) Copy() Diff { return ListDiff{Ops: slices.Clone(d.Ops)} }

func (d ListDiff) Primitive() any {
	out := make([]any, len(d.Ops))
	for i, op := range d.Ops {
		out[i] = []any{op.Op, op.Index, escapeScalar(op.Value)}
	}
	return out
}
