package elements

import (
	"errors"
	"fmt"
)

// Kind tags the concrete shape of an element. The variant is closed: every
// operation dispatches over exactly these four kinds.
type Kind uint8

const (
	KindAtom Kind = iota
	KindSet
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var (
	// ErrTypeMismatch reports diff/apply/combine across incompatible kinds.
	ErrTypeMismatch = errors.New("elements: type mismatch")
	// ErrConsistency reports a diff applied against content that no longer
	// matches what the diff was produced from.
	ErrConsistency = errors.New("elements: diff does not match target content")
	// ErrInvalidPrimitive reports malformed serialized input.
	ErrInvalidPrimitive = errors.New("elements: invalid primitive")
)

// Element is any algebra value, full or diff.
type Element interface {
	Kind() Kind
	// Primitive returns the JSON-shaped encoding of the element. Map keys
	// and set entries are emitted in canonical sorted order.
	Primitive() any
}

// Full is a complete, self-contained configuration value.
type Full interface {
	Element

	// Diff produces the diff that, applied to the receiver, yields other.
	Diff(other Full) (Diff, error)
	// Apply replays a diff produced by Diff against the receiver.
	Apply(d Diff) (Full, error)
	// Combine merges the contents of both operands, recursing into shared
	// structure, rather than replacing.
	Combine(other Full) (Full, error)
	// Zero returns the identity value of the receiver's kind.
	Zero() Full
	// Copy returns a deep, independent duplicate.
	Copy() Full
}

// Diff describes the transformation between two full elements of one kind.
type Diff interface {
	Element

	// Copy returns a deep, independent duplicate.
	Copy() Diff
}

func typeMismatch(op string, want, got Kind) error {
	return fmt.Errorf("%w: cannot %s %s with %s", ErrTypeMismatch, op, want, got)
}

// Equal reports structural equality of two elements of the same shape.
func Equal(a, b Element) bool {
	return Compare(a, b) == 0
}
