package elements

// Atom is an atomically replaceable string value.
type Atom string

func (Atom) Kind() Kind { return KindAtom }

func (a Atom) Diff(other Full) (Diff, error) {
	o, ok := other.(Atom)
	if !ok {
		return nil, typeMismatch("diff", KindAtom, other.Kind())
	}
	return AtomDiff(o), nil
}

func (a Atom) Apply(d Diff) (Full, error) {
	ad, ok := d.(AtomDiff)
	if !ok {
		return nil, typeMismatch("apply", KindAtom, d.Kind())
	}
	return Atom(ad), nil
}

// Combine for atoms is last-write-wins: the other value survives.
func (a Atom) Combine(other Full) (Full, error) {
	o, ok := other.(Atom)
	if !ok {
		return nil, typeMismatch("combine", KindAtom, other.Kind())
	}
	return o, nil
}

func (Atom) Zero() Full { return Atom("") }

func (a Atom) Copy() Full { return a }

func (a Atom) Primitive() any { return string(a) }

func (a Atom) String() string { return string(a) }

// AtomDiff carries the replacement value for an Atom.
type AtomDiff string

func (AtomDiff) Kind() Kind { return KindAtom }

func (d AtomDiff) Copy() Diff { return d }

func (d AtomDiff) Primitive() any { return string(d) }

func (d AtomDiff) String() string { return string(d) }

// Value returns the replacement value the diff carries.
func (d AtomDiff) Value() string { return string(d) }
