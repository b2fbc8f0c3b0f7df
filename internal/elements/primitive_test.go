package elements

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonCycle pushes a primitive through real JSON encoding, so decoded
// numbers arrive as float64 exactly like production documents.
func jsonCycle(t *testing.T, p any) any {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestPrimitiveShapes(t *testing.T) {
	t.Run("atom is a bare string", func(t *testing.T) {
		assert.Equal(t, "x", Atom("x").Primitive())
	})

	t.Run("set carries its tag", func(t *testing.T) {
		p := NewSetOfStrings("b", "a").Primitive()
		assert.Equal(t, []any{"set", "a", "b"}, p)
	})

	t.Run("list carries its tag", func(t *testing.T) {
		p := NewLines([]string{"one", "two"}).Primitive()
		assert.Equal(t, []any{"list", "one", "two"}, p)
	})

	t.Run("map is a plain object", func(t *testing.T) {
		p := NewMapOfStrings(map[string]string{"k": "v"}).Primitive()
		assert.Equal(t, map[string]any{"k": "v"}, p)
	})
}

func TestPrimitiveThroughJSON(t *testing.T) {
	fulls := []Full{
		Atom("atom"),
		NewSetOfStrings("a", "b"),
		NewSet(NewSetOfStrings("x"), NewMapOfStrings(map[string]string{"k": "v"})),
		NewMap(map[string]Full{"versions": NewSetOfStrings("1.0", "2.0")}),
		NewLines([]string{"plain", "with\nnewline", `with\backslash`}),
	}
	for _, f := range fulls {
		decoded, err := FullFromPrimitive(jsonCycle(t, f.Primitive()))
		require.NoError(t, err)
		assert.True(t, Equal(decoded, f), "got %#v want %#v", decoded, f)
	}
}

func TestDiffPrimitiveThroughJSON(t *testing.T) {
	pairs := []struct{ a, b Full }{
		{Atom("a"), Atom("b")},
		{NewSetOfStrings("a", "both"), NewSetOfStrings("b", "both")},
		{
			NewMapOfStrings(map[string]string{"a": "a", "changed": "x"}),
			NewMapOfStrings(map[string]string{"b": "b", "changed": "y"}),
		},
		{NewLines([]string{"keep", "old\nvalue"}), NewLines([]string{"keep", "new\nvalue"})},
	}
	for _, pair := range pairs {
		d, err := pair.a.Diff(pair.b)
		require.NoError(t, err)
		decoded, err := DiffFromPrimitive(jsonCycle(t, d.Primitive()))
		require.NoError(t, err)
		assert.True(t, Equal(decoded, d), "got %#v want %#v", decoded, d)
	}
}

func TestListEscapeEncoding(t *testing.T) {
	list := NewLines([]string{"python 3.9.6\n", `back\slash`})
	p := list.Primitive().([]any)
	assert.Equal(t, []any{"list", `python 3.9.6\n`, `back\\slash`}, p)

	decoded, err := FullFromPrimitive(p)
	require.NoError(t, err)
	assert.True(t, Equal(decoded, list))
}

func TestListDiffPrimitiveIsOpcodeTriples(t *testing.T) {
	a := NewLines([]string{"e", "python 3.9.6\n"})
	b := NewLines([]string{"e", "python 3.9.6\n", "ruby 3.0.2\n"})
	d, err := a.Diff(b)
	require.NoError(t, err)

	p := d.Primitive().([]any)
	assert.Equal(t, []any{
		[]any{"=", 1, `python 3.9.6\n`},
		[]any{"+", 2, `ruby 3.0.2\n`},
	}, p)
}

func TestInvalidPrimitives(t *testing.T) {
	cases := []struct {
		name string
		p    any
	}{
		{"untagged empty array", []any{}},
		{"unknown tag", []any{"tuple", "a"}},
		{"non-string tag", []any{1.0, "a"}},
		{"non-string list entry", []any{"list", 3.0}},
		{"unsupported scalar", 42.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FullFromPrimitive(tc.p)
			require.ErrorIs(t, err, ErrInvalidPrimitive)
		})
	}

	diffCases := []struct {
		name string
		p    any
	}{
		{"missing diff_type", map[string]any{"to_add": []any{}}},
		{"unknown diff_type", map[string]any{"diff_type": "tuple"}},
		{"malformed opcode triple", []any{[]any{"="}}},
		{"invalid opcode", []any{[]any{"?", 0.0, "x"}}},
		{"fractional index", []any{[]any{"=", 1.5, "x"}}},
		{"negative index", []any{[]any{"=", -1.0, "x"}}},
	}
	for _, tc := range diffCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DiffFromPrimitive(tc.p)
			require.ErrorIs(t, err, ErrInvalidPrimitive)
		})
	}
}
