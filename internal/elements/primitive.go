package elements

import (
	"fmt"
)

const (
	listTag = "list"
	setTag  = "set"
)

// FullFromPrimitive rebuilds a full element from its JSON-shaped encoding,
// branching on shape: a bare string is an Atom, an object is a Map, and an
// array is a List or Set according to its leading tag.
func FullFromPrimitive(p any) (Full, error) {
	switch v := p.(type) {
	case string:
		return Atom(v), nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: untagged empty array", ErrInvalidPrimitive)
		}
		tag, ok := v[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: array tag must be a string, got %T", ErrInvalidPrimitive, v[0])
		}
		switch tag {
		case listTag:
			items := make([]Atom, 0, len(v)-1)
			for _, raw := range v[1:] {
				s, ok := raw.(string)
				if !ok {
					return nil, fmt.Errorf("%w: list entry must be a string, got %T", ErrInvalidPrimitive, raw)
				}
				items = append(items, Atom(unescapeScalar(s)))
			}
			return List{items: items}, nil
		case setTag:
			items := make([]Full, 0, len(v)-1)
			for _, raw := range v[1:] {
				item, err := FullFromPrimitive(raw)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			return newSet(items), nil
		default:
			return nil, fmt.Errorf("%w: unknown array tag %q", ErrInvalidPrimitive, tag)
		}
	case map[string]any:
		entries := make(map[string]Full, len(v))
		for key, raw := range v {
			item, err := FullFromPrimitive(raw)
			if err != nil {
				return nil, fmt.Errorf("map key %q: %w", key, err)
			}
			entries[key] = item
		}
		return Map{entries: entries}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidPrimitive, p)
	}
}

// DiffFromPrimitive rebuilds a diff element from its JSON-shaped encoding. A
// bare string is an AtomDiff, an array is a ListDiff opcode stream, and an
// object is dispatched on its diff_type discriminator.
func DiffFromPrimitive(p any) (Diff, error) {
	switch v := p.(type) {
	case string:
		return AtomDiff(v), nil
	case []any:
		return listDiffFromPrimitive(v)
	case map[string]any:
		rawType, ok := v["diff_type"]
		if !ok {
			return nil, fmt.Errorf("%w: diff object missing diff_type", ErrInvalidPrimitive)
		}
		switch rawType {
		case setTag:
			return setDiffFromPrimitive(v)
		case mapTag:
			return mapDiffFromPrimitive(v)
		default:
			return nil, fmt.Errorf("%w: unknown diff_type %v", ErrInvalidPrimitive, rawType)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidPrimitive, p)
	}
}

const mapTag = "map"

func listDiffFromPrimitive(v []any) (Diff, error) {
	ops := make([]ListOp, 0, len(v))
	for i, raw := range v {
		triple, ok := raw.([]any)
		if !ok || len(triple) != 3 {
			return nil, fmt.Errorf("%w: list diff entry %d must be an [opcode, index, value] triple", ErrInvalidPrimitive, i)
		}
		opcode, ok := triple[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: list diff entry %d: opcode must be a string", ErrInvalidPrimitive, i)
		}
		switch opcode {
		case OpEqual, OpReplace, OpInsert, OpDelete:
		default:
			return nil, fmt.Errorf("%w: list diff entry %d: invalid opcode %q", ErrInvalidPrimitive, i, opcode)
		}
		idx, err := primitiveInt(triple[1])
		if err != nil {
			return nil, fmt.Errorf("%w: list diff entry %d: %v", ErrInvalidPrimitive, i, err)
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: list diff entry %d: negative index %d", ErrInvalidPrimitive, i, idx)
		}
		value, ok := triple[2].(string)
		if !ok {
			return nil, fmt.Errorf("%w: list diff entry %d: value must be a string", ErrInvalidPrimitive, i)
		}
		ops = append(ops, ListOp{Op: opcode, Index: idx, Value: unescapeScalar(value)})
	}
	return ListDiff{Ops: ops}, nil
}

func setDiffFromPrimitive(v map[string]any) (Diff, error) {
	toAdd, err := fullSliceFromPrimitive(v["to_add"])
	if err != nil {
		return nil, fmt.Errorf("set diff to_add: %w", err)
	}
	toRemove, err := fullSliceFromPrimitive(v["to_remove"])
	if err != nil {
		return nil, fmt.Errorf("set diff to_remove: %w", err)
	}
	return SetDiff{ToAdd: toAdd, ToRemove: toRemove}, nil
}

func mapDiffFromPrimitive(v map[string]any) (Diff, error) {
	d := MapDiff{
		ItemsToAdd: map[string]Full{},
		ItemsToSet: map[string]Diff{},
	}
	if raw, ok := v["keys_to_remove"]; ok && raw != nil {
		entries, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: map diff keys_to_remove must be an array", ErrInvalidPrimitive)
		}
		for _, rawKey := range entries {
			key, ok := rawKey.(string)
			if !ok {
				return nil, fmt.Errorf("%w: map diff removed key must be a string", ErrInvalidPrimitive)
			}
			d.KeysToRemove = append(d.KeysToRemove, key)
		}
	}
	if raw, ok := v["items_to_add"]; ok && raw != nil {
		entries, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: map diff items_to_add must be an object", ErrInvalidPrimitive)
		}
		for key, rawItem := range entries {
			item, err := FullFromPrimitive(rawItem)
			if err != nil {
				return nil, fmt.Errorf("map diff added key %q: %w", key, err)
			}
			d.ItemsToAdd[key] = item
		}
	}
	if raw, ok := v["items_to_set"]; ok && raw != nil {
		entries, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: map diff items_to_set must be an object", ErrInvalidPrimitive)
		}
		for key, rawItem := range entries {
			item, err := DiffFromPrimitive(rawItem)
			if err != nil {
				return nil, fmt.Errorf("map diff changed key %q: %w", key, err)
			}
			d.ItemsToSet[key] = item
		}
	}
	return d, nil
}

func fullSliceFromPrimitive(raw any) ([]Full, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array, got %T", ErrInvalidPrimitive, raw)
	}
	items := make([]Full, 0, len(entries))
	for _, entry := range entries {
		item, err := FullFromPrimitive(entry)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// primitiveInt accepts the integer representations produced by the JSON and
// msgpack decoders.
func primitiveInt(raw any) (int, error) {
	switch n := raw.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("index %v is not an integer", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("index must be an integer, got %T", raw)
	}
}
