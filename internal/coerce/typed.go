// internal/coerce/typed.go
//
// Normalisation of already-typed values.
//
// Explicit overrides and YAML file layers bypass string coercion, but
// the invariant still holds: every resolved leaf carries exactly the
// declared type.  Typed checks a Go value against a Type and converts
// the common aliases (int → int64, float32 → float64, []any → typed
// slice) so the resolved tree is uniform regardless of which layer a
// value came from.
package coerce

import "fmt"

// Typed returns v normalised to t's canonical Go representation, or an
// error naming the mismatch.
func Typed(v any, t Type) (any, error) {
	switch t.Kind {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case Int:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		}
	case Float:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		case int:
			return float64(f), nil
		case int64:
			return float64(f), nil
		}
	case Enum:
		if s, ok := v.(string); ok {
			return Value(s, t)
		}
	case List:
		return typedList(v, *t.Elem)
	}
	return nil, fmt.Errorf("value %v (%T) is not a valid %s", v, v, t.Name())
}

func typedList(v any, elem Type) (any, error) {
	// Already-typed slices pass through after a per-element check; the
	// []any form comes from YAML decoding.
	var items []any
	switch s := v.(type) {
	case []any:
		items = s
	case []string:
		items = make([]any, len(s))
		for i, e := range s {
			items[i] = e
		}
	case []int:
		items = make([]any, len(s))
		for i, e := range s {
			items[i] = e
		}
	case []int64:
		items = make([]any, len(s))
		for i, e := range s {
			items[i] = e
		}
	case []float64:
		items = make([]any, len(s))
		for i, e := range s {
			items[i] = e
		}
	case []bool:
		items = make([]any, len(s))
		for i, e := range s {
			items[i] = e
		}
	default:
		return nil, fmt.Errorf("value %v (%T) is not a list", v, v)
	}

	switch elem.Kind {
	case String, Enum:
		out := make([]string, 0, len(items))
		for _, it := range items {
			e, err := Typed(it, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, e.(string))
		}
		return out, nil
	case Bool:
		out := make([]bool, 0, len(items))
		for _, it := range items {
			e, err := Typed(it, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, e.(bool))
		}
		return out, nil
	case Int:
		out := make([]int64, 0, len(items))
		for _, it := range items {
			e, err := Typed(it, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, e.(int64))
		}
		return out, nil
	case Float:
		out := make([]float64, 0, len(items))
		for _, it := range items {
			e, err := Typed(it, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, e.(float64))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported list element type %s", elem.Name())
}
