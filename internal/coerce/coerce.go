// internal/coerce/coerce.go
//
// Raw string → typed value conversion.
//
// Context
// -------
// Environment variables and dotenv files only carry strings.  Every
// settings leaf declares a target type, and this package is the single
// place where raw strings become typed values: booleans from a fixed
// vocabulary, numbers via locale-independent strconv parsing, enums by
// case-insensitive member match, and lists by comma splitting with
// per-element trimming.
//
// Everything here is a pure function of (raw, type); no I/O, no state.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the primitive shapes a settings leaf may declare.
type Kind int

const (
	String Kind = iota
	Bool
	Int
	Float
	Enum
	List
)

// Type describes a leaf's declared type.  Members is set for Enum,
// Elem for List.  Construct via the helpers below so the invariants
// hold (enum has members, list has a scalar element type).
type Type struct {
	Kind    Kind
	Members []string
	Elem    *Type
}

func StringType() Type { return Type{Kind: String} }
func BoolType() Type   { return Type{Kind: Bool} }
func IntType() Type    { return Type{Kind: Int} }
func FloatType() Type  { return Type{Kind: Float} }

// EnumType declares a closed, case-insensitive vocabulary.  Members are
// stored as given; matches are reported in this canonical casing.
func EnumType(members ...string) Type {
	return Type{Kind: Enum, Members: members}
}

// ListType declares a comma-separated list of the given scalar type.
// Nested lists are not supported.
func ListType(elem Type) Type {
	return Type{Kind: List, Elem: &elem}
}

// Name returns a human-readable type name for error messages, e.g.
// "int", "enum(debug|info|warn|error)", or "list of string".
func (t Type) Name() string {
	switch t.Kind {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Enum:
		return "enum(" + strings.Join(t.Members, "|") + ")"
	case List:
		return "list of " + t.Elem.Name()
	}
	return "unknown"
}

// Value converts raw into t, or explains why it cannot.
func Value(raw string, t Type) (any, error) {
	switch t.Kind {
	case String:
		return raw, nil
	case Bool:
		return parseBool(raw)
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid int", raw)
		}
		return n, nil
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid float", raw)
		}
		return f, nil
	case Enum:
		for _, m := range t.Members {
			if strings.EqualFold(raw, m) {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of: %s",
			raw, strings.Join(t.Members, ", "))
	case List:
		return parseList(raw, *t.Elem)
	}
	return nil, fmt.Errorf("unsupported target type %v", t.Kind)
}

// parseBool accepts the fixed vocabulary true/false/1/0/yes/no,
// case-insensitively.  strconv.ParseBool is close but accepts forms
// like "t" and "TRUE" while rejecting "yes", so we spell it out.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf(
		"%q is not a valid bool (want true, false, 1, 0, yes, or no)", raw)
}

// parseList splits on commas, trims each element, drops empties, and
// coerces every surviving element to the declared scalar type.  The
// result is a concretely typed slice so downstream decode does not have
// to sniff element types.
func parseList(raw string, elem Type) (any, error) {
	parts := make([]string, 0, 4)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}

	switch elem.Kind {
	case String:
		return parts, nil
	case Enum:
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			v, err := Value(p, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(string))
		}
		return out, nil
	case Bool:
		out := make([]bool, 0, len(parts))
		for _, p := range parts {
			v, err := parseBool(p)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case Int:
		out := make([]int64, 0, len(parts))
		for _, p := range parts {
			v, err := Value(p, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int64))
		}
		return out, nil
	case Float:
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := Value(p, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported list element type %s", elem.Name())
}
