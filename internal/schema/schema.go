// internal/schema/schema.go
//
// Static settings schema: the closed description of every field the
// resolver will accept.
//
// Context
// -------
// The schema is an explicit value, not something discovered by
// reflection: a tree of Groups holding FieldSpecs, declared top-down
// once at process start, then treated as read-only shared state.
// Declaration order is preserved and drives the deterministic
// resolution walk.
//
// Per-field validation comes in two flavours: a go-playground/validator
// tag string (run against the single value with `Var`), or a plain Go
// func for rules tags cannot express.  Cross-field rules are funcs
// registered on a group and receive the group's merged values.
//
// Notes
// -----
//   • Field and group names are declared in lower case; env matching is
//     case-insensitive, so canonical names keep lookups trivial.
//   • A field must carry a default or be marked required.  There is no
//     third state: absence is either fine (default fills in) or fatal.
//   • Oxford commas, two spaces after periods.
package schema

import (
	"fmt"
	"strings"

	"github.com/fapilog/fapilog/internal/coerce"
	"github.com/fapilog/fapilog/internal/keypath"
)

//
// unknown-field policy
//

// Policy decides what happens to a prefixed environment variable whose
// path matches no declared field.
type Policy int

const (
	// Forbid rejects unknown fields with an error (strict, default).
	Forbid Policy = iota
	// Allow silently ignores them.
	Allow
)

//
// field and group declarations
//

// FieldSpec declares one settings leaf.  Immutable once the schema is
// built.
type FieldSpec struct {
	Name     string
	Type     coerce.Type
	Default  any  // required when Required is false
	Required bool // no default; a missing value is a validation error
	Secret   bool // masked by redact helpers when dumped

	// Rule is an optional go-playground/validator tag (e.g. "gt=0").
	Rule string
	// Check is an optional custom validator for the coerced value.
	Check func(v any) error
}

// CrossCheck validates relationships between fields of one group.  It
// receives the group's merged values (nested groups appear as nested
// maps) and returns a human-readable reason on rejection.
type CrossCheck func(values map[string]any) error

// Group is a named collection of fields and nested groups.  The tree is
// acyclic by construction: groups are declared literal and top-down.
type Group struct {
	Name   string
	Fields []FieldSpec
	Groups []Group
	Checks []CrossCheck
}

// Schema is the root of the declaration tree plus the naming
// convention used to map environment variables onto it.
type Schema struct {
	Prefix    string
	Delimiter string
	Unknown   Policy
	Root      Group
}

//
// construction
//

// New validates the declaration tree and returns the Schema.  Errors
// here are programmer errors (bad declarations), not runtime config
// problems.
func New(prefix, delimiter string, unknown Policy, root Group) (*Schema, error) {
	s := &Schema{Prefix: prefix, Delimiter: delimiter, Unknown: unknown, Root: root}
	if err := checkGroup(&s.Root, delimiter, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is New for statically declared schemas, panicking on error.
func MustNew(prefix, delimiter string, unknown Policy, root Group) *Schema {
	s, err := New(prefix, delimiter, unknown, root)
	if err != nil {
		panic(fmt.Sprintf("schema: invalid declaration: %v", err))
	}
	return s
}

func checkGroup(g *Group, delimiter string, path []string) error {
	seen := make(map[string]bool, len(g.Fields)+len(g.Groups))
	at := func(name string) string {
		return strings.Join(append(append([]string{}, path...), name), ".")
	}

	for i := range g.Fields {
		f := &g.Fields[i]
		if err := checkName(f.Name, delimiter); err != nil {
			return fmt.Errorf("field %s: %w", at(f.Name), err)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate name %s", at(f.Name))
		}
		seen[f.Name] = true

		if f.Required && f.Default != nil {
			return fmt.Errorf("field %s: required fields cannot carry a default", at(f.Name))
		}
		if !f.Required {
			if f.Default == nil {
				return fmt.Errorf("field %s: needs a default or the required flag", at(f.Name))
			}
			if _, err := coerce.Typed(f.Default, f.Type); err != nil {
				return fmt.Errorf("field %s: bad default: %w", at(f.Name), err)
			}
		}
	}

	for i := range g.Groups {
		sub := &g.Groups[i]
		if err := checkName(sub.Name, delimiter); err != nil {
			return fmt.Errorf("group %s: %w", at(sub.Name), err)
		}
		if seen[sub.Name] {
			return fmt.Errorf("duplicate name %s", at(sub.Name))
		}
		seen[sub.Name] = true
		if err := checkGroup(sub, delimiter, append(path, sub.Name)); err != nil {
			return err
		}
	}
	return nil
}

func checkName(name, delimiter string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if name != strings.ToLower(name) {
		return fmt.Errorf("name %q must be lower case", name)
	}
	if strings.Contains(name, delimiter) {
		return fmt.Errorf("name %q contains the nested delimiter %q", name, delimiter)
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("name %q contains a dot", name)
	}
	return nil
}

//
// navigation
//

// Lookup walks the declaration tree along path and returns the
// matching FieldSpec.  Segments are expected lower-cased (keypath
// already canonicalises them).
func (s *Schema) Lookup(path keypath.Path) (*FieldSpec, bool) {
	g := &s.Root
	for i, seg := range path {
		if i == len(path)-1 {
			if f := g.field(seg); f != nil {
				return f, true
			}
			return nil, false
		}
		if g = g.group(seg); g == nil {
			return nil, false
		}
	}
	return nil, false
}

func (g *Group) field(name string) *FieldSpec {
	for i := range g.Fields {
		if g.Fields[i].Name == name {
			return &g.Fields[i]
		}
	}
	return nil
}

func (g *Group) group(name string) *Group {
	for i := range g.Groups {
		if g.Groups[i].Name == name {
			return &g.Groups[i]
		}
	}
	return nil
}

// Walk visits every leaf depth-first in declaration order, fields of a
// group before its nested groups.  This is the one traversal order
// used everywhere, so error reports come out stable.
func (s *Schema) Walk(fn func(path keypath.Path, f *FieldSpec)) {
	walkGroup(&s.Root, nil, fn)
}

func walkGroup(g *Group, prefix keypath.Path, fn func(keypath.Path, *FieldSpec)) {
	for i := range g.Fields {
		path := make(keypath.Path, 0, len(prefix)+1)
		path = append(append(path, prefix...), g.Fields[i].Name)
		fn(path, &g.Fields[i])
	}
	for i := range g.Groups {
		walkGroup(&g.Groups[i], append(prefix, g.Groups[i].Name), fn)
	}
}
