// internal/resolve/resolver.go
//
// Layered settings resolution: merge, type, validate.
//
/*
Context
--------
`Resolve()` turns a schema plus up to three value layers into one
typed, validated tree.  Precedence per leaf, highest first:

  1. Explicit overrides (already typed, supplied by the caller).
  2. Environment variables (prefixed names, coerced from strings).
  3. Optional file layer (flattened YAML, coerced or type-checked).
  4. Schema defaults.

Precedence is decided per leaf, never per layer: an env var for one
field does not stop a file value from filling in its sibling.

The environment is scanned exactly once from the snapshot taken by the
caller.  Non-prefixed variables are skipped outright.  A prefixed
variable either maps to a declared field (and is coerced), or is an
unknown-field issue under the forbid policy.  Two variables landing on
the same key path with different raw values, usually case variants,
are an ambiguity issue rather than a silent last-write-wins.

Validation walks the schema depth-first in declaration order: required
presence, per-field rules (go-playground tag via `Var`, or a plain
func), then the group's cross-field checks.  Cross-field checks are
skipped for a group whose subtree already produced issues, so one bad
leaf does not cascade into noise.

All issues are accumulated into a single Report; either the caller
gets a fully typed Resolved tree or the complete list of problems,
never both and never a partial tree.

Notes
-----
  • No I/O of any kind here.  Reading files and the real environment is
    the loader's job (internal/settings).
  • Oxford commas, two spaces after periods.
*/
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fapilog/fapilog/internal/coerce"
	"github.com/fapilog/fapilog/internal/envsource"
	"github.com/fapilog/fapilog/internal/keypath"
	"github.com/fapilog/fapilog/internal/schema"
)

// vld runs FieldSpec.Rule tags against single values.
var vld = validator.New()

// Input carries the value layers for one resolution call.  Explicit
// and File are keyed by dotted field path.  Env is the point-in-time
// snapshot; nil means "no environment".
type Input struct {
	Explicit map[string]any
	File     map[string]any
	Env      envsource.Snapshot
}

// Resolve merges the layers over s's defaults and validates the
// result.  On any issue it returns a *Report (as error) and no tree.
func Resolve(s *schema.Schema, in Input) (*Resolved, error) {
	rep := &Report{}

	env := scanEnv(s, in.Env, rep)
	file := scanTyped(s, in.File, "file layer", rep)
	explicit := scanTyped(s, in.Explicit, "explicit override", rep)

	// broken marks leaf paths that already carry an issue, so the
	// validation walk does not pile required-missing errors on top.
	broken := make(map[string]bool)
	for _, i := range rep.Issues {
		if i.Path != "" {
			broken[i.Path] = true
		}
	}

	tree, _ := mergeGroup(s, &s.Root, nil, layers{explicit, env, file}, broken, rep)
	if !rep.empty() {
		return nil, rep
	}
	return &Resolved{tree: tree}, nil
}

//
// environment scan
//

// scanEnv coerces every prefixed snapshot entry onto its field path.
// Returned map is keyed by dotted path.
func scanEnv(s *schema.Schema, snap envsource.Snapshot, rep *Report) map[string]any {
	parser := keypath.New(s.Prefix, s.Delimiter)
	values := make(map[string]any)
	firstKey := make(map[string]string) // path → env var that set it
	firstRaw := make(map[string]string)

	for _, pair := range snap {
		path, ours, err := parser.Parse(pair.Key)
		if !ours {
			continue
		}
		if err != nil {
			rep.add(Issue{Kind: ParseIssue, Key: pair.Key, Reason: err.Error()})
			continue
		}

		f, ok := s.Lookup(path)
		if !ok {
			if s.Unknown == schema.Forbid {
				rep.add(Issue{
					Kind:   UnknownFieldIssue,
					Key:    pair.Key,
					Path:   path.String(),
					Reason: "no declared field at this path",
				})
			}
			continue
		}

		p := path.String()
		if prev, dup := firstKey[p]; dup {
			if firstRaw[p] == pair.Value {
				continue // same value twice is harmless
			}
			rep.add(Issue{
				Kind: AmbiguousKeyIssue,
				Key:  pair.Key,
				Path: p,
				Reason: fmt.Sprintf(
					"conflicts with %s for the same field", prev),
			})
			continue
		}
		firstKey[p] = pair.Key
		firstRaw[p] = pair.Value

		v, err := coerce.Value(pair.Value, f.Type)
		if err != nil {
			rep.add(Issue{
				Kind:   CoercionIssue,
				Key:    pair.Key,
				Path:   p,
				Raw:    pair.Value,
				Reason: fmt.Sprintf("want %s: %v", f.Type.Name(), err),
			})
			continue
		}
		values[p] = v
	}
	return values
}

//
// typed layers (file, explicit)
//

// scanTyped checks a dotted-path layer against the schema.  String
// values are coerced like env vars (the file layer is still mostly
// text); anything else must already match the declared type.
func scanTyped(s *schema.Schema, layer map[string]any, origin string, rep *Report) map[string]any {
	if len(layer) == 0 {
		return nil
	}

	keys := make([]string, 0, len(layer))
	for k := range layer {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]any, len(keys))
	for _, k := range keys {
		path := keypath.Path(strings.Split(strings.ToLower(k), "."))
		f, ok := s.Lookup(path)
		if !ok {
			if s.Unknown == schema.Forbid {
				rep.add(Issue{
					Kind:   UnknownFieldIssue,
					Path:   path.String(),
					Reason: fmt.Sprintf("no declared field at this path (%s)", origin),
				})
			}
			continue
		}

		p := path.String()
		var v any
		var err error
		if raw, isStr := layer[k].(string); isStr && f.Type.Kind != coerce.String && f.Type.Kind != coerce.Enum {
			v, err = coerce.Value(raw, f.Type)
		} else {
			v, err = coerce.Typed(layer[k], f.Type)
		}
		if err != nil {
			rep.add(Issue{
				Kind:   CoercionIssue,
				Path:   p,
				Raw:    fmt.Sprint(layer[k]),
				Reason: fmt.Sprintf("%s: want %s: %v", origin, f.Type.Name(), err),
			})
			continue
		}
		values[p] = v
	}
	return values
}

//
// merge + validate walk
//

// layers holds the scanned value maps in precedence order, highest
// first.  Defaults are read straight off the FieldSpec.
type layers [3]map[string]any

func (l layers) value(path string, f *schema.FieldSpec) (any, bool) {
	for _, m := range l {
		if v, ok := m[path]; ok {
			return v, true
		}
	}
	if f.Required {
		return nil, false
	}
	// Defaults were type-checked at schema construction; normalise so
	// e.g. an int default comes out as int64 like every other layer.
	v, _ := coerce.Typed(f.Default, f.Type)
	return v, true
}

// mergeGroup builds the typed subtree for g.  ok is false when any
// descendant leaf produced an issue; cross-field checks only run on
// clean subtrees.
func mergeGroup(s *schema.Schema, g *schema.Group, prefix keypath.Path, l layers, broken map[string]bool, rep *Report) (map[string]any, bool) {
	out := make(map[string]any, len(g.Fields)+len(g.Groups))
	ok := true

	for i := range g.Fields {
		f := &g.Fields[i]
		path := append(append(keypath.Path{}, prefix...), f.Name)
		p := path.String()

		if broken[p] {
			ok = false
			continue
		}

		v, present := l.value(p, f)
		if !present {
			rep.add(Issue{
				Kind: ValidationIssue,
				Path: p,
				Reason: fmt.Sprintf("required field is not set (set %s)",
					envName(s, path)),
			})
			ok = false
			continue
		}

		if !checkField(f, p, v, rep) {
			ok = false
			continue
		}
		out[f.Name] = v
	}

	for i := range g.Groups {
		sub := &g.Groups[i]
		subTree, subOK := mergeGroup(s, sub, append(prefix, sub.Name), l, broken, rep)
		out[sub.Name] = subTree
		ok = ok && subOK
	}

	if ok {
		for _, check := range g.Checks {
			if err := check(out); err != nil {
				rep.add(Issue{
					Kind:   ValidationIssue,
					Path:   keypath.Path(prefix).String(),
					Reason: err.Error(),
				})
				ok = false
			}
		}
	}
	return out, ok
}

// checkField runs the per-field validators, reporting at most one
// issue per field.
func checkField(f *schema.FieldSpec, path string, v any, rep *Report) bool {
	if f.Rule != "" {
		if err := vld.Var(v, f.Rule); err != nil {
			rep.add(Issue{
				Kind:   ValidationIssue,
				Path:   path,
				Reason: fmt.Sprintf("value %v does not satisfy rule %q", v, f.Rule),
			})
			return false
		}
	}
	if f.Check != nil {
		if err := f.Check(v); err != nil {
			rep.add(Issue{
				Kind:   ValidationIssue,
				Path:   path,
				Reason: err.Error(),
			})
			return false
		}
	}
	return true
}

// envName reconstructs the canonical environment-variable name for a
// field path, for actionable error messages.
func envName(s *schema.Schema, path keypath.Path) string {
	segs := make([]string, len(path))
	for i, seg := range path {
		segs[i] = strings.ToUpper(seg)
	}
	return s.Prefix + strings.Join(segs, s.Delimiter)
}
