// internal/resolve/resolved.go
//
// The resolved settings tree.
//
// Resolved mirrors the schema shape with every FieldSpec leaf replaced
// by a concrete typed value.  It is built in one shot by Resolve and
// never mutated afterwards; instances are safe to share across
// goroutines.
package resolve

import "strings"

// Resolved is the immutable output of a successful resolution.
type Resolved struct {
	tree map[string]any
}

// Tree returns the nested value tree (groups as nested maps, leaves as
// typed values).  The caller owns the result conceptually but must
// treat it as read-only; it is the same tree koanf's confmap provider
// consumes for typed decoding.
func (r *Resolved) Tree() map[string]any { return r.tree }

// Get fetches the value at a dotted path, e.g. "queue.maxsize".
func (r *Resolved) Get(path string) (any, bool) {
	cur := r.tree
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		cur, ok = v.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// Typed accessors.  Resolution guarantees leaf types, so a mismatch or
// a missing path yields the zero value; callers navigating by literal
// paths they declared themselves never hit that case.

func (r *Resolved) String(path string) string {
	v, _ := r.Get(path)
	s, _ := v.(string)
	return s
}

func (r *Resolved) Bool(path string) bool {
	v, _ := r.Get(path)
	b, _ := v.(bool)
	return b
}

func (r *Resolved) Int(path string) int64 {
	v, _ := r.Get(path)
	n, _ := v.(int64)
	return n
}

func (r *Resolved) Float(path string) float64 {
	v, _ := r.Get(path)
	f, _ := v.(float64)
	return f
}

func (r *Resolved) Strings(path string) []string {
	v, _ := r.Get(path)
	s, _ := v.([]string)
	return s
}
