// internal/redact/redact.go
//
// Secret masking for settings dumps.
//
// Context
// -------
// The configcheck CLI and the /config debug endpoint both print the
// resolved tree.  Fields flagged Secret in the schema must never leave
// the process in clear text, so Tree produces a deep copy with those
// leaves masked: first three characters kept, the rest starred, the
// whole value starred when it is that short.  Non-string secrets are
// replaced wholesale.
package redact

import (
	"strings"

	"github.com/fapilog/fapilog/internal/resolve"
	"github.com/fapilog/fapilog/internal/schema"
)

// Tree returns a copy of the resolved tree safe for logging or
// serving.  The original tree is never modified.
func Tree(s *schema.Schema, r *resolve.Resolved) map[string]any {
	return copyGroup(&s.Root, r.Tree())
}

func copyGroup(g *schema.Group, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))

	for i := range g.Fields {
		f := &g.Fields[i]
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if f.Secret {
			if s, isStr := v.(string); isStr {
				out[f.Name] = Mask(s)
			} else {
				out[f.Name] = "***"
			}
			continue
		}
		out[f.Name] = copyValue(v)
	}

	for i := range g.Groups {
		sub := &g.Groups[i]
		if nested, ok := values[sub.Name].(map[string]any); ok {
			out[sub.Name] = copyGroup(sub, nested)
		}
	}
	return out
}

// copyValue clones slices so callers cannot reach back into the
// resolved tree through the dump.
func copyValue(v any) any {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []int64:
		return append([]int64(nil), s...)
	case []float64:
		return append([]float64(nil), s...)
	case []bool:
		return append([]bool(nil), s...)
	}
	return v
}

// Mask hides all but the first three characters of a secret.
func Mask(secret string) string {
	const keep = 3
	if len(secret) <= keep {
		return strings.Repeat("*", len(secret))
	}
	return secret[:keep] + strings.Repeat("*", len(secret)-keep)
}
