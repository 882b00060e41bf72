// internal/envsource/envsource.go
//
// Point-in-time snapshot of the process environment.
//
// Resolution reads the environment exactly once, up front, so a
// concurrent Setenv elsewhere in the process can never produce a tree
// that mixes old and new values.  Key casing is preserved verbatim:
// the resolver needs the original names both for error messages and to
// detect case-variant duplicates.
package envsource

import (
	"os"
	"sort"
	"strings"
)

// Pair is one environment entry with its original casing.
type Pair struct {
	Key   string
	Value string
}

// Snapshot is an immutable list of environment entries.  Order is the
// order entries will be scanned in, so identical snapshots always
// resolve identically.
type Snapshot []Pair

// FromOS captures the current process environment.
func FromOS() Snapshot {
	environ := os.Environ()
	snap := make(Snapshot, 0, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		snap = append(snap, Pair{Key: k, Value: v})
	}
	return snap
}

// FromMap builds a snapshot from a plain map, sorted by key so tests
// and callers get deterministic scan order.
func FromMap(m map[string]string) Snapshot {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snap := make(Snapshot, 0, len(keys))
	for _, k := range keys {
		snap = append(snap, Pair{Key: k, Value: m[k]})
	}
	return snap
}
