// internal/keypath/keypath.go
//
// Flat environment-variable names → hierarchical key paths.
//
// Context
// -------
// fapilog settings form a nested tree, but the process environment is a
// flat namespace.  The bridge is a naming convention: a fixed root
// prefix plus a nested delimiter, so `FAPILOG_QUEUE__MAXSIZE` addresses
// the leaf `queue.maxsize`.  Matching is case-insensitive end to end;
// parsed segments are lower-cased so later schema lookups compare
// canonical names only.
//
// Notes
// -----
//   • A name without the prefix is not an error; it simply is not ours.
//   • An empty segment (doubled or trailing delimiter) is an error for
//     that one variable, never fatal to the whole resolution.
//   • Oxford commas, two spaces after periods.
package keypath

import (
	"fmt"
	"strings"
)

// Path is an ordered sequence of field names locating a leaf in the
// settings tree, root first.
type Path []string

// String renders the path in dotted form, e.g. "queue.maxsize".
func (p Path) String() string { return strings.Join(p, ".") }

// Parser splits prefixed environment-variable names on a fixed
// delimiter.  Zero value is not usable; construct with New.
type Parser struct {
	prefix    string
	delimiter string
}

// New returns a Parser for the given root prefix and nested delimiter.
// The delimiter must not appear inside any declared field name.
func New(prefix, delimiter string) Parser {
	return Parser{prefix: prefix, delimiter: delimiter}
}

// Parse converts a raw variable name into a Path.  The second return is
// false when the name does not carry the prefix (the variable belongs
// to somebody else).  A non-nil error means the name carried the prefix
// but is malformed.
func (p Parser) Parse(name string) (Path, bool, error) {
	if len(name) < len(p.prefix) ||
		!strings.EqualFold(name[:len(p.prefix)], p.prefix) {
		return nil, false, nil
	}

	rest := name[len(p.prefix):]
	if rest == "" {
		return nil, true, fmt.Errorf("no field path after prefix in %q", name)
	}

	segs := strings.Split(rest, p.delimiter)
	path := make(Path, 0, len(segs))
	for _, s := range segs {
		if s == "" {
			return nil, true, fmt.Errorf("empty path segment in %q", name)
		}
		path = append(path, strings.ToLower(s))
	}
	return path, true, nil
}
