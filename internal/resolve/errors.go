// internal/resolve/errors.go
//
// Structured resolution error report.
//
// Context
// -------
// Resolution never fails on the first problem.  Every issue found
// across parsing, coercion, merging, and validation is accumulated and
// returned as one Report, so an operator fixes everything in a single
// pass instead of replaying fix-rerun cycles.  Nothing here is
// transient; there is no retry story.
package resolve

import (
	"fmt"
	"strings"
)

// IssueKind classifies one resolution problem.
type IssueKind int

const (
	// ParseIssue: a prefixed variable name could not be split into a
	// key path (empty segment).
	ParseIssue IssueKind = iota
	// CoercionIssue: a raw string does not convert to the declared type.
	CoercionIssue
	// UnknownFieldIssue: a prefixed variable maps to no declared field
	// under the forbid policy.
	UnknownFieldIssue
	// AmbiguousKeyIssue: two variables resolve to the same key path
	// with conflicting values.
	AmbiguousKeyIssue
	// ValidationIssue: required field missing, a field validator
	// rejected a value, or a cross-field rule failed.
	ValidationIssue
)

func (k IssueKind) String() string {
	switch k {
	case ParseIssue:
		return "parse"
	case CoercionIssue:
		return "coercion"
	case UnknownFieldIssue:
		return "unknown-field"
	case AmbiguousKeyIssue:
		return "ambiguous-key"
	case ValidationIssue:
		return "validation"
	}
	return "unknown"
}

// Issue is one concrete problem.  Key is the offending environment
// variable when one is involved; Path is the dotted field path when
// the issue is tied to a declared field; Raw is the raw value for
// coercion failures.
type Issue struct {
	Kind   IssueKind
	Key    string
	Path   string
	Raw    string
	Reason string
}

func (i Issue) Error() string {
	var b strings.Builder
	b.WriteString(i.Kind.String())
	if i.Key != "" {
		fmt.Fprintf(&b, " %s", i.Key)
	} else if i.Path != "" {
		fmt.Fprintf(&b, " %s", i.Path)
	}
	b.WriteString(": ")
	b.WriteString(i.Reason)
	if i.Raw != "" {
		fmt.Fprintf(&b, " (raw value %q)", i.Raw)
	}
	return b.String()
}

// Report is the full set of issues from one resolution attempt, in the
// deterministic order they were found.
type Report struct {
	Issues []Issue
}

func (r *Report) add(i Issue) { r.Issues = append(r.Issues, i) }
func (r *Report) empty() bool { return len(r.Issues) == 0 }

// Error renders every issue, one per line, headed by a count.
func (r *Report) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "settings resolution failed with %d issue(s):", len(r.Issues))
	for _, i := range r.Issues {
		b.WriteString("\n  ")
		b.WriteString(i.Error())
	}
	return b.String()
}

// ByKind returns the issues of one kind, preserving order.
func (r *Report) ByKind(k IssueKind) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Kind == k {
			out = append(out, i)
		}
	}
	return out
}
