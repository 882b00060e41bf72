// internal/keypath/keypath_test.go
//
// Unit-tests for the environment-name parser.
//
// Run: go test ./internal/keypath -v

package keypath

import "testing"

func TestParse_Nesting(t *testing.T) {
	p := New("FAPILOG_", "__")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"single segment", "FAPILOG_LEVEL", "level"},
		{"two segments", "FAPILOG_QUEUE__MAXSIZE", "queue.maxsize"},
		{"three segments", "FAPILOG_SINKS__FILE__PATH", "sinks.file.path"},
		{"lower-case prefix", "fapilog_queue__maxsize", "queue.maxsize"},
		{"mixed case", "FaPiLoG_Queue__MaxSize", "queue.maxsize"},
		{"underscore in name", "FAPILOG_SECURITY__ENABLE_AUTO_REDACT_PII",
			"security.enable_auto_redact_pii"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path, ours, err := p.Parse(c.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", c.in, err)
			}
			if !ours {
				t.Fatalf("Parse(%q) did not match the prefix", c.in)
			}
			if got := path.String(); got != c.want {
				t.Fatalf("Parse(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestParse_ForeignNamesAreSkipped(t *testing.T) {
	p := New("FAPILOG_", "__")

	for _, in := range []string{"PATH", "HOME", "FAPILO_X", "XFAPILOG_Y"} {
		path, ours, err := p.Parse(in)
		if ours || err != nil || path != nil {
			t.Fatalf("Parse(%q) = (%v, %v, %v), want skip", in, path, ours, err)
		}
	}
}

func TestParse_MalformedNames(t *testing.T) {
	p := New("FAPILOG_", "__")

	for _, in := range []string{
		"FAPILOG_",                 // nothing after the prefix
		"FAPILOG_QUEUE__",          // trailing delimiter
		"FAPILOG_QUEUE____MAXSIZE", // doubled delimiter
		"FAPILOG___QUEUE__MAXSIZE", // leading empty segment
	} {
		_, ours, err := p.Parse(in)
		if !ours {
			t.Fatalf("Parse(%q) should match the prefix", in)
		}
		if err == nil {
			t.Fatalf("Parse(%q) expected an error", in)
		}
	}
}
