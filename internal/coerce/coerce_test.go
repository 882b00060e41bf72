// internal/coerce/coerce_test.go
//
// Unit-tests for string → typed-value coercion.
//
// Run: go test ./internal/coerce -v

package coerce

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestValue_BoolVocabulary(t *testing.T) {
	truthy := []string{"true", "TRUE", "True", "1", "yes", "YES"}
	falsy := []string{"false", "FALSE", "0", "no", "No"}

	for _, raw := range truthy {
		v, err := Value(raw, BoolType())
		if err != nil || v != true {
			t.Fatalf("Value(%q, bool) = (%v, %v), want true", raw, v, err)
		}
	}
	for _, raw := range falsy {
		v, err := Value(raw, BoolType())
		if err != nil || v != false {
			t.Fatalf("Value(%q, bool) = (%v, %v), want false", raw, v, err)
		}
	}

	// strconv-isms like "t" are deliberately outside the vocabulary.
	for _, raw := range []string{"t", "f", "on", "off", "2", ""} {
		if _, err := Value(raw, BoolType()); err == nil {
			t.Fatalf("Value(%q, bool) should error", raw)
		}
	}
}

func TestValue_Numbers(t *testing.T) {
	if v, err := Value("500", IntType()); err != nil || v != int64(500) {
		t.Fatalf("int: got (%v, %v)", v, err)
	}
	if v, err := Value("-3", IntType()); err != nil || v != int64(-3) {
		t.Fatalf("negative int: got (%v, %v)", v, err)
	}
	if v, err := Value("2.5", FloatType()); err != nil || v != 2.5 {
		t.Fatalf("float: got (%v, %v)", v, err)
	}

	for _, raw := range []string{"", "abc", "1.5e999", "1,5"} {
		if _, err := Value(raw, FloatType()); err == nil {
			t.Fatalf("Value(%q, float) should error", raw)
		}
	}
	for _, raw := range []string{"", "abc", "2.5", "99999999999999999999"} {
		if _, err := Value(raw, IntType()); err == nil {
			t.Fatalf("Value(%q, int) should error", raw)
		}
	}
}

func TestValue_EnumCaseInsensitive(t *testing.T) {
	typ := EnumType("debug", "info", "warn", "error")

	v, err := Value("INFO", typ)
	if err != nil || v != "info" {
		t.Fatalf("enum match: got (%v, %v), want canonical \"info\"", v, err)
	}

	_, err = Value("verbose", typ)
	if err == nil {
		t.Fatal("enum mismatch should error")
	}
	// The error must enumerate the valid members.
	for _, m := range typ.Members {
		if !strings.Contains(err.Error(), m) {
			t.Fatalf("enum error %q does not name member %q", err, m)
		}
	}
}

func TestValue_Lists(t *testing.T) {
	cases := []struct {
		raw  string
		typ  Type
		want any
	}{
		{"stdout,file:///logs/app.log", ListType(StringType()),
			[]string{"stdout", "file:///logs/app.log"}},
		{" a , b ,c ", ListType(StringType()), []string{"a", "b", "c"}},
		{"a,,b,", ListType(StringType()), []string{"a", "b"}},
		{"1, 2, 3", ListType(IntType()), []int64{1, 2, 3}},
		{"true,no,1", ListType(BoolType()), []bool{true, false, true}},
		{"0.5,1.5", ListType(FloatType()), []float64{0.5, 1.5}},
		{"", ListType(StringType()), []string{}},
	}

	for _, c := range cases {
		v, err := Value(c.raw, c.typ)
		if err != nil {
			t.Fatalf("Value(%q, %s) error: %v", c.raw, c.typ.Name(), err)
		}
		if !reflect.DeepEqual(v, c.want) {
			t.Fatalf("Value(%q, %s) = %#v, want %#v", c.raw, c.typ.Name(), v, c.want)
		}
	}

	if _, err := Value("1,two", ListType(IntType())); err == nil {
		t.Fatal("bad list element should error")
	}
}

// Round-trip law: rendering a coerced value back to a string and
// coercing again yields an equal value.
func TestValue_RoundTrip(t *testing.T) {
	cases := []struct {
		typ Type
		raw string
	}{
		{BoolType(), "true"},
		{BoolType(), "false"},
		{IntType(), "1000"},
		{IntType(), "-42"},
		{FloatType(), "3.25"},
		{EnumType("strict", "lenient"), "strict"},
	}

	for _, c := range cases {
		first, err := Value(c.raw, c.typ)
		if err != nil {
			t.Fatalf("first pass (%q): %v", c.raw, err)
		}

		var rendered string
		switch v := first.(type) {
		case bool:
			rendered = strconv.FormatBool(v)
		case int64:
			rendered = strconv.FormatInt(v, 10)
		case float64:
			rendered = strconv.FormatFloat(v, 'g', -1, 64)
		case string:
			rendered = v
		default:
			t.Fatalf("unexpected type %T", first)
		}

		second, err := Value(rendered, c.typ)
		if err != nil {
			t.Fatalf("second pass (%q): %v", rendered, err)
		}
		if first != second {
			t.Fatalf("round-trip drift: %v != %v", first, second)
		}
	}
}

func TestTyped_Normalisation(t *testing.T) {
	cases := []struct {
		in   any
		typ  Type
		want any
	}{
		{500, IntType(), int64(500)},
		{int64(7), IntType(), int64(7)},
		{1.5, FloatType(), 1.5},
		{3, FloatType(), float64(3)},
		{"INFO", EnumType("debug", "info"), "info"},
		{[]any{"a", "b"}, ListType(StringType()), []string{"a", "b"}},
		{[]any{1, 2}, ListType(IntType()), []int64{1, 2}},
		{[]string{"x"}, ListType(StringType()), []string{"x"}},
	}

	for _, c := range cases {
		got, err := Typed(c.in, c.typ)
		if err != nil {
			t.Fatalf("Typed(%v, %s) error: %v", c.in, c.typ.Name(), err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Typed(%v, %s) = %#v, want %#v", c.in, c.typ.Name(), got, c.want)
		}
	}

	bad := []struct {
		in  any
		typ Type
	}{
		{"yes", IntType()},
		{true, StringType()},
		{[]any{"a", 1}, ListType(StringType())},
		{12, ListType(IntType())},
	}
	for _, c := range bad {
		if _, err := Typed(c.in, c.typ); err == nil {
			t.Fatalf("Typed(%v (%T), %s) should error", c.in, c.in, c.typ.Name())
		}
	}
}

func TestValue_Pure(t *testing.T) {
	// Same inputs, same outputs, ten times over; no hidden state.
	typ := ListType(IntType())
	want := fmt.Sprint([]int64{1, 2, 3})
	for i := 0; i < 10; i++ {
		v, err := Value("1,2,3", typ)
		if err != nil || fmt.Sprint(v) != want {
			t.Fatalf("iteration %d: (%v, %v)", i, v, err)
		}
	}
}
