package codec

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestEncodeCompact(t *testing.T) {
	data, err := Encode(map[string]any{"b": 2, "a": 1}, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Keys come out sorted, no trailing newline
	if got := string(data); got != `{"a":1,"b":2}` {
		t.Fatalf("Encode = %q", got)
	}
}

func TestEncodePretty(t *testing.T) {
	data, err := Encode(map[string]any{"a": 1}, EncodeOptions{Pretty: true, Indent: 4})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "{\n    \"a\": 1\n}"
	if got := string(data); got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeNoHTMLEscaping(t *testing.T) {
	data, err := Encode("a<b>&c", EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := string(data); got != `"a<b>&c"` {
		t.Fatalf("Encode = %q", got)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode(map[string]any{"ch": make(chan int)}, EncodeOptions{})
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("Encode error = %v, want ErrUnsupportedValue", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"object", `{"a":1}`, map[string]any{"a": json.Number("1")}},
		{"array", `[1,"x",true,null]`, []any{json.Number("1"), "x", true, nil}},
		{"scalar string", `"hello"`, "hello"},
		{"scalar number", `3.25`, json.Number("3.25")},
		{"scalar null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Decode = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":}`, `{"a":1} extra`} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrFormat) {
			t.Fatalf("Decode(%q) error = %v, want ErrFormat", in, err)
		}
	}
}

func TestDecodePreservesNumberText(t *testing.T) {
	v, err := Decode([]byte(`{"big":9007199254740993}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	n := v.(map[string]any)["big"].(json.Number)
	if n.String() != "9007199254740993" {
		t.Fatalf("number drifted: %s", n)
	}
}

func TestNormalizeStruct(t *testing.T) {
	type point struct {
		X int    `json:"x"`
		Y string `json:"y"`
	}

	got, err := Normalize(point{X: 1, Y: "up"})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := map[string]any{"x": json.Number("1"), "y": "up"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %#v, want %#v", got, want)
	}
}

func TestNormalizeNil(t *testing.T) {
	got, err := Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Normalize(nil) = %#v", got)
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	if _, err := Normalize(func() {}); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("Normalize error = %v, want ErrUnsupportedValue", err)
	}
}

func TestCloneDetaches(t *testing.T) {
	orig := map[string]any{"nested": map[string]any{"x": json.Number("1")}}

	cloned, err := Clone(orig)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	cloned.(map[string]any)["nested"].(map[string]any)["x"] = json.Number("2")
	if orig["nested"].(map[string]any)["x"] != json.Number("1") {
		t.Fatal("mutating the clone changed the original")
	}
}

func TestEqual(t *testing.T) {
	type pair struct {
		A int `json:"a"`
	}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same maps", map[string]any{"a": 1}, map[string]any{"a": 1}, true},
		{"struct vs map", pair{A: 1}, map[string]any{"a": 1}, true},
		{"int vs float form", map[string]any{"a": 1}, map[string]any{"a": 1.0}, true},
		{"different values", map[string]any{"a": 1}, map[string]any{"a": 2}, false},
		{"different shapes", []any{1}, map[string]any{"a": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equal(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Equal failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}
