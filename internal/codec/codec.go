// Package codec handles JSON encoding and decoding for the storage layer,
// plus normalization of arbitrary Go values into the plain document shape
// (map[string]any, []any, string, json.Number, bool, nil) used in memory.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Common errors returned by codec operations.
var (
	// ErrFormat is returned when data is not valid JSON text.
	ErrFormat = errors.New("invalid JSON")

	// ErrUnsupportedValue is returned when a value cannot be encoded as JSON.
	ErrUnsupportedValue = errors.New("value cannot be encoded as JSON")
)

// EncodeOptions controls the shape of encoded output.
type EncodeOptions struct {
	// Pretty enables indented output.
	Pretty bool

	// Indent is the number of spaces per indentation level when Pretty
	// is set.
	Indent int
}

// Encode serializes v to JSON text. Map keys are emitted in sorted order
// (encoding/json guarantees this for string-keyed maps).
func Encode(v any, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.Pretty {
		enc.SetIndent("", strings.Repeat(" ", opts.Indent))
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	// Encoder.Encode appends a newline; the document itself ends without one.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a single JSON document. Numbers decode as json.Number so
// that integer-looking values survive a round trip without drifting
// through float64.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrFormat)
	}
	return v, nil
}

// Normalize converts an arbitrary Go value (struct, typed map, typed
// slice, ...) into the plain document shape by round-tripping it through
// the codec. Returns ErrUnsupportedValue if v cannot be marshaled.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := Encode(v, EncodeOptions{})
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Clone returns a deep copy of a document value. The copy shares no
// mutable state with the original.
func Clone(v any) (any, error) {
	return Normalize(v)
}

// Equal reports whether two values represent the same JSON document,
// comparing their normalized forms.
func Equal(a, b any) (bool, error) {
	na, err := Normalize(a)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(na, nb), nil
}
