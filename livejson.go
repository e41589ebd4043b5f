/*
Package livejson provides a mutable object bound to a JSON file: as you
change the object, the file is updated in real-time.

A File behaves like a mapping or a sequence depending on the root JSON
value. Every read re-reads the file, every mutation immediately rewrites
it, so the file and the in-memory view can never drift apart within a
single process.

Quick Start:

	// Open or create a file (a missing file starts as {})
	f, err := livejson.Open("data.json")
	if err != nil {
		log.Fatal(err)
	}

	// Treat the root as a mapping
	m, err := f.Map()
	if err != nil {
		log.Fatal(err)
	}

	// Every Set is persisted before it returns
	m.Set("dogs", "cats")

	// Nested containers come back as live proxies bound to the same file
	m.Set("nested", map[string]any{"x": 1})
	nested, _ := m.Get("nested")
	nested.(*livejson.Map).Set("x", 2) // data.json now holds {"nested":{"x":2}}

Grouped writes batch many mutations into a single disk write:

	err = f.Group(func() error {
		m.Set("a", 1)
		m.Set("b", 2)
		m.Set("c", 3)
		return nil // one write happens here, on scope exit
	})

Because every operation performs full-file I/O, a File is significantly
slower than a plain map. It is meant for small single-process data stores
where convenience beats throughput. No cross-process locking is performed;
if two processes write the same file, the last writer wins.
*/
package livejson

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/controversial/livejson/internal/codec"
	"github.com/controversial/livejson/internal/fsutil"
	"github.com/controversial/livejson/internal/storage"
)

// Open opens the JSON file at path, creating it with an empty object if it
// does not exist or is empty. The root value's kind is whatever the file
// holds; use File.Map or File.List to get a typed view.
func Open(path string, opts ...Option) (*File, error) {
	return open(path, map[string]any{}, opts)
}

// OpenList is like Open but a missing or empty file is initialized with an
// empty array. Use this when creating a new file whose root should be a
// sequence.
func OpenList(path string, opts ...Option) (*File, error) {
	return open(path, []any{}, opts)
}

// OpenWith creates a new file seeded with data, which may be any
// JSON-marshalable Go value or raw JSON text as []byte / json.RawMessage.
// Returns ErrFileExists if the file already exists: use File.SetData on a
// normally-opened file to overwrite existing content.
func OpenWith(path string, data any, opts ...Option) (*File, error) {
	if fsutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	var initial any
	var err error
	switch d := data.(type) {
	case []byte:
		initial, err = codec.Decode(d)
	case json.RawMessage:
		initial, err = codec.Decode(d)
	default:
		initial, err = codec.Normalize(data)
	}
	if err != nil {
		return nil, err
	}
	return open(path, initial, opts)
}

func open(path string, defaultValue any, opts []Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.New(slog.DiscardHandler)
	}

	enc := codec.EncodeOptions{Pretty: options.pretty, Indent: options.indent}
	store, err := storage.New(path, defaultValue, enc, options.mode, options.logger)
	if err != nil {
		return nil, err
	}
	return &File{store: store, log: options.logger}, nil
}
