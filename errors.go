package livejson

import (
	"errors"

	"github.com/controversial/livejson/internal/codec"
	"github.com/controversial/livejson/internal/storage"
)

// Common errors returned by livejson operations. Match with errors.Is.
var (
	// ErrFormat is returned when file contents are not valid JSON, or when
	// the JSON value at the relevant position is not the container kind the
	// operation requires (e.g. calling Map on an array-rooted file).
	ErrFormat = codec.ErrFormat

	// ErrStorage is returned when an underlying file I/O operation fails.
	ErrStorage = storage.ErrStorage

	// ErrUnsupportedValue is returned when attempting to store a value that
	// cannot be encoded as JSON.
	ErrUnsupportedValue = codec.ErrUnsupportedValue

	// ErrKeyNotFound is returned when a mapping key is absent from the
	// on-disk structure at access time.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange is returned when a sequence index does not resolve
	// against the on-disk structure at access time.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrFileExists is returned by OpenWith when the target file already
	// exists.
	ErrFileExists = errors.New("file already exists")
)
