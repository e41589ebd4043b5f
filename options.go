package livejson

import (
	"io/fs"
	"log/slog"
)

// Option is a function that configures a File.
type Option func(*fileOptions)

// fileOptions holds configuration applied when opening a file.
type fileOptions struct {
	pretty bool
	indent int
	mode   fs.FileMode
	logger *slog.Logger
}

func defaultOptions() *fileOptions {
	return &fileOptions{
		indent: 2,
		mode:   0644,
	}
}

// WithPretty enables indented output when writing the file. The default
// is compact single-line JSON.
func WithPretty() Option {
	return func(o *fileOptions) {
		o.pretty = true
	}
}

// WithIndent sets the number of spaces per indentation level used with
// WithPretty. The default is 2.
func WithIndent(n int) Option {
	return func(o *fileOptions) {
		o.indent = n
	}
}

// WithFileMode sets the permission bits used when creating or rewriting
// the backing file. The default is 0644.
func WithFileMode(mode fs.FileMode) Option {
	return func(o *fileOptions) {
		o.mode = mode
	}
}

// WithLogger sets a logger for debug-level load/save events and watcher
// warnings. By default all log output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *fileOptions) {
		o.logger = logger
	}
}
