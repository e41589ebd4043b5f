package livejson

import (
	"context"
	"fmt"
	"log/slog"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/fsnotify/fsnotify"

	"github.com/controversial/livejson/internal/codec"
	"github.com/controversial/livejson/internal/storage"
)

// File is the root handle over a JSON file. It owns the storage accessor
// shared by every proxy derived from it and exposes whole-document
// operations plus the grouped-write scope.
type File struct {
	store *storage.Store
	log   *slog.Logger
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.store.Path()
}

// Kind returns the root value's kind from a fresh read. A file rewritten
// from object to array (or vice versa) under an existing handle simply
// reports its new kind on the next call.
func (f *File) Kind() (Kind, error) {
	doc, err := f.store.Load()
	if err != nil {
		return 0, err
	}
	switch doc.(type) {
	case map[string]any:
		return KindObject, nil
	case []any:
		return KindArray, nil
	default:
		return KindScalar, nil
	}
}

// Map returns the root mapping proxy. Returns ErrFormat if the root value
// is not currently a JSON object; the check runs freshly on every call.
func (f *File) Map() (*Map, error) {
	doc, err := f.store.Load()
	if err != nil {
		return nil, err
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: root of %s is %s, not object", ErrFormat, f.store.Path(), kindOf(doc))
	}
	return &Map{proxy{store: f.store}}, nil
}

// List returns the root sequence proxy. Returns ErrFormat if the root
// value is not currently a JSON array.
func (f *File) List() (*List, error) {
	doc, err := f.store.Load()
	if err != nil {
		return nil, err
	}
	if _, ok := doc.([]any); !ok {
		return nil, fmt.Errorf("%w: root of %s is %s, not array", ErrFormat, f.store.Path(), kindOf(doc))
	}
	return &List{proxy{store: f.store}}, nil
}

// Data returns a detached deep copy of the whole document.
func (f *File) Data() (any, error) {
	doc, err := f.store.Load()
	if err != nil {
		return nil, err
	}
	return codec.Clone(doc)
}

// SetData overwrites the whole document with v, which may be any
// JSON-marshalable Go value. It's easy to wipe out a file with this;
// prefer the proxy mutation methods for targeted changes.
func (f *File) SetData(v any) error {
	nv, err := codec.Normalize(v)
	if err != nil {
		return err
	}
	return f.store.Save(nv)
}

// Clear resets the document to an empty container of its current kind.
// Returns ErrFormat on a scalar-rooted file.
func (f *File) Clear() error {
	kind, err := f.Kind()
	if err != nil {
		return err
	}
	switch kind {
	case KindObject:
		return f.store.Save(map[string]any{})
	case KindArray:
		return f.store.Save([]any{})
	default:
		return fmt.Errorf("%w: cannot clear scalar-rooted file %s", ErrFormat, f.store.Path())
	}
}

// Contents returns the raw bytes of the file as they are on disk.
// Pending grouped writes are not reflected until their scope exits.
func (f *File) Contents() ([]byte, error) {
	return f.store.Contents()
}

// Remove deletes the backing file from disk. The handle is useless
// afterwards; further operations return ErrStorage.
func (f *File) Remove() error {
	return f.store.Remove()
}

// Stats returns the storage accessor's I/O counters.
func (f *File) Stats() Stats {
	loads, saves := f.store.Counts()
	return Stats{Loads: loads, Saves: saves}
}

// Group runs fn inside a grouped-write scope: mutations made through this
// file's proxies while fn runs update a shared in-memory document instead
// of writing to disk per call, and the accumulated result is flushed with
// exactly one write when fn returns. The flush also happens if fn
// panics. Scopes do not nest, and mutations within one scope must not run
// concurrently: the scope holds exactly one mutable snapshot.
func (f *File) Group(fn func() error) (err error) {
	if err := f.store.Suspend(); err != nil {
		return err
	}
	defer func() {
		rerr := f.store.Resume()
		if err == nil {
			err = rerr
		}
	}()
	return fn()
}

// Patch applies an RFC 6902 JSON Patch to the document as a single
// read-modify-write cycle. Inside a grouped scope it composes with other
// pending mutations like any proxy operation.
func (f *File) Patch(patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("%w: decode patch: %v", ErrFormat, err)
	}
	return f.transformContents(func(data []byte) ([]byte, error) {
		return ops.Apply(data)
	})
}

// MergePatch applies an RFC 7386 merge patch to the document as a single
// read-modify-write cycle.
func (f *File) MergePatch(patch []byte) error {
	return f.transformContents(func(data []byte) ([]byte, error) {
		return jsonpatch.MergePatch(data, patch)
	})
}

// transformContents runs a byte-level document transformation through the
// usual load/save cycle so that suspension and counters apply.
func (f *File) transformContents(fn func([]byte) ([]byte, error)) error {
	doc, err := f.store.Load()
	if err != nil {
		return err
	}
	data, err := codec.Encode(doc, codec.EncodeOptions{})
	if err != nil {
		return err
	}
	out, err := fn(data)
	if err != nil {
		return fmt.Errorf("apply patch to %s: %w", f.store.Path(), err)
	}
	nv, err := codec.Decode(out)
	if err != nil {
		return err
	}
	return f.store.Save(nv)
}

// Watch invokes onChange every time the backing file is written until ctx
// is done. Writes made through this File fire it too, so it is mostly
// useful for noticing external edits. Watcher errors are logged and do
// not stop the watch.
func (f *File) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: watch %s: %v", ErrStorage, f.store.Path(), err)
	}
	if err := w.Add(f.store.Path()); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: watch %s: %v", ErrStorage, f.store.Path(), err)
	}
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				f.log.Warn("error watching file", "path", f.store.Path(), "err", err)
			}
		}
	}()
	return nil
}
