package livejson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/controversial/livejson/internal/codec"
	"github.com/controversial/livejson/internal/storage"
)

// proxy is the shared core of Map and List. It holds no document data at
// all: only the storage accessor and the path of string keys and integer
// indices leading from the root to this container. Every operation
// re-reads the full document, navigates the path, and (for mutations)
// writes the full document back. Two proxies with the same store and path
// are interchangeable.
type proxy struct {
	store *storage.Store
	path  []any
}

// child returns the path extended by one step. The receiver's path slice
// is never shared with the result.
func (p *proxy) child(step any) []any {
	next := make([]any, len(p.path), len(p.path)+1)
	copy(next, p.path)
	return append(next, step)
}

// wrap converts a value freshly resolved at path into what callers see:
// containers become live proxies bound to the same store, scalars pass
// through by value.
func (p *proxy) wrap(v any, path []any) any {
	switch v.(type) {
	case map[string]any:
		return &Map{proxy{store: p.store, path: path}}
	case []any:
		return &List{proxy{store: p.store, path: path}}
	default:
		return v
	}
}

// container loads the document and resolves this proxy's path within it.
// The returned doc is the full document; mutations applied to the
// resolved container must be folded back into doc before saving (slice
// containers are values, not references).
func (p *proxy) container() (doc, c any, err error) {
	doc, err = p.store.Load()
	if err != nil {
		return nil, nil, err
	}
	c, err = resolvePath(doc, p.path)
	if err != nil {
		return nil, nil, err
	}
	return doc, c, nil
}

// mutate runs the read-modify-write cycle: load the document, resolve
// this proxy's container, apply fn to it, fold the (possibly replaced)
// container back into the document along the path, and save. Exactly one
// save per call.
func (p *proxy) mutate(fn func(c any) (any, error)) error {
	doc, c, err := p.container()
	if err != nil {
		return err
	}
	c, err = fn(c)
	if err != nil {
		return err
	}
	doc, err = replacePath(doc, p.path, c)
	if err != nil {
		return err
	}
	return p.store.Save(doc)
}

// detach resolves this proxy's current value and deep-copies it so the
// result shares nothing with live storage state.
func (p *proxy) detach() (any, error) {
	_, c, err := p.container()
	if err != nil {
		return nil, err
	}
	return codec.Clone(c)
}

// equal compares this proxy's current value against v, recursively
// resolving both sides to plain values first.
func (p *proxy) equal(v any) (bool, error) {
	c, err := p.detach()
	if err != nil {
		return false, err
	}
	if lv, ok := v.(interface{ Data() (any, error) }); ok {
		if v, err = lv.Data(); err != nil {
			return false, err
		}
	}
	return codec.Equal(c, v)
}

// Path returns the proxy's position within the document, rendered like
// "$.users[0].name". The root renders as "$".
func (p *proxy) Path() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, step := range p.path {
		switch s := step.(type) {
		case string:
			b.WriteByte('.')
			b.WriteString(s)
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// resolvePath descends doc along path, one key or index at a time.
func resolvePath(doc any, path []any) (any, error) {
	v := doc
	for i, step := range path {
		switch s := step.(type) {
		case string:
			obj, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: expected object at %s, found %s", ErrFormat, pathString(path[:i]), kindOf(v))
			}
			child, ok := obj[s]
			if !ok {
				return nil, fmt.Errorf("%w: %q at %s", ErrKeyNotFound, s, pathString(path[:i]))
			}
			v = child
		case int:
			arr, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: expected array at %s, found %s", ErrFormat, pathString(path[:i]), kindOf(v))
			}
			if s < 0 || s >= len(arr) {
				return nil, fmt.Errorf("%w: %d at %s (length %d)", ErrIndexOutOfRange, s, pathString(path[:i]), len(arr))
			}
			v = arr[s]
		default:
			return nil, fmt.Errorf("%w: unsupported path step %T", ErrFormat, step)
		}
	}
	return v, nil
}

// replacePath returns doc with the value at path replaced by v,
// rebuilding the ancestor chain as it unwinds. Maps mutate in place;
// slices are value types in Go, so each level's (possibly new) container
// is reassigned into its parent.
func replacePath(doc any, path []any, v any) (any, error) {
	if len(path) == 0 {
		return v, nil
	}
	step, rest := path[0], path[1:]
	switch s := step.(type) {
	case string:
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected object, found %s", ErrFormat, kindOf(doc))
		}
		child, ok := obj[s]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, s)
		}
		nv, err := replacePath(child, rest, v)
		if err != nil {
			return nil, err
		}
		obj[s] = nv
		return obj, nil
	case int:
		arr, ok := doc.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected array, found %s", ErrFormat, kindOf(doc))
		}
		if s < 0 || s >= len(arr) {
			return nil, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, s, len(arr))
		}
		nv, err := replacePath(arr[s], rest, v)
		if err != nil {
			return nil, err
		}
		arr[s] = nv
		return arr, nil
	default:
		return nil, fmt.Errorf("%w: unsupported path step %T", ErrFormat, step)
	}
}

func pathString(path []any) string {
	return (&proxy{path: path}).Path()
}

// kindOf names a document value's JSON kind for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return "number"
	}
}
