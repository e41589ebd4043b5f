package livejson

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/controversial/livejson/internal/codec"
)

// Map is a live mapping proxy over a JSON object, either the root of a
// file or a nested object within it. It holds no data of its own: every
// method re-reads the backing file (or the pending grouped-write
// document) before acting, and every mutation rewrites it.
type Map struct {
	proxy
}

// asObject narrows a resolved container to a JSON object.
func (m *Map) asObject(c any) (map[string]any, error) {
	obj, ok := c.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object at %s, found %s", ErrFormat, m.Path(), kindOf(c))
	}
	return obj, nil
}

// Get returns the value stored under key. Nested objects and arrays come
// back as live *Map / *List proxies bound to the same file; scalars are
// returned by value. Returns ErrKeyNotFound if the key is absent.
func (m *Map) Get(key string) (any, error) {
	_, c, err := m.container()
	if err != nil {
		return nil, err
	}
	obj, err := m.asObject(c)
	if err != nil {
		return nil, err
	}
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q at %s", ErrKeyNotFound, key, m.Path())
	}
	return m.wrap(v, m.child(key)), nil
}

// GetDefault is like Get but returns def instead of ErrKeyNotFound when
// the key is absent.
func (m *Map) GetDefault(key string, def any) (any, error) {
	v, err := m.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return def, nil
	}
	return v, err
}

// Set stores value under key and persists the change before returning.
// The value may be any JSON-marshalable Go value; it is normalized to the
// plain document shape on the way in. Returns ErrUnsupportedValue if the
// value cannot be encoded.
func (m *Map) Set(key string, value any) error {
	nv, err := codec.Normalize(value)
	if err != nil {
		return err
	}
	return m.mutate(func(c any) (any, error) {
		obj, err := m.asObject(c)
		if err != nil {
			return nil, err
		}
		obj[key] = nv
		return obj, nil
	})
}

// Delete removes key and persists the change. Deleting an absent key
// returns ErrKeyNotFound, never a silent no-op.
func (m *Map) Delete(key string) error {
	return m.mutate(func(c any) (any, error) {
		obj, err := m.asObject(c)
		if err != nil {
			return nil, err
		}
		if _, ok := obj[key]; !ok {
			return nil, fmt.Errorf("%w: %q at %s", ErrKeyNotFound, key, m.Path())
		}
		delete(obj, key)
		return obj, nil
	})
}

// Pop removes key and returns its former value as a detached plain value.
// One save per call.
func (m *Map) Pop(key string) (any, error) {
	var popped any
	err := m.mutate(func(c any) (any, error) {
		obj, err := m.asObject(c)
		if err != nil {
			return nil, err
		}
		v, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q at %s", ErrKeyNotFound, key, m.Path())
		}
		if popped, err = codec.Clone(v); err != nil {
			return nil, err
		}
		delete(obj, key)
		return obj, nil
	})
	if err != nil {
		return nil, err
	}
	return popped, nil
}

// Update merges the entries of values into the mapping with a single
// underlying save, like repeated Set calls but one write.
func (m *Map) Update(values map[string]any) error {
	nv, err := codec.Normalize(values)
	if err != nil {
		return err
	}
	entries, _ := nv.(map[string]any)
	return m.mutate(func(c any) (any, error) {
		obj, err := m.asObject(c)
		if err != nil {
			return nil, err
		}
		for k, v := range entries {
			obj[k] = v
		}
		return obj, nil
	})
}

// Has reports whether key is present.
func (m *Map) Has(key string) (bool, error) {
	_, c, err := m.container()
	if err != nil {
		return false, err
	}
	obj, err := m.asObject(c)
	if err != nil {
		return false, err
	}
	_, ok := obj[key]
	return ok, nil
}

// Len returns the number of keys, computed from a fresh read.
func (m *Map) Len() (int, error) {
	_, c, err := m.container()
	if err != nil {
		return 0, err
	}
	obj, err := m.asObject(c)
	if err != nil {
		return 0, err
	}
	return len(obj), nil
}

// Keys returns all keys in sorted order.
func (m *Map) Keys() ([]string, error) {
	_, c, err := m.container()
	if err != nil {
		return nil, err
	}
	obj, err := m.asObject(c)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// All returns an iterator over key/value pairs from a snapshot taken at
// the time of the call, in sorted key order. Nested containers are
// yielded as live proxies.
func (m *Map) All() (iter.Seq2[string, any], error) {
	_, c, err := m.container()
	if err != nil {
		return nil, err
	}
	obj, err := m.asObject(c)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return func(yield func(string, any) bool) {
		for _, k := range keys {
			if !yield(k, m.wrap(obj[k], m.child(k))) {
				return
			}
		}
	}, nil
}

// Data returns a detached deep copy of the mapping as a plain
// map[string]any. Nested values are plain values, never proxies.
func (m *Map) Data() (any, error) {
	return m.detach()
}

// Equal reports whether the mapping's current contents deep-equal v,
// which may be a plain value or another proxy.
func (m *Map) Equal(v any) (bool, error) {
	return m.equal(v)
}

// MarshalJSON serializes the mapping's current contents, so a proxy can
// be embedded in any value handed to encoding/json (or stored through
// Set, which deep-copies it at that point).
func (m *Map) MarshalJSON() ([]byte, error) {
	v, err := m.detach()
	if err != nil {
		return nil, err
	}
	return codec.Encode(v, codec.EncodeOptions{})
}
