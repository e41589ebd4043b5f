package livejson

import (
	"fmt"
	"iter"

	"github.com/controversial/livejson/internal/codec"
)

// List is a live sequence proxy over a JSON array, either the root of a
// file or a nested array within it. Like Map, it holds no data: every
// method runs a fresh read (or read-modify-write) against the backing
// file. Indices may be negative to count from the end.
type List struct {
	proxy
}

// asArray narrows a resolved container to a JSON array.
func (l *List) asArray(c any) ([]any, error) {
	arr, ok := c.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array at %s, found %s", ErrFormat, l.Path(), kindOf(c))
	}
	return arr, nil
}

// normIndex resolves a possibly-negative index against length n.
func (l *List) normIndex(i, n int) (int, error) {
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: %d at %s (length %d)", ErrIndexOutOfRange, i, l.Path(), n)
	}
	return idx, nil
}

// Get returns the element at index i. Nested containers come back as
// live proxies, scalars by value. Returns ErrIndexOutOfRange if i does
// not resolve.
func (l *List) Get(i int) (any, error) {
	_, c, err := l.container()
	if err != nil {
		return nil, err
	}
	arr, err := l.asArray(c)
	if err != nil {
		return nil, err
	}
	idx, err := l.normIndex(i, len(arr))
	if err != nil {
		return nil, err
	}
	return l.wrap(arr[idx], l.child(idx)), nil
}

// Set replaces the element at index i and persists the change.
func (l *List) Set(i int, value any) error {
	nv, err := codec.Normalize(value)
	if err != nil {
		return err
	}
	return l.mutate(func(c any) (any, error) {
		arr, err := l.asArray(c)
		if err != nil {
			return nil, err
		}
		idx, err := l.normIndex(i, len(arr))
		if err != nil {
			return nil, err
		}
		arr[idx] = nv
		return arr, nil
	})
}

// Delete removes the element at index i and persists the change.
func (l *List) Delete(i int) error {
	return l.mutate(func(c any) (any, error) {
		arr, err := l.asArray(c)
		if err != nil {
			return nil, err
		}
		idx, err := l.normIndex(i, len(arr))
		if err != nil {
			return nil, err
		}
		return append(arr[:idx], arr[idx+1:]...), nil
	})
}

// Append adds value at the end of the sequence.
func (l *List) Append(value any) error {
	nv, err := codec.Normalize(value)
	if err != nil {
		return err
	}
	return l.mutate(func(c any) (any, error) {
		arr, err := l.asArray(c)
		if err != nil {
			return nil, err
		}
		return append(arr, nv), nil
	})
}

// Insert adds value at index i, shifting later elements right. Out of
// range indices clamp to the nearest end, so Insert(0, v) always prepends
// and an index past the end appends.
func (l *List) Insert(i int, value any) error {
	nv, err := codec.Normalize(value)
	if err != nil {
		return err
	}
	return l.mutate(func(c any) (any, error) {
		arr, err := l.asArray(c)
		if err != nil {
			return nil, err
		}
		idx := i
		if idx < 0 {
			idx += len(arr)
			if idx < 0 {
				idx = 0
			}
		}
		if idx > len(arr) {
			idx = len(arr)
		}
		arr = append(arr, nil)
		copy(arr[idx+1:], arr[idx:])
		arr[idx] = nv
		return arr, nil
	})
}

// Extend appends each of values in order with a single underlying save.
func (l *List) Extend(values ...any) error {
	nvs := make([]any, 0, len(values))
	for _, v := range values {
		nv, err := codec.Normalize(v)
		if err != nil {
			return err
		}
		nvs = append(nvs, nv)
	}
	return l.mutate(func(c any) (any, error) {
		arr, err := l.asArray(c)
		if err != nil {
			return nil, err
		}
		return append(arr, nvs...), nil
	})
}

// Pop removes the element at index i and returns it as a detached plain
// value. Pop(-1) pops from the end. One save per call.
func (l *List) Pop(i int) (any, error) {
	var popped any
	err := l.mutate(func(c any) (any, error) {
		arr, err := l.asArray(c)
		if err != nil {
			return nil, err
		}
		idx, err := l.normIndex(i, len(arr))
		if err != nil {
			return nil, err
		}
		if popped, err = codec.Clone(arr[idx]); err != nil {
			return nil, err
		}
		return append(arr[:idx], arr[idx+1:]...), nil
	})
	if err != nil {
		return nil, err
	}
	return popped, nil
}

// Len returns the number of elements, computed from a fresh read.
func (l *List) Len() (int, error) {
	_, c, err := l.container()
	if err != nil {
		return 0, err
	}
	arr, err := l.asArray(c)
	if err != nil {
		return 0, err
	}
	return len(arr), nil
}

// All returns an iterator over the elements from a snapshot taken at the
// time of the call. Nested containers are yielded as live proxies.
func (l *List) All() (iter.Seq[any], error) {
	_, c, err := l.container()
	if err != nil {
		return nil, err
	}
	arr, err := l.asArray(c)
	if err != nil {
		return nil, err
	}
	return func(yield func(any) bool) {
		for i, v := range arr {
			if !yield(l.wrap(v, l.child(i))) {
				return
			}
		}
	}, nil
}

// Slice returns a detached copy of the elements in [i, j). Negative
// bounds count from the end and out of range bounds clamp, so
// Slice(0, -1) is everything but the last element.
func (l *List) Slice(i, j int) ([]any, error) {
	_, c, err := l.container()
	if err != nil {
		return nil, err
	}
	arr, err := l.asArray(c)
	if err != nil {
		return nil, err
	}
	lo, hi := clampBound(i, len(arr)), clampBound(j, len(arr))
	if lo > hi {
		lo = hi
	}
	out, err := codec.Clone(arr[lo:hi])
	if err != nil {
		return nil, err
	}
	res, _ := out.([]any)
	if res == nil {
		res = []any{}
	}
	return res, nil
}

// clampBound resolves a slice bound against length n, clamping instead
// of erroring.
func clampBound(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Data returns a detached deep copy of the sequence as a plain []any.
func (l *List) Data() (any, error) {
	return l.detach()
}

// Equal reports whether the sequence's current contents deep-equal v,
// which may be a plain value or another proxy.
func (l *List) Equal(v any) (bool, error) {
	return l.equal(v)
}

// MarshalJSON serializes the sequence's current contents, so a proxy can
// be embedded in any value handed to encoding/json (or stored through
// Set, which deep-copies it at that point).
func (l *List) MarshalJSON() ([]byte, error) {
	v, err := l.detach()
	if err != nil {
		return nil, err
	}
	return codec.Encode(v, codec.EncodeOptions{})
}
