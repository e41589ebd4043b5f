package livejson

// Kind identifies the root JSON value's container kind.
type Kind int

const (
	// KindObject means the root value is a JSON object, exposed through
	// the mapping interface.
	KindObject Kind = iota

	// KindArray means the root value is a JSON array, exposed through the
	// sequence interface.
	KindArray

	// KindScalar means the root value is a bare string, number, boolean or
	// null. Such a file can be read and rewritten wholesale but does not
	// support the container mutation API.
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindScalar:
		return "scalar"
	default:
		return "<unknown kind>"
	}
}

// Stats contains I/O counters for a file's storage accessor.
type Stats struct {
	// Loads is the number of completed disk reads.
	Loads int64 `json:"loads"`

	// Saves is the number of completed disk writes. Inside a grouped-write
	// scope mutations do not increment this until the scope flushes.
	Saves int64 `json:"saves"`
}
