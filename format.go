package framed

// Format is an untyped serialization strategy.
//
// A Format converts between arbitrary Go values and their wire
// representation. Typed codecs are built over a Format with New[T],
// which is what allows a single format implementation to serve an
// unbounded set of value types.
//
// Implementations must be safe for concurrent use and must treat the
// data passed to Unmarshal as read-only.
type Format interface {
	// Marshal encodes v into an owned byte buffer.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes a complete payload into the value pointed to
	// by v. A payload containing trailing bytes after one complete
	// value is rejected with ErrTrailingData.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type (e.g. "application/json").
	ContentType() string

	// Name returns a short identifier (e.g. "json", "msgpack", "proto").
	Name() string
}

// Default returns the default format (JSON).
func Default() Format {
	return JSON()
}
