package framed

import (
	"errors"
)

// Codec errors.
// Use errors.Is() to check for these as codec implementations join them
// with the underlying format error.
var (
	// ErrEncodeFailure is returned when a value cannot be represented in
	// the target format (e.g. a non-finite float in JSON).
	ErrEncodeFailure = errors.New("failed to encode value")

	// ErrDecodeFailure is returned when frame bytes are malformed for the
	// target format, or are well-formed but do not match the shape
	// required to construct the target type.
	ErrDecodeFailure = errors.New("failed to decode value")

	// ErrTrailingData is returned when a frame contains a complete value
	// followed by extra bytes. A frame carries exactly one value.
	ErrTrailingData = errors.New("trailing data after value")
)

// Encoder converts a value into a frame payload.
// Implementations must be safe for concurrent use.
type Encoder[T any] interface {
	// Encode serializes v into an owned byte buffer containing the
	// complete serialized representation, ready to be handed to a frame
	// transport as a single frame.
	// Returns an error joining ErrEncodeFailure if serialization fails.
	Encode(v T) ([]byte, error)
}

// Decoder converts a frame payload back into a value.
// Implementations must be safe for concurrent use.
type Decoder[T any] interface {
	// Decode deserializes a complete frame payload into a value.
	// The input is borrowed for the duration of the call only; it is
	// never mutated or retained.
	// Returns an error joining ErrDecodeFailure if deserialization fails.
	Decode(data []byte) (T, error)
}

// Codec pairs the encode/decode capability for a single value type.
// A codec is stateless: every call is an independent, pure transformation,
// so one codec may be shared across goroutines without coordination.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]

	// ContentType returns the MIME type of the wire format
	// (e.g. "application/json").
	ContentType() string

	// Name returns a short format identifier (e.g. "json", "msgpack").
	Name() string
}

// codec adapts an untyped Format to a typed Codec[T].
// The format dispatches purely through the marshal capability of T;
// adding a new value type requires no codec changes.
type codec[T any] struct {
	format Format
}

// New creates a typed codec for T over the given format.
// A nil format selects JSON.
//
// Example:
//
//	c := framed.New[Order](framed.JSON())
//	data, err := c.Encode(order)
//	back, err := c.Decode(data)
func New[T any](f Format) Codec[T] {
	if f == nil {
		f = JSON()
	}
	return codec[T]{format: f}
}

// Encode serializes v using the underlying format.
func (c codec[T]) Encode(v T) ([]byte, error) {
	data, err := c.format.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailure, err)
	}
	return data, nil
}

// Decode deserializes a complete frame payload into a value of type T.
// If the decoded value implements Validator, Validate is called and a
// validation failure is reported as a decode failure.
func (c codec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := c.format.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrDecodeFailure, err)
	}
	if err := validate(&v); err != nil {
		return v, errors.Join(ErrDecodeFailure, err)
	}
	return v, nil
}

// ContentType returns the MIME type of the underlying format.
func (c codec[T]) ContentType() string {
	return c.format.ContentType()
}

// Name returns the identifier of the underlying format.
func (c codec[T]) Name() string {
	return c.format.Name()
}
