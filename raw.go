package framed

import "errors"

// Raw format errors
var (
	ErrNotBytes = errors.New("raw format requires []byte values")
)

// Raw implements Format as a byte passthrough for applications that
// already hold serialized payloads. Values must be []byte. Buffers are
// copied on both paths so neither side retains the other's memory.
type Raw struct{}

// Marshal returns an owned copy of the byte value.
func (Raw) Marshal(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrNotBytes
	}
	return append([]byte(nil), b...), nil
}

// Unmarshal copies the payload into the target byte slice.
func (Raw) Unmarshal(data []byte, v any) error {
	p, ok := v.(*[]byte)
	if !ok {
		return ErrNotBytes
	}
	*p = append([]byte(nil), data...)
	return nil
}

// ContentType returns the MIME type for raw bytes.
func (Raw) ContentType() string {
	return "application/octet-stream"
}

// Name returns the format identifier.
func (Raw) Name() string {
	return "raw"
}

// Compile-time check
var _ Format = Raw{}

func init() {
	Register(Raw{})
}
