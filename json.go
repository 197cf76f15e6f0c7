package framed

import (
	"bytes"
	"encoding/json"
	"io"
)

// jsonFormat implements Format using encoding/json.
// This is the default format, providing human-readable output.
//
// Decoding consumes exactly one JSON value per frame. Trailing
// whitespace is permitted (it is part of the textual representation);
// any other trailing bytes are rejected with ErrTrailingData.
//
// Known limitation: JSON numbers are decoded as float64 unless the
// target type says otherwise, so integers beyond 2^53 lose precision.
// This is a property of the format, not of the codec.
type jsonFormat struct {
	disallowUnknown bool
}

// JSONOption configures the JSON format.
type JSONOption func(*jsonFormat)

// WithDisallowUnknownFields makes decoding fail when the payload
// contains object keys that do not match any field of the target type.
// By default unknown fields are ignored.
func WithDisallowUnknownFields() JSONOption {
	return func(f *jsonFormat) {
		f.disallowUnknown = true
	}
}

// JSON returns the JSON format.
//
// Example:
//
//	strict := framed.JSON(framed.WithDisallowUnknownFields())
//	c := framed.New[Order](strict)
func JSON(opts ...JSONOption) Format {
	f := jsonFormat{}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Marshal encodes v to JSON bytes.
func (f jsonFormat) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes exactly one JSON value from data into v.
func (f jsonFormat) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if f.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	// One value per frame: only whitespace may follow.
	if _, err := dec.Token(); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}

// ContentType returns the MIME type for JSON.
func (f jsonFormat) ContentType() string {
	return "application/json"
}

// Name returns the format identifier.
func (f jsonFormat) Name() string {
	return "json"
}

// Compile-time check
var _ Format = jsonFormat{}
