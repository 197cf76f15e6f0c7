package framed

import (
	"context"

	"github.com/rbaliyan/framed/frame"
)

// Reader pulls typed values from a frame transport.
//
// Each call to Next reads one complete frame and decodes it. Codec
// errors surface to the caller unchanged; whether a failed conversion
// terminates the pipeline is the caller's decision. Frame transport
// errors (including io.EOF at end of stream) pass through untouched.
//
// A Reader holds no state between calls; it is safe for concurrent use
// as long as the underlying frame reader is.
type Reader[T any] struct {
	fr  frame.Reader
	dec Decoder[T]
}

// NewReader composes a decoder with a frame transport.
//
// Example:
//
//	r := framed.NewReader(pipe, framed.New[Order](framed.JSON()))
//	for {
//	    order, err := r.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
func NewReader[T any](fr frame.Reader, dec Decoder[T]) *Reader[T] {
	return &Reader[T]{fr: fr, dec: dec}
}

// Next reads and decodes the next frame.
func (r *Reader[T]) Next(ctx context.Context) (T, error) {
	payload, err := r.fr.Read(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.dec.Decode(payload)
}
