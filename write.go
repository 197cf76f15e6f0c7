package framed

import (
	"context"

	"github.com/rbaliyan/framed/frame"
)

// Writer pushes typed values to a frame transport.
//
// Each call to Write encodes one value and hands the resulting payload
// to the transport as a single frame. Encode errors surface to the
// caller unchanged and nothing is written for the failed value.
type Writer[T any] struct {
	fw      frame.Writer
	enc     Encoder[T]
	options *options
}

// NewWriter composes an encoder with a frame transport.
//
// Options:
//   - WithRateLimit: throttle outgoing frames
//   - WithLogger: set the logger
func NewWriter[T any](fw frame.Writer, enc Encoder[T], opts ...Option) *Writer[T] {
	return &Writer[T]{
		fw:      fw,
		enc:     enc,
		options: newOptions("framed.writer", opts...),
	}
}

// Write encodes v and sends it as one frame.
func (w *Writer[T]) Write(ctx context.Context, v T) error {
	payload, err := w.enc.Encode(v)
	if err != nil {
		return err
	}
	if w.options.limiter != nil {
		if err := w.options.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return w.fw.Write(ctx, payload)
}
