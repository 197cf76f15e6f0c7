package frame

import (
	"context"
	"io"
	"sync/atomic"
)

// DefaultBufferSize is the frame buffer size used when none is set.
var DefaultBufferSize uint = 100

// Pipe is a channel-based in-process frame transport.
//
// A Pipe is suitable for wiring a codec pipeline within a single
// process and for tests. It provides no persistence: frames buffered at
// Close remain readable until drained, after which Read returns io.EOF.
type Pipe struct {
	status   int32
	ch       chan []byte
	closedCh chan struct{}
}

// PipeOption configures a Pipe.
type PipeOption func(*pipeOptions)

type pipeOptions struct {
	bufferSize uint
}

// WithPipeBuffer sets the frame buffer size.
func WithPipeBuffer(size uint) PipeOption {
	return func(o *pipeOptions) {
		o.bufferSize = size
	}
}

// NewPipe creates a new in-process frame transport.
func NewPipe(opts ...PipeOption) *Pipe {
	o := pipeOptions{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipe{
		status:   1,
		ch:       make(chan []byte, o.bufferSize),
		closedCh: make(chan struct{}),
	}
}

func (p *Pipe) isOpen() bool {
	return atomic.LoadInt32(&p.status) == 1
}

// Write queues one frame payload.
// Returns ErrClosed after Close, or the context error if ctx ends first.
func (p *Pipe) Write(ctx context.Context, payload []byte) error {
	if !p.isOpen() {
		return ErrClosed
	}
	select {
	case <-p.closedCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.ch <- payload:
		return nil
	}
}

// Read returns the next frame payload.
// After Close, buffered frames are still delivered; once drained Read
// returns io.EOF.
func (p *Pipe) Read(ctx context.Context) ([]byte, error) {
	// Fast path: buffered frame available.
	select {
	case payload := <-p.ch:
		return payload, nil
	default:
	}
	select {
	case payload := <-p.ch:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.closedCh:
		// Drain anything that raced with Close.
		select {
		case payload := <-p.ch:
			return payload, nil
		default:
			return nil, io.EOF
		}
	}
}

// Close shuts down the pipe. Pending frames remain readable.
// Close is idempotent.
func (p *Pipe) Close() error {
	if atomic.CompareAndSwapInt32(&p.status, 1, 0) {
		close(p.closedCh)
	}
	return nil
}

// Compile-time checks
var (
	_ Reader = (*Pipe)(nil)
	_ Writer = (*Pipe)(nil)
)
