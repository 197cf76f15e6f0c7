// Package nats adapts NATS subjects to the frame transport contract.
//
// NATS messages are inherently discrete, so every message on a subject
// is one complete frame: no framing work happens here. Delivery follows
// NATS Core semantics (at-most-once); frames published while no reader
// is subscribed are lost.
package nats

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/rbaliyan/framed/frame"
)

// Adapter errors
var (
	ErrConnRequired = errors.New("nats connection is required")
)

// Conn is the subset of *nats.Conn used by this package.
// Narrowed for testability.
type Conn interface {
	Publish(subj string, data []byte) error
	ChanSubscribe(subj string, ch chan *nats.Msg) (*nats.Subscription, error)
	ChanQueueSubscribe(subj, group string, ch chan *nats.Msg) (*nats.Subscription, error)
}

// Compile-time check
var _ Conn = (*nats.Conn)(nil)

// Option configures a Reader or Writer.
type Option func(*options)

type options struct {
	bufferSize uint
	queue      string
	logger     *slog.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		bufferSize: frame.DefaultBufferSize,
		logger:     frame.Logger("frame.nats"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBufferSize sets the pending frame buffer for a Reader.
func WithBufferSize(size uint) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// WithQueue subscribes the Reader as part of a queue group, so frames
// are load balanced across readers sharing the group instead of
// broadcast to all of them.
func WithQueue(group string) Option {
	return func(o *options) {
		o.queue = group
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Writer publishes each frame as one NATS message.
type Writer struct {
	conn    Conn
	subject string
	closed  int32
	logger  *slog.Logger
}

// NewWriter creates a frame writer publishing to the given subject.
func NewWriter(conn Conn, subject string, opts ...Option) (*Writer, error) {
	if conn == nil {
		return nil, ErrConnRequired
	}
	o := newOptions(opts...)
	return &Writer{
		conn:    conn,
		subject: subject,
		logger:  o.logger,
	}, nil
}

// Write publishes one frame payload.
func (w *Writer) Write(ctx context.Context, payload []byte) error {
	if atomic.LoadInt32(&w.closed) == 1 {
		return frame.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.conn.Publish(w.subject, payload); err != nil {
		return err
	}
	w.logger.Debug("published frame", "subject", w.subject, "bytes", len(payload))
	return nil
}

// Close marks the writer closed. The NATS connection is owned by the
// caller and is not closed here.
func (w *Writer) Close() error {
	atomic.StoreInt32(&w.closed, 1)
	return nil
}

// Reader receives each NATS message on a subject as one frame.
type Reader struct {
	sub      *nats.Subscription
	ch       chan *nats.Msg
	closedCh chan struct{}
	closed   int32
	logger   *slog.Logger
}

// NewReader creates a frame reader subscribed to the given subject.
func NewReader(conn Conn, subject string, opts ...Option) (*Reader, error) {
	if conn == nil {
		return nil, ErrConnRequired
	}
	o := newOptions(opts...)

	ch := make(chan *nats.Msg, o.bufferSize)
	var sub *nats.Subscription
	var err error
	if o.queue != "" {
		sub, err = conn.ChanQueueSubscribe(subject, o.queue, ch)
	} else {
		sub, err = conn.ChanSubscribe(subject, ch)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Debug("subscribed", "subject", subject, "queue", o.queue)
	return &Reader{
		sub:      sub,
		ch:       ch,
		closedCh: make(chan struct{}),
		logger:   o.logger,
	}, nil
}

// Read returns the next frame payload.
func (r *Reader) Read(ctx context.Context) ([]byte, error) {
	if atomic.LoadInt32(&r.closed) == 1 {
		return nil, frame.ErrClosed
	}
	select {
	case msg := <-r.ch:
		return msg.Data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.closedCh:
		return nil, frame.ErrClosed
	}
}

// Close unsubscribes and releases the reader. Close is idempotent.
func (r *Reader) Close() error {
	if atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		close(r.closedCh)
		if r.sub != nil {
			return r.sub.Unsubscribe()
		}
	}
	return nil
}

// Compile-time checks
var (
	_ frame.Writer = (*Writer)(nil)
	_ frame.Reader = (*Reader)(nil)
)
