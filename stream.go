package framed

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rbaliyan/framed/frame"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Stream is the asynchronous read side of a codec pipeline: a goroutine
// reads frames from the transport, decodes them and delivers values on
// a channel.
//
// The value channel closes when the transport reports end of stream,
// when a decode failure terminates the stream (the default policy; see
// ContinueOnError) or when the stream is closed. After the channel
// closes, Err reports the terminating error, if any.
type Stream[T any] struct {
	id     string
	out    chan T
	done   chan struct{}
	cancel context.CancelFunc
	closed int32

	mu  sync.Mutex
	err error

	options *options
	tracer  trace.Tracer
	decoded metric.Int64Counter
	failed  metric.Int64Counter
}

// NewStream starts a decode pump over the given frame reader.
//
// Options:
//   - WithBufferSize: value channel buffer
//   - ContinueOnError: skip undecodable frames instead of terminating
//   - WithErrorHandler: observe decode failures
//   - WithLogger: set the logger
//
// Example:
//
//	s := framed.NewStream(sub, framed.New[Order](framed.JSON()))
//	defer s.Close(ctx)
//	for order := range s.Values() {
//	    ...
//	}
//	if err := s.Err(); err != nil {
//	    ...
//	}
func NewStream[T any](fr frame.Reader, dec Decoder[T], opts ...Option) *Stream[T] {
	o := newOptions("framed.stream", opts...)

	meter := otel.Meter("framed.stream")
	decoded, _ := meter.Int64Counter("framed.stream.decoded",
		metric.WithDescription("Number of values decoded from frames"),
		metric.WithUnit("{value}"),
	)
	failed, _ := meter.Int64Counter("framed.stream.failed",
		metric.WithDescription("Number of frames that failed to decode"),
		metric.WithUnit("{frame}"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Stream[T]{
		id:      NewID(),
		out:     make(chan T, o.bufferSize),
		done:    make(chan struct{}),
		cancel:  cancel,
		options: o,
		tracer:  otel.Tracer("framed.stream"),
		decoded: decoded,
		failed:  failed,
	}

	go s.pump(ctx, fr, dec)
	return s
}

func (s *Stream[T]) pump(ctx context.Context, fr frame.Reader, dec Decoder[T]) {
	defer func() {
		close(s.out)
		close(s.done)
	}()

	for {
		payload, err := fr.Read(ctx)
		if err != nil {
			// End of stream, transport shutdown and Close are clean exits.
			if !errors.Is(err, io.EOF) && !errors.Is(err, frame.ErrClosed) && !errors.Is(err, context.Canceled) {
				s.setErr(err)
				s.options.onError(err)
				s.options.logger.Warn("frame read failed", "stream", s.id, "error", err)
			}
			return
		}

		spanCtx, span := s.tracer.Start(ctx, "framed.decode")
		v, err := dec.Decode(payload)
		if err != nil {
			span.RecordError(err)
			span.End()
			s.failed.Add(spanCtx, 1, metric.WithAttributes(
				attribute.String("stream", s.id),
			))
			s.options.onError(err)
			if s.options.continueOnError {
				s.options.logger.Debug("skipping undecodable frame", "stream", s.id, "error", err)
				continue
			}
			s.setErr(err)
			return
		}
		span.End()
		s.decoded.Add(spanCtx, 1, metric.WithAttributes(
			attribute.String("stream", s.id),
		))

		select {
		case s.out <- v:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Stream[T]) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// ID returns the stream identifier used in logs.
func (s *Stream[T]) ID() string {
	return s.id
}

// Values returns the channel of decoded values.
func (s *Stream[T]) Values() <-chan T {
	return s.out
}

// Err returns the error that terminated the stream, if any.
// Valid after the Values channel has closed. End of stream (io.EOF)
// and a plain Close are not errors.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the pump and waits for it to finish, or until ctx is done.
// Close is idempotent.
func (s *Stream[T]) Close(ctx context.Context) error {
	if atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		s.cancel()
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
