package framed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rbaliyan/framed/frame"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Sink errors
var (
	// ErrSinkClosed is returned by Send after Close.
	ErrSinkClosed = errors.New("sink closed")
)

// Sink is the asynchronous write side of a codec pipeline: values are
// queued with Send, encoded by a pump goroutine and handed to the frame
// transport one frame per value.
//
// By default the first encode or transport failure terminates the sink:
// subsequent Send calls return the terminating error and queued values
// are dropped. With ContinueOnError, values that fail to encode are
// skipped and the sink keeps going.
type Sink[T any] struct {
	id     string
	in     chan T
	done   chan struct{}
	closed int32
	failed int32

	mu  sync.Mutex
	err error

	options *options
	tracer  trace.Tracer
	encoded metric.Int64Counter
	dropped metric.Int64Counter
}

// NewSink starts an encode pump over the given frame writer.
//
// Options:
//   - WithBufferSize: value channel buffer
//   - ContinueOnError: skip unencodable values instead of terminating
//   - WithRateLimit: throttle outgoing frames
//   - WithErrorHandler: observe encode and transport failures
//   - WithLogger: set the logger
func NewSink[T any](fw frame.Writer, enc Encoder[T], opts ...Option) *Sink[T] {
	o := newOptions("framed.sink", opts...)

	meter := otel.Meter("framed.sink")
	encoded, _ := meter.Int64Counter("framed.sink.encoded",
		metric.WithDescription("Number of values encoded into frames"),
		metric.WithUnit("{value}"),
	)
	dropped, _ := meter.Int64Counter("framed.sink.dropped",
		metric.WithDescription("Number of values dropped by the sink"),
		metric.WithUnit("{value}"),
	)

	s := &Sink[T]{
		id:      NewID(),
		in:      make(chan T, o.bufferSize),
		done:    make(chan struct{}),
		options: o,
		tracer:  otel.Tracer("framed.sink"),
		encoded: encoded,
		dropped: dropped,
	}

	go s.pump(fw, enc)
	return s
}

func (s *Sink[T]) pump(fw frame.Writer, enc Encoder[T]) {
	defer close(s.done)
	ctx := context.Background()

	for v := range s.in {
		if atomic.LoadInt32(&s.failed) == 1 {
			// Terminated: drain without writing so senders never block.
			s.drop(ctx, "sink_failed")
			continue
		}

		spanCtx, span := s.tracer.Start(ctx, "framed.encode")
		payload, err := enc.Encode(v)
		if err != nil {
			span.RecordError(err)
			span.End()
			s.options.onError(err)
			if s.options.continueOnError {
				s.drop(spanCtx, "encode_failed")
				continue
			}
			s.fail(err)
			continue
		}
		span.End()

		if s.options.limiter != nil {
			if err := s.options.limiter.Wait(ctx); err != nil {
				s.fail(err)
				continue
			}
		}

		if err := fw.Write(ctx, payload); err != nil {
			s.options.onError(err)
			s.fail(err)
			continue
		}
		s.encoded.Add(spanCtx, 1, metric.WithAttributes(
			attribute.String("sink", s.id),
		))
	}
}

func (s *Sink[T]) drop(ctx context.Context, reason string) {
	s.dropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sink", s.id),
		attribute.String("reason", reason),
	))
	s.options.logger.Debug("dropped value", "sink", s.id, "reason", reason)
}

func (s *Sink[T]) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	atomic.StoreInt32(&s.failed, 1)
	s.options.logger.Warn("sink terminated", "sink", s.id, "error", err)
}

// ID returns the sink identifier used in logs.
func (s *Sink[T]) ID() string {
	return s.id
}

// Send queues one value for encoding and transmission.
// Returns ErrSinkClosed after Close, the terminating error after a
// failure, or the context error if ctx ends while the queue is full.
func (s *Sink[T]) Send(ctx context.Context, v T) (err error) {
	defer func() {
		// Recover from send on closed channel - can happen when Send
		// races with Close.
		if r := recover(); r != nil {
			err = ErrSinkClosed
		}
	}()
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrSinkClosed
	}
	if atomic.LoadInt32(&s.failed) == 1 {
		return s.Err()
	}
	select {
	case s.in <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error that terminated the sink, if any.
func (s *Sink[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops accepting values and waits for queued values to be
// written, or until ctx is done. Close is idempotent.
func (s *Sink[T]) Close(ctx context.Context) error {
	if atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		close(s.in)
	}
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
