// Package redis adapts Redis lists to the frame transport contract.
//
// Each list element is one complete frame: frames are appended with
// RPUSH and consumed with BLPOP, giving queue semantics where every
// frame is delivered to exactly one reader. Boundaries come from the
// list structure itself; no framing work happens here.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rbaliyan/framed/frame"
	"github.com/redis/go-redis/v9"
)

// Adapter errors
var (
	ErrClientRequired = errors.New("redis client is required")
)

// DefaultPollInterval is the BLPOP timeout used between context checks.
var DefaultPollInterval = time.Second

// Client is the subset of redis.UniversalClient used by this package.
// Narrowed for testability.
type Client interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Compile-time check
var _ Client = (*redis.Client)(nil)

// Option configures a Reader or Writer.
type Option func(*options)

type options struct {
	pollInterval time.Duration
	logger       *slog.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		pollInterval: DefaultPollInterval,
		logger:       frame.Logger("frame.redis"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithPollInterval sets how long each blocking pop waits before the
// reader re-checks its context. Shorter intervals cancel faster at the
// cost of more round trips.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
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

// Writer appends each frame as one list element.
type Writer struct {
	client Client
	key    string
	closed int32
	logger *slog.Logger
}

// NewWriter creates a frame writer appending to the given list key.
func NewWriter(client Client, key string, opts ...Option) (*Writer, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	o := newOptions(opts...)
	return &Writer{
		client: client,
		key:    key,
		logger: o.logger,
	}, nil
}

// Write appends one frame payload.
func (w *Writer) Write(ctx context.Context, payload []byte) error {
	if atomic.LoadInt32(&w.closed) == 1 {
		return frame.ErrClosed
	}
	if err := w.client.RPush(ctx, w.key, payload).Err(); err != nil {
		return err
	}
	w.logger.Debug("pushed frame", "key", w.key, "bytes", len(payload))
	return nil
}

// Close marks the writer closed. The client is owned by the caller and
// is not closed here.
func (w *Writer) Close() error {
	atomic.StoreInt32(&w.closed, 1)
	return nil
}

// Reader pops each list element as one frame.
type Reader struct {
	client       Client
	key          string
	pollInterval time.Duration
	closed       int32
	closedCh     chan struct{}
	logger       *slog.Logger
}

// NewReader creates a frame reader popping from the given list key.
func NewReader(client Client, key string, opts ...Option) (*Reader, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	o := newOptions(opts...)
	return &Reader{
		client:       client,
		key:          key,
		pollInterval: o.pollInterval,
		closedCh:     make(chan struct{}),
		logger:       o.logger,
	}, nil
}

// Read blocks until a frame is available, the context is done or the
// reader is closed.
func (r *Reader) Read(ctx context.Context) ([]byte, error) {
	for {
		if atomic.LoadInt32(&r.closed) == 1 {
			return nil, frame.ErrClosed
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-r.closedCh:
			return nil, frame.ErrClosed
		default:
		}

		res, err := r.client.BLPop(ctx, r.pollInterval, r.key).Result()
		if errors.Is(err, redis.Nil) {
			continue // timed out, re-check context
		}
		if err != nil {
			return nil, err
		}
		// BLPOP returns [key, value].
		if len(res) != 2 {
			continue
		}
		return []byte(res[1]), nil
	}
}

// Close releases the reader. Close is idempotent.
func (r *Reader) Close() error {
	if atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		close(r.closedCh)
	}
	return nil
}

// Compile-time checks
var (
	_ frame.Writer = (*Writer)(nil)
	_ frame.Reader = (*Reader)(nil)
)
