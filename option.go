package framed

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultBufferSize is the value channel buffer size used by Stream and
// Sink when none is set.
var DefaultBufferSize uint = 100

// options holds configuration shared by Reader, Writer, Stream and Sink.
type options struct {
	logger          *slog.Logger
	bufferSize      uint
	onError         func(error)
	continueOnError bool
	limiter         *rate.Limiter
}

// Option configures a Reader, Writer, Stream or Sink.
type Option func(*options)

func newOptions(component string, opts ...Option) *options {
	o := &options{
		logger:     slog.Default().With("component", component),
		bufferSize: DefaultBufferSize,
		onError:    func(error) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBufferSize sets the value channel buffer size for Stream and Sink.
func WithBufferSize(size uint) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// WithErrorHandler sets a callback invoked with every conversion error.
// The error passed to the callback is the codec error, unchanged.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onError = fn
		}
	}
}

// ContinueOnError makes a Stream or Sink skip values that fail
// conversion instead of terminating. The failure is still reported to
// the error handler. By default the first conversion failure terminates
// the stream or sink, since a malformed value will not become valid by
// retrying.
func ContinueOnError() Option {
	return func(o *options) {
		o.continueOnError = true
	}
}

// WithRateLimit throttles writes to at most limit frames per second
// with the given burst. Applies to Writer and Sink.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.limiter = rate.NewLimiter(limit, burst)
	}
}

// ID generation
var counter uint64

// NewID generates a unique identifier for logging correlation.
func NewID() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return strconv.FormatUint(atomic.AddUint64(&counter, 1), 10)
}
