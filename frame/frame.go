// Package frame defines the contract between value codecs and the
// transports that move discrete binary frames.
//
// A frame is one complete payload whose boundaries have already been
// established externally, either by an in-process pipe or by a broker
// whose messages are inherently discrete (NATS, Redis, Kafka). This
// package performs no framing of its own: Read always yields a complete
// payload and Write always accepts one.
//
// Implementations:
//   - frame.Pipe: channel-based in-process transport (this package)
//   - frame/nats: NATS subjects, one message per frame
//   - frame/redis: Redis lists, one element per frame
//   - frame/kafka: Kafka topics, one record per frame
package frame

import (
	"context"
	"errors"
	"log/slog"
)

// Transport errors
var (
	// ErrClosed is returned when reading from or writing to a closed
	// transport.
	ErrClosed = errors.New("frame transport closed")
)

// Reader yields complete frame payloads one at a time.
// Read blocks until a frame is available, the context is done, or the
// transport is closed and drained, in which case it returns io.EOF.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
}

// Writer accepts complete frame payloads one at a time.
// The payload must contain exactly one serialized value; the writer
// takes ownership of the buffer.
type Writer interface {
	Write(ctx context.Context, payload []byte) error
}

// ReadWriter combines both directions of a frame transport.
type ReadWriter interface {
	Reader
	Writer
}

// Logger returns a logger scoped to a transport component.
func Logger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
