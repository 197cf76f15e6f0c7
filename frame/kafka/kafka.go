// Package kafka adapts Kafka topics to the frame transport contract.
//
// Each record is one complete frame: frames are produced with a
// synchronous producer and consumed from a single partition. Record
// boundaries come from the Kafka protocol itself; no framing work
// happens here.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/IBM/sarama"
	"github.com/rbaliyan/framed/frame"
)

// Adapter errors
var (
	ErrProducerRequired = errors.New("kafka producer is required")
	ErrConsumerRequired = errors.New("kafka consumer is required")
)

// Option configures a Reader or Writer.
type Option func(*options)

type options struct {
	partition int32
	offset    int64
	logger    *slog.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		partition: 0,
		offset:    sarama.OffsetNewest,
		logger:    frame.Logger("frame.kafka"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithPartition sets the partition to produce to or consume from.
// Default is partition 0.
func WithPartition(p int32) Option {
	return func(o *options) {
		o.partition = p
	}
}

// WithOffset sets the initial consumer offset.
// Default is sarama.OffsetNewest; use sarama.OffsetOldest to replay.
func WithOffset(offset int64) Option {
	return func(o *options) {
		o.offset = offset
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

// Writer produces each frame as one Kafka record.
type Writer struct {
	producer  sarama.SyncProducer
	topic     string
	partition int32
	closed    int32
	logger    *slog.Logger
}

// NewWriter creates a frame writer producing to the given topic.
// The producer is owned by the caller.
func NewWriter(producer sarama.SyncProducer, topic string, opts ...Option) (*Writer, error) {
	if producer == nil {
		return nil, ErrProducerRequired
	}
	o := newOptions(opts...)
	return &Writer{
		producer:  producer,
		topic:     topic,
		partition: o.partition,
		logger:    o.logger,
	}, nil
}

// Write produces one frame payload.
func (w *Writer) Write(ctx context.Context, payload []byte) error {
	if atomic.LoadInt32(&w.closed) == 1 {
		return frame.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	partition, offset, err := w.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     w.topic,
		Partition: w.partition,
		Value:     sarama.ByteEncoder(payload),
	})
	if err != nil {
		return err
	}
	w.logger.Debug("produced frame",
		"topic", w.topic, "partition", partition, "offset", offset, "bytes", len(payload))
	return nil
}

// Close marks the writer closed. The producer is not closed here.
func (w *Writer) Close() error {
	atomic.StoreInt32(&w.closed, 1)
	return nil
}

// Reader consumes each record on one partition as one frame.
type Reader struct {
	pc       sarama.PartitionConsumer
	closed   int32
	closedCh chan struct{}
	logger   *slog.Logger
}

// NewReader creates a frame reader consuming the given topic.
// The consumer is owned by the caller; the partition consumer created
// here is released by Close.
func NewReader(consumer sarama.Consumer, topic string, opts ...Option) (*Reader, error) {
	if consumer == nil {
		return nil, ErrConsumerRequired
	}
	o := newOptions(opts...)

	pc, err := consumer.ConsumePartition(topic, o.partition, o.offset)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("consuming", "topic", topic, "partition", o.partition, "offset", o.offset)
	return &Reader{
		pc:       pc,
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
	case msg, ok := <-r.pc.Messages():
		if !ok {
			return nil, frame.ErrClosed
		}
		return msg.Value, nil
	case err, ok := <-r.pc.Errors():
		if !ok {
			return nil, frame.ErrClosed
		}
		return nil, err.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.closedCh:
		return nil, frame.ErrClosed
	}
}

// Close releases the partition consumer. Close is idempotent.
func (r *Reader) Close() error {
	if atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		close(r.closedCh)
		return r.pc.Close()
	}
	return nil
}

// Compile-time checks
var (
	_ frame.Writer = (*Writer)(nil)
	_ frame.Reader = (*Reader)(nil)
)
