package framed

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumented wraps a codec with OpenTelemetry counters.
type instrumented[T any] struct {
	inner    Codec[T]
	encoded  metric.Int64Counter
	decoded  metric.Int64Counter
	failures metric.Int64Counter
	attrs    []attribute.KeyValue
}

// Instrument wraps a codec so that every conversion is counted.
// Conversion results are otherwise untouched: values and errors pass
// through unchanged.
//
// Metrics (meter "framed.codec"):
//   - framed.codec.encoded: successful encodes
//   - framed.codec.decoded: successful decodes
//   - framed.codec.failures: failed conversions, by operation
//
// Example:
//
//	c := framed.Instrument(framed.New[Order](framed.JSON()))
func Instrument[T any](c Codec[T]) Codec[T] {
	meter := otel.Meter("framed.codec")
	encoded, _ := meter.Int64Counter("framed.codec.encoded",
		metric.WithDescription("Number of values successfully encoded"),
		metric.WithUnit("{value}"),
	)
	decoded, _ := meter.Int64Counter("framed.codec.decoded",
		metric.WithDescription("Number of values successfully decoded"),
		metric.WithUnit("{value}"),
	)
	failures, _ := meter.Int64Counter("framed.codec.failures",
		metric.WithDescription("Number of failed codec conversions"),
		metric.WithUnit("{conversion}"),
	)
	return instrumented[T]{
		inner:    c,
		encoded:  encoded,
		decoded:  decoded,
		failures: failures,
		attrs: []attribute.KeyValue{
			attribute.String("codec", c.Name()),
			attribute.String("content_type", c.ContentType()),
		},
	}
}

// Encode counts and delegates.
func (c instrumented[T]) Encode(v T) ([]byte, error) {
	ctx := context.Background()
	data, err := c.inner.Encode(v)
	if err != nil {
		c.failures.Add(ctx, 1, metric.WithAttributes(
			append(c.attrs, attribute.String("operation", "encode"))...))
		return nil, err
	}
	c.encoded.Add(ctx, 1, metric.WithAttributes(c.attrs...))
	return data, nil
}

// Decode counts and delegates.
func (c instrumented[T]) Decode(data []byte) (T, error) {
	ctx := context.Background()
	v, err := c.inner.Decode(data)
	if err != nil {
		c.failures.Add(ctx, 1, metric.WithAttributes(
			append(c.attrs, attribute.String("operation", "decode"))...))
		return v, err
	}
	c.decoded.Add(ctx, 1, metric.WithAttributes(c.attrs...))
	return v, nil
}

// ContentType returns the wrapped codec's content type.
func (c instrumented[T]) ContentType() string {
	return c.inner.ContentType()
}

// Name returns the wrapped codec's name.
func (c instrumented[T]) Name() string {
	return c.inner.Name()
}
