// Package framed converts between strongly typed application values and
// the discrete binary frames moved by a transport layer, by inserting a
// pluggable serialization strategy between them.
//
// The package assumes frame boundaries are established externally: an
// in-process pipe, or a broker whose messages are inherently discrete.
// Each frame carries exactly one serialized value; framed defines no
// wire format and no framing strategy of its own.
//
// Architecture:
//   - Codec[T] pairs Encoder[T] (value -> frame payload) and Decoder[T]
//     (frame payload -> value). Codecs are stateless and generic: one
//     format implementation serves any value type.
//   - Format is the untyped serialization strategy (JSON, MessagePack,
//     Protocol Buffers, Raw). Formats register globally by content type.
//   - Reader[T]/Writer[T] compose a codec with a frame transport for
//     synchronous pull/push use.
//   - Stream[T]/Sink[T] run the same composition asynchronously behind
//     channels.
//
// Basic example:
//
//	type Person struct {
//	    Name   string   `json:"name"`
//	    Age    int      `json:"age"`
//	    Phones []string `json:"phones"`
//	}
//
//	pipe := frame.NewPipe()
//	codec := framed.New[Person](framed.JSON())
//
//	w := framed.NewWriter(pipe, codec)
//	if err := w.Write(ctx, Person{Name: "John Doe", Age: 43}); err != nil {
//	    log.Fatal(err)
//	}
//
//	r := framed.NewReader(pipe, codec)
//	p, err := r.Next(ctx)
//
// Error semantics:
//   - ErrEncodeFailure: the value cannot be represented in the format
//     (e.g. a non-finite float in JSON).
//   - ErrDecodeFailure: the bytes are malformed, do not match the shape
//     of the target type, or carry trailing data after one value.
//
// Both are terminal for the single conversion attempt and are never
// retried internally; match them with errors.Is. The composition layer
// propagates codec errors unchanged, leaving the skip-or-terminate
// decision to the caller (see ContinueOnError).
//
// Round trip: for any value v whose encode succeeds, decoding the
// resulting payload yields a value equal to v, modulo representation
// limits inherent to the chosen format (such as JSON number precision).
// Those limits are documented on each format.
package framed
