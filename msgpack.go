package framed

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack implements Format using MessagePack serialization.
// MessagePack is a binary format that is more compact than JSON while
// keeping schema-less flexibility.
//
// Known limitation: msgpack normalizes integer width on the wire, so a
// round trip through an untyped target (any) may yield a different Go
// integer type than was encoded.
type MsgPack struct{}

// Marshal encodes v to MessagePack bytes.
func (MsgPack) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes exactly one MessagePack value from data into v.
// Trailing bytes after the value are rejected with ErrTrailingData.
func (MsgPack) Unmarshal(data []byte, v any) error {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if r.Len() > 0 {
		return ErrTrailingData
	}
	return nil
}

// ContentType returns the MIME type for MessagePack.
func (MsgPack) ContentType() string {
	return "application/msgpack"
}

// Name returns the format identifier.
func (MsgPack) Name() string {
	return "msgpack"
}

// Compile-time check
var _ Format = MsgPack{}

func init() {
	Register(MsgPack{})
}
