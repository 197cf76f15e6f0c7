package framed

import (
	"errors"
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Proto format errors
var (
	ErrNotProtoMessage = errors.New("value must implement proto.Message")
)

// Proto implements Format using Protocol Buffers serialization.
// Values must implement proto.Message. Use pointer message types
// (e.g. framed.New[*pb.Order](framed.Proto{})).
type Proto struct{}

// Marshal encodes v to Protocol Buffer bytes.
func (Proto) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, ErrNotProtoMessage
	}
	return proto.Marshal(msg)
}

// Unmarshal decodes Protocol Buffer bytes into v.
// v is a pointer to the target; when the target is itself a nil message
// pointer, a fresh message is allocated first.
func (Proto) Unmarshal(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, msg)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotProtoMessage
	}
	elem := rv.Elem()
	if elem.Kind() == reflect.Pointer && elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	msg, ok := elem.Interface().(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}
	return proto.Unmarshal(data, msg)
}

// ContentType returns the MIME type for Protocol Buffers.
func (Proto) ContentType() string {
	return "application/protobuf"
}

// Name returns the format identifier.
func (Proto) Name() string {
	return "proto"
}

// Compile-time check
var _ Format = Proto{}

func init() {
	Register(Proto{})
}
