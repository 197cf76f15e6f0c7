package framed

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMsgPackCodec(t *testing.T) {
	codec := New[person](MsgPack{})

	t.Run("Name and ContentType", func(t *testing.T) {
		if codec.Name() != "msgpack" {
			t.Errorf("expected msgpack, got %s", codec.Name())
		}
		if codec.ContentType() != "application/msgpack" {
			t.Errorf("expected application/msgpack, got %s", codec.ContentType())
		}
	})

	t.Run("Round trip", func(t *testing.T) {
		in := person{
			Name:   "John Doe",
			Age:    43,
			Phones: []string{"+44 1234567", "+44 2345678"},
		}

		data, err := codec.Encode(in)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		out, err := codec.Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("diff : %v", diff)
		}
	})

	t.Run("Decode malformed input", func(t *testing.T) {
		// 0xc1 is never a valid msgpack type byte.
		_, err := codec.Decode([]byte{0xc1})
		if !errors.Is(err, ErrDecodeFailure) {
			t.Errorf("expected ErrDecodeFailure, got %v", err)
		}
	})

	t.Run("Decode trailing data", func(t *testing.T) {
		data, err := codec.Encode(person{Name: "x"})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		_, err = codec.Decode(append(data, 0x00))
		if !errors.Is(err, ErrTrailingData) {
			t.Errorf("expected ErrTrailingData, got %v", err)
		}
	})

	t.Run("Decode structural mismatch", func(t *testing.T) {
		// Encode a bare string, decode into a struct target.
		data, err := New[string](MsgPack{}).Encode("just a string")
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if _, err := codec.Decode(data); !errors.Is(err, ErrDecodeFailure) {
			t.Errorf("expected ErrDecodeFailure, got %v", err)
		}
	})

	t.Run("Validator applies", func(t *testing.T) {
		c := New[order](MsgPack{})
		data, err := c.Encode(order{Total: 5})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if _, err := c.Decode(data); !errors.Is(err, ErrDecodeFailure) {
			t.Errorf("expected ErrDecodeFailure, got %v", err)
		}
	})
}
