package nats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rbaliyan/framed/frame"
)

// mockConn implements Conn for testing
type mockConn struct {
	mu         sync.Mutex
	published  map[string][][]byte
	subs       map[string][]chan *nats.Msg
	publishErr error
}

func newMockConn() *mockConn {
	return &mockConn{
		published: make(map[string][][]byte),
		subs:      make(map[string][]chan *nats.Msg),
	}
}

func (m *mockConn) Publish(subj string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published[subj] = append(m.published[subj], data)
	for _, ch := range m.subs[subj] {
		ch <- &nats.Msg{Subject: subj, Data: data}
	}
	return nil
}

func (m *mockConn) ChanSubscribe(subj string, ch chan *nats.Msg) (*nats.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[subj] = append(m.subs[subj], ch)
	return &nats.Subscription{}, nil
}

func (m *mockConn) ChanQueueSubscribe(subj, group string, ch chan *nats.Msg) (*nats.Subscription, error) {
	return m.ChanSubscribe(subj, ch)
}

func TestWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("Publishes one message per frame", func(t *testing.T) {
		conn := newMockConn()
		w, err := NewWriter(conn, "frames.test")
		if err != nil {
			t.Fatalf("NewWriter failed: %v", err)
		}

		if err := w.Write(ctx, []byte("one")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := w.Write(ctx, []byte("two")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		if got := len(conn.published["frames.test"]); got != 2 {
			t.Errorf("expected 2 messages, got %d", got)
		}
	})

	t.Run("Publish error surfaces", func(t *testing.T) {
		conn := newMockConn()
		conn.publishErr = errors.New("no route")
		w, _ := NewWriter(conn, "frames.test")
		if err := w.Write(ctx, []byte("x")); err == nil {
			t.Error("expected publish error")
		}
	})

	t.Run("Write after close", func(t *testing.T) {
		w, _ := NewWriter(newMockConn(), "frames.test")
		w.Close()
		if err := w.Write(ctx, []byte("x")); !errors.Is(err, frame.ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})

	t.Run("Nil connection rejected", func(t *testing.T) {
		if _, err := NewWriter(nil, "frames.test"); !errors.Is(err, ErrConnRequired) {
			t.Errorf("expected ErrConnRequired, got %v", err)
		}
	})
}

func TestReader(t *testing.T) {
	ctx := context.Background()

	t.Run("Receives frames", func(t *testing.T) {
		conn := newMockConn()
		r, err := NewReader(conn, "frames.test")
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		if err := conn.Publish("frames.test", []byte("hello")); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		payload, err := r.Read(ctx)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(payload) != "hello" {
			t.Errorf("expected hello, got %s", payload)
		}
	})

	t.Run("Read honors context", func(t *testing.T) {
		r, err := NewReader(newMockConn(), "frames.test")
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		if _, err := r.Read(cctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})

	t.Run("Queue option subscribes with group", func(t *testing.T) {
		conn := newMockConn()
		if _, err := NewReader(conn, "frames.test", WithQueue("workers")); err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		conn.mu.Lock()
		defer conn.mu.Unlock()
		if len(conn.subs["frames.test"]) != 1 {
			t.Error("expected one subscription")
		}
	})

	t.Run("Nil connection rejected", func(t *testing.T) {
		if _, err := NewReader(nil, "frames.test"); !errors.Is(err, ErrConnRequired) {
			t.Errorf("expected ErrConnRequired, got %v", err)
		}
	})
}
