package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rbaliyan/framed/frame"
	"github.com/redis/go-redis/v9"
)

// mockRedisClient implements Client for testing
type mockRedisClient struct {
	mu       sync.Mutex
	lists    map[string][]string
	pushErr  error
	popErr   error
}

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{lists: make(map[string][]string)}
}

func (m *mockRedisClient) RPush(ctx context.Context, key string, values ...any) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if m.pushErr != nil {
		cmd.SetErr(m.pushErr)
		return cmd
	}
	for _, v := range values {
		switch b := v.(type) {
		case []byte:
			m.lists[key] = append(m.lists[key], string(b))
		case string:
			m.lists[key] = append(m.lists[key], b)
		}
	}
	cmd.SetVal(int64(len(m.lists[key])))
	return cmd
}

func (m *mockRedisClient) BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStringSliceCmd(ctx)
	if m.popErr != nil {
		cmd.SetErr(m.popErr)
		return cmd
	}
	for _, key := range keys {
		if len(m.lists[key]) > 0 {
			head := m.lists[key][0]
			m.lists[key] = m.lists[key][1:]
			cmd.SetVal([]string{key, head})
			return cmd
		}
	}
	// Empty list: report a timeout like a real BLPOP.
	cmd.SetErr(redis.Nil)
	return cmd
}

func TestWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends one element per frame", func(t *testing.T) {
		client := newMockRedisClient()
		w, err := NewWriter(client, "frames:test")
		if err != nil {
			t.Fatalf("NewWriter failed: %v", err)
		}

		if err := w.Write(ctx, []byte("one")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := w.Write(ctx, []byte("two")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		client.mu.Lock()
		defer client.mu.Unlock()
		if got := len(client.lists["frames:test"]); got != 2 {
			t.Errorf("expected 2 elements, got %d", got)
		}
	})

	t.Run("Push error surfaces", func(t *testing.T) {
		client := newMockRedisClient()
		client.pushErr = errors.New("read only replica")
		w, _ := NewWriter(client, "frames:test")
		if err := w.Write(ctx, []byte("x")); err == nil {
			t.Error("expected push error")
		}
	})

	t.Run("Write after close", func(t *testing.T) {
		w, _ := NewWriter(newMockRedisClient(), "frames:test")
		w.Close()
		if err := w.Write(ctx, []byte("x")); !errors.Is(err, frame.ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})

	t.Run("Nil client rejected", func(t *testing.T) {
		if _, err := NewWriter(nil, "frames:test"); !errors.Is(err, ErrClientRequired) {
			t.Errorf("expected ErrClientRequired, got %v", err)
		}
	})
}

func TestReader(t *testing.T) {
	ctx := context.Background()

	t.Run("Pops frames in order", func(t *testing.T) {
		client := newMockRedisClient()
		w, _ := NewWriter(client, "frames:test")
		r, err := NewReader(client, "frames:test")
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		for _, f := range []string{"a", "b"} {
			if err := w.Write(ctx, []byte(f)); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
		}
		for _, want := range []string{"a", "b"} {
			payload, err := r.Read(ctx)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if string(payload) != want {
				t.Errorf("expected %s, got %s", want, payload)
			}
		}
	})

	t.Run("Empty list polls until context ends", func(t *testing.T) {
		client := newMockRedisClient()
		r, err := NewReader(client, "frames:test", WithPollInterval(5*time.Millisecond))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		cctx, cancel := context.WithTimeout(ctx, 25*time.Millisecond)
		defer cancel()
		if _, err := r.Read(cctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})

	t.Run("Pop error surfaces", func(t *testing.T) {
		client := newMockRedisClient()
		client.popErr = errors.New("connection refused")
		r, _ := NewReader(client, "frames:test")
		if _, err := r.Read(ctx); err == nil {
			t.Error("expected pop error")
		}
	})

	t.Run("Read after close", func(t *testing.T) {
		r, _ := NewReader(newMockRedisClient(), "frames:test")
		r.Close()
		if _, err := r.Read(ctx); !errors.Is(err, frame.ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})
}
