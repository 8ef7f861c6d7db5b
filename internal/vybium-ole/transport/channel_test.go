package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestChannelRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ch := NewChannel(&buf, &buf)
	ctx := context.Background()

	t.Run("bytes", func(t *testing.T) {
		payload := []byte("oblivious")
		if err := ch.WriteBytes(ctx, payload); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := ch.Flush(ctx); err != nil {
			t.Fatalf("flush: %v", err)
		}
		got := make([]byte, len(payload))
		if err := ch.ReadBytes(ctx, got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("got %q, expected %q", got, payload)
		}
	})

	t.Run("blocks", func(t *testing.T) {
		var block [BlockSize]byte
		for i := range block {
			block[i] = byte(i)
		}
		if err := ch.WriteBlock(ctx, block); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := ch.Flush(ctx); err != nil {
			t.Fatalf("flush: %v", err)
		}
		got, err := ch.ReadBlock(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != block {
			t.Errorf("got %x, expected %x", got, block)
		}
	})

	t.Run("multiple blocks", func(t *testing.T) {
		const n = 5
		for i := 0; i < n; i++ {
			var block [BlockSize]byte
			block[0] = byte(i)
			if err := ch.WriteBlock(ctx, block); err != nil {
				t.Fatalf("write %d: %v", i, err)
			}
		}
		if err := ch.Flush(ctx); err != nil {
			t.Fatalf("flush: %v", err)
		}
		blocks, err := ch.ReadBlocks(ctx, n)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		for i, b := range blocks {
			if b[0] != byte(i) {
				t.Errorf("block %d: got %d", i, b[0])
			}
		}
	})
}

func TestChannelReadShortStream(t *testing.T) {
	ch := NewChannel(bytes.NewReader([]byte{1, 2, 3}), io.Discard)
	got := make([]byte, 8)
	if err := ch.ReadBytes(context.Background(), got); err == nil {
		t.Error("expected error reading past end of stream")
	}
}

func TestChannelContextCancellation(t *testing.T) {
	// A read blocked on an idle pipe must return promptly once the
	// context is cancelled.
	r, w := io.Pipe()
	defer r.Close()
	defer w.Close()
	ch := NewChannel(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		errCh <- ch.ReadBytes(ctx, buf)
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled read did not return")
	}
}

func TestCommitmentHash(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"sha256", false},
		{"sha3", false},
		{"poseidon", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run("name "+tt.name, func(t *testing.T) {
			h, err := CommitmentHash(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			d1 := h([]byte("payload"))
			d2 := h([]byte("payload"))
			if d1 != d2 {
				t.Error("hash is not deterministic")
			}
			if d1 == h([]byte("other")) {
				t.Error("distinct inputs collided")
			}
		})
	}

	t.Run("sha256 and sha3 differ", func(t *testing.T) {
		h256, err := CommitmentHash("sha256")
		if err != nil {
			t.Fatal(err)
		}
		h3, err := CommitmentHash("sha3")
		if err != nil {
			t.Fatal(err)
		}
		if h256([]byte("x")) == h3([]byte("x")) {
			t.Error("sha256 and sha3 produced identical digests")
		}
	})
}
