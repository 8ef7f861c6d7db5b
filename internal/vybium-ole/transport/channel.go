// Package transport implements the bidirectional byte channel the OLE
// protocol layer reads and writes field elements and OT blocks
// through.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// BlockSize is the fixed wire width of one field element / OT block.
const BlockSize = 16

// Channel is the bidirectional byte stream contract the OLE protocol
// consumes. All operations are blocking; callers that need cancellation
// pass a context whose cancellation unblocks a pending read or write
// with a context error.
type Channel interface {
	WriteBytes(ctx context.Context, p []byte) error
	ReadBytes(ctx context.Context, p []byte) error
	WriteBlock(ctx context.Context, b [BlockSize]byte) error
	ReadBlock(ctx context.Context) ([BlockSize]byte, error)
	ReadBlocks(ctx context.Context, n int) ([][BlockSize]byte, error)
	Flush(ctx context.Context) error
}

// ByteChannel is a Channel built over an io.Reader/io.Writer pair (a
// net.Conn, an io.Pipe endpoint, or any other blocking byte stream).
type ByteChannel struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewChannel wraps r and w into a buffered bidirectional Channel.
func NewChannel(r io.Reader, w io.Writer) *ByteChannel {
	return &ByteChannel{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

// runBlocking executes fn on a background goroutine and returns its
// error, unless ctx is cancelled first, in which case ctx.Err() is
// returned immediately (the goroutine is left to finish against the
// underlying stream, which the caller is expected to close on abort).
func runBlocking(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteBytes writes p in full.
func (c *ByteChannel) WriteBytes(ctx context.Context, p []byte) error {
	return runBlocking(ctx, func() error {
		_, err := c.w.Write(p)
		if err != nil {
			return fmt.Errorf("transport: write: %w", err)
		}
		return nil
	})
}

// ReadBytes reads exactly len(p) bytes into p.
func (c *ByteChannel) ReadBytes(ctx context.Context, p []byte) error {
	return runBlocking(ctx, func() error {
		_, err := io.ReadFull(c.r, p)
		if err != nil {
			return fmt.Errorf("transport: read: %w", err)
		}
		return nil
	})
}

// WriteBlock writes one 16-byte block.
func (c *ByteChannel) WriteBlock(ctx context.Context, b [BlockSize]byte) error {
	return c.WriteBytes(ctx, b[:])
}

// ReadBlock reads one 16-byte block.
func (c *ByteChannel) ReadBlock(ctx context.Context) ([BlockSize]byte, error) {
	var b [BlockSize]byte
	if err := c.ReadBytes(ctx, b[:]); err != nil {
		return b, err
	}
	return b, nil
}

// ReadBlocks reads n consecutive 16-byte blocks.
func (c *ByteChannel) ReadBlocks(ctx context.Context, n int) ([][BlockSize]byte, error) {
	out := make([][BlockSize]byte, n)
	buf := make([]byte, n*BlockSize)
	if err := c.ReadBytes(ctx, buf); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		copy(out[i][:], buf[i*BlockSize:(i+1)*BlockSize])
	}
	return out, nil
}

// Flush pushes any buffered writes to the underlying writer.
func (c *ByteChannel) Flush(ctx context.Context) error {
	return runBlocking(ctx, func() error {
		if err := c.w.Flush(); err != nil {
			return fmt.Errorf("transport: flush: %w", err)
		}
		return nil
	})
}
