package protocol

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
	"github.com/vybium/vybium-ole/internal/vybium-ole/transport"
)

// pipePair wires the two parties back to back over in-memory pipes.
// The returned closer releases any party still blocked on the wire
// after its counterpart aborted.
func pipePair() (senderCh, receiverCh transport.Channel, closeAll func()) {
	sr, rw := io.Pipe()
	rr, sw := io.Pipe()
	senderCh = transport.NewChannel(sr, sw)
	receiverCh = transport.NewChannel(rr, rw)
	closeAll = func() {
		sr.Close()
		rw.Close()
		rr.Close()
		sw.Close()
	}
	return senderCh, receiverCh, closeAll
}

func randomVector(t *testing.T, n int) []*core.FieldElement {
	t.Helper()
	out := make([]*core.FieldElement, n)
	for i := range out {
		e, err := core.Q.RandomElement(rand.Reader)
		if err != nil {
			t.Fatalf("sampling: %v", err)
		}
		out[i] = e
	}
	return out
}

func constantVector(value int64, n int) []*core.FieldElement {
	out := make([]*core.FieldElement, n)
	for i := range out {
		out[i] = core.Q.NewElementFromInt64(value)
	}
	return out
}

// runProtocol drives one honest invocation end to end and returns the
// Receiver's output.
func runProtocol(t *testing.T, sender *Sender, receiver *Receiver, a, b, x []*core.FieldElement, closeAll func()) ([]*core.FieldElement, error, error) {
	t.Helper()
	ctx := context.Background()
	senderErr := make(chan error, 1)
	go func() {
		senderErr <- sender.Input(ctx, a, b)
	}()
	y, rErr := receiver.Input(ctx, x)
	if rErr != nil {
		// Release a counterpart still blocked on the dead exchange.
		closeAll()
	}
	sErr := <-senderErr
	return y, sErr, rErr
}

func checkOLEOutput(t *testing.T, a, b, x, y []*core.FieldElement) {
	t.Helper()
	if len(y) != len(x) {
		t.Fatalf("output length %d, expected %d", len(y), len(x))
	}
	for i := range y {
		expected := a[i].Mul(x[i]).Add(b[i])
		if !y[i].Equal(expected) {
			t.Errorf("y[%d] = %s, expected a*x+b = %s", i, y[i], expected)
		}
	}
}

func TestHonestRuns(t *testing.T) {
	tests := []struct {
		name    string
		vectors func(t *testing.T) (a, b, x []*core.FieldElement)
	}{
		{"smoke t=1", func(t *testing.T) (a, b, x []*core.FieldElement) {
			return constantVector(1, 1), constantVector(0, 1), constantVector(7, 1)
		}},
		{"zero a passes through b", func(t *testing.T) (a, b, x []*core.FieldElement) {
			return constantVector(0, 128), constantVector(5, 128), randomVector(t, 128)
		}},
		{"identity a returns x", func(t *testing.T) (a, b, x []*core.FieldElement) {
			return constantVector(1, 128), constantVector(0, 128), randomVector(t, 128)
		}},
		{"uniform random triple", func(t *testing.T) (a, b, x []*core.FieldElement) {
			return randomVector(t, 128), randomVector(t, 128), randomVector(t, 128)
		}},
		{"short vectors t=3", func(t *testing.T) (a, b, x []*core.FieldElement) {
			return randomVector(t, 3), randomVector(t, 3), randomVector(t, 3)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, x := tt.vectors(t)
			senderCh, receiverCh, closeAll := pipePair()
			defer closeAll()
			sender := NewSender(senderCh, rand.Reader, nil)
			receiver := NewReceiver(receiverCh, rand.Reader, nil)

			y, sErr, rErr := runProtocol(t, sender, receiver, a, b, x, closeAll)
			if sErr != nil {
				t.Fatalf("sender: %v", sErr)
			}
			if rErr != nil {
				t.Fatalf("receiver: %v", rErr)
			}
			checkOLEOutput(t, a, b, x, y)

			if sender.State() != StateReady {
				t.Errorf("sender state %s, expected Ready", sender.State())
			}
			if receiver.State() != StateReady {
				t.Errorf("receiver state %s, expected Ready", receiver.State())
			}
		})
	}
}

func TestRepeatedCallsOnOneSession(t *testing.T) {
	senderCh, receiverCh, closeAll := pipePair()
	defer closeAll()
	sender := NewSender(senderCh, rand.Reader, nil)
	receiver := NewReceiver(receiverCh, rand.Reader, nil)

	for call := 0; call < 2; call++ {
		a := randomVector(t, 16)
		b := randomVector(t, 16)
		x := randomVector(t, 16)
		y, sErr, rErr := runProtocol(t, sender, receiver, a, b, x, closeAll)
		if sErr != nil || rErr != nil {
			t.Fatalf("call %d failed: sender=%v receiver=%v", call, sErr, rErr)
		}
		checkOLEOutput(t, a, b, x, y)
	}
}

func TestLengthValidation(t *testing.T) {
	senderCh, receiverCh, closeAll := pipePair()
	defer closeAll()
	ctx := context.Background()

	t.Run("sender rejects unequal lengths", func(t *testing.T) {
		sender := NewSender(senderCh, rand.Reader, nil)
		err := sender.Input(ctx, randomVector(t, 3), randomVector(t, 4))
		if !errors.Is(err, &Error{Code: ErrLengthMismatch}) {
			t.Errorf("expected LengthMismatch, got %v", err)
		}
		// Detected before any I/O, so the session stays usable.
		if sender.State() != StateReady {
			t.Errorf("state %s, expected Ready", sender.State())
		}
	})

	t.Run("sender rejects oversized input", func(t *testing.T) {
		sender := NewSender(senderCh, rand.Reader, nil)
		n := core.A/2 + 1
		err := sender.Input(ctx, randomVector(t, n), randomVector(t, n))
		if !errors.Is(err, &Error{Code: ErrLengthMismatch}) {
			t.Errorf("expected LengthMismatch, got %v", err)
		}
	})

	t.Run("receiver rejects oversized input", func(t *testing.T) {
		receiver := NewReceiver(receiverCh, rand.Reader, nil)
		_, err := receiver.Input(ctx, randomVector(t, core.A/2+1))
		if !errors.Is(err, &Error{Code: ErrLengthMismatch}) {
			t.Errorf("expected LengthMismatch, got %v", err)
		}
	})
}

// corruptingReader XORs a pattern into every byte whose absolute
// stream offset falls inside [start, end), leaving the rest of the
// stream untouched. It stands in for a man in the middle.
type corruptingReader struct {
	inner      io.Reader
	offset     int
	start, end int
}

func (c *corruptingReader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	for i := 0; i < n; i++ {
		pos := c.offset + i
		if pos >= c.start && pos < c.end {
			p[i] ^= 0x5a
		}
	}
	c.offset += n
	return n, err
}

func TestCommitmentTamperAborts(t *testing.T) {
	// Corrupting the commitment bytes in transit must surface as a
	// CommitmentMismatch on the Receiver and abort its session.
	sr, rw := io.Pipe()
	rr, sw := io.Pipe()
	defer func() {
		sr.Close()
		rw.Close()
		rr.Close()
		sw.Close()
	}()
	senderCh := transport.NewChannel(sr, sw)
	receiverCh := transport.NewChannel(&corruptingReader{inner: rr, start: 0, end: 32}, rw)

	sender := NewSender(senderCh, rand.Reader, nil)
	receiver := NewReceiver(receiverCh, rand.Reader, nil)

	closeAll := func() { sr.Close(); rw.Close(); rr.Close(); sw.Close() }
	_, sErr, rErr := runProtocol(t, sender, receiver,
		randomVector(t, 4), randomVector(t, 4), randomVector(t, 4), closeAll)

	if !errors.Is(rErr, &Error{Code: ErrCommitmentMismatch}) {
		t.Fatalf("receiver error %v, expected CommitmentMismatch", rErr)
	}
	if receiver.State() != StateAborted {
		t.Errorf("receiver state %s, expected Aborted", receiver.State())
	}
	// The sender was cut off mid-protocol; it must observe a fatal
	// error of its own, not success.
	if sErr == nil {
		t.Error("sender unexpectedly succeeded against an aborted receiver")
	}
}

func TestTamperedWAborts(t *testing.T) {
	// An adversary replacing W wholesale after the OT phase must be
	// caught by the identity check at z_r.
	const (
		wStart = 32 + 16 + 2*core.B*16 // com + OT base key + OT ciphertexts
		wEnd   = wStart + core.B*16
	)

	sr, rw := io.Pipe()
	rr, sw := io.Pipe()
	defer func() {
		sr.Close()
		rw.Close()
		rr.Close()
		sw.Close()
	}()
	senderCh := transport.NewChannel(sr, sw)
	receiverCh := transport.NewChannel(&corruptingReader{inner: rr, start: wStart, end: wEnd}, rw)

	sender := NewSender(senderCh, rand.Reader, nil)
	receiver := NewReceiver(receiverCh, rand.Reader, nil)

	closeAll := func() { sr.Close(); rw.Close(); rr.Close(); sw.Close() }
	_, sErr, rErr := runProtocol(t, sender, receiver,
		randomVector(t, 4), randomVector(t, 4), randomVector(t, 4), closeAll)

	if !errors.Is(rErr, &Error{Code: ErrIdentityCheckFailed}) {
		t.Fatalf("receiver error %v, expected IdentityCheckFailed", rErr)
	}
	if receiver.State() != StateAborted {
		t.Errorf("receiver state %s, expected Aborted", receiver.State())
	}
	if sErr == nil {
		t.Error("sender unexpectedly succeeded against an aborted receiver")
	}
}

func TestAbortedSessionRejectsReuse(t *testing.T) {
	senderCh, _, closeAll := pipePair()
	defer closeAll()
	sender := NewSender(senderCh, rand.Reader, nil)
	sender.session.state = StateAborted

	err := sender.Input(context.Background(), randomVector(t, 2), randomVector(t, 2))
	if !errors.Is(err, &Error{Code: ErrPreconditionError}) {
		t.Errorf("expected PreconditionError on aborted session, got %v", err)
	}
	if sender.State() != StateAborted {
		t.Errorf("state %s, expected session to stay Aborted", sender.State())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateReady, "Ready"},
		{StateInCall, "InCall"},
		{StateAborted, "Aborted"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, expected %q", tt.state, got, tt.expected)
		}
	}
}
