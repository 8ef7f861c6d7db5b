// Package protocol implements the OLE Sender/Receiver state machines:
// commitment, OT invocation, masked evaluation and the two-point
// polynomial identity check described by the protocol's design.
package protocol

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
	"github.com/vybium/vybium-ole/internal/vybium-ole/transport"
)

// State is a session's position in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateInCall
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateInCall:
		return "InCall"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// session holds the state shared by both roles: a channel, an entropy
// source, the commitment hash, and the current lifecycle state. It
// carries no protocol secrets between calls — each input call is
// independent.
type session struct {
	channel transport.Channel
	rng     io.Reader
	hash    func([]byte) [32]byte
	state   State
}

func newSession(channel transport.Channel, rng io.Reader, hash func([]byte) [32]byte) *session {
	if rng == nil {
		rng = cryptorand.Reader
	}
	if hash == nil {
		hash = sha256.Sum256
	}
	return &session{channel: channel, rng: rng, hash: hash, state: StateReady}
}

// beginCall transitions Ready -> InCall, or fails if the session is not
// Ready (already InCall, or previously Aborted).
func (s *session) beginCall() error {
	if s.state != StateReady {
		return newError(ErrPreconditionError, "session is not Ready: "+s.state.String(), nil)
	}
	s.state = StateInCall
	return nil
}

// endCall transitions InCall -> Ready on success, or -> Aborted on
// failure, returning err unchanged either way.
func (s *session) endCall(err error) error {
	if err != nil {
		s.state = StateAborted
		return err
	}
	s.state = StateReady
	return nil
}

// State reports the session's current lifecycle state.
func (s *session) State() State {
	return s.state
}

// hashSecret commits to a secret by hashing its 16-byte wire form.
func (s *session) hashSecret(secret *core.FieldElement) [32]byte {
	wire := secret.ToWire()
	return s.hash(wire[:])
}

func writeElements(ctx context.Context, ch transport.Channel, elems []*core.FieldElement) error {
	buf := make([]byte, 0, len(elems)*transport.BlockSize)
	for _, e := range elems {
		w := e.ToWire()
		buf = append(buf, w[:]...)
	}
	return ch.WriteBytes(ctx, buf)
}

func readElements(ctx context.Context, ch transport.Channel, field *core.Field, n int) ([]*core.FieldElement, error) {
	blocks, err := ch.ReadBlocks(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]*core.FieldElement, n)
	for i, b := range blocks {
		out[i] = field.FromWire(b)
	}
	return out, nil
}

func writeElement(ctx context.Context, ch transport.Channel, e *core.FieldElement) error {
	return ch.WriteBlock(ctx, e.ToWire())
}

func readElement(ctx context.Context, ch transport.Channel, field *core.Field) (*core.FieldElement, error) {
	b, err := ch.ReadBlock(ctx)
	if err != nil {
		return nil, err
	}
	return field.FromWire(b), nil
}
