package vybiumole

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
	"github.com/vybium/vybium-ole/internal/vybium-ole/protocol"
	"github.com/vybium/vybium-ole/internal/vybium-ole/transport"
)

// FieldElement is an element of the protocol's prime field, always in
// canonical residue form.
type FieldElement = core.FieldElement

// Channel is the bidirectional byte stream both roles communicate
// over.
type Channel = transport.Channel

// State is a session's position in its lifecycle.
type State = protocol.State

const (
	StateUninitialized = protocol.StateUninitialized
	StateReady         = protocol.StateReady
	StateInCall        = protocol.StateInCall
	StateAborted       = protocol.StateAborted
)

// NewChannel wraps a reader/writer pair (a net.Conn, an io.Pipe pair)
// into a buffered protocol channel.
func NewChannel(r io.Reader, w io.Writer) Channel {
	return transport.NewChannel(r, w)
}

// NewFieldElement reduces value into the protocol field.
func NewFieldElement(value *big.Int) *FieldElement {
	return core.Q.NewElement(value)
}

// NewFieldElementFromUint64 builds a field element from a small
// constant.
func NewFieldElementFromUint64(value uint64) *FieldElement {
	return core.Q.NewElementFromUint64(value)
}

// RandomFieldElement samples a uniform field element from rng; a nil
// rng falls back to crypto/rand.
func RandomFieldElement(rng io.Reader) (*FieldElement, error) {
	if rng == nil {
		rng = rand.Reader
	}
	return core.Q.RandomElement(rng)
}

// MaxVectorLength is the largest supported input vector length per
// Input call.
func MaxVectorLength() int {
	return core.A / 2
}

// Sender is the OLE Sender role: it holds the coefficient vectors a
// and b of the linear function the Receiver evaluates.
type Sender struct {
	inner *protocol.Sender
}

// NewSender validates config and initializes the Sender side of a
// session over channel. A nil rng falls back to crypto/rand.
func NewSender(config *Config, channel Channel, rng io.Reader) (*Sender, error) {
	hash, err := sessionHash(config)
	if err != nil {
		return nil, err
	}
	return &Sender{inner: protocol.NewSender(channel, rng, hash)}, nil
}

// Input runs one OLE invocation for a and b (|a| = |b| <= A/2). The
// counterpart must be running Receiver.Input on the same channel.
func (s *Sender) Input(ctx context.Context, a, b []*FieldElement) error {
	return s.inner.Input(ctx, a, b)
}

// State reports the session's current lifecycle state.
func (s *Sender) State() State {
	return s.inner.State()
}

// Receiver is the OLE Receiver role: it holds x and learns
// y = a*x + b componentwise.
type Receiver struct {
	inner *protocol.Receiver
}

// NewReceiver validates config and initializes the Receiver side of a
// session over channel. A nil rng falls back to crypto/rand.
func NewReceiver(config *Config, channel Channel, rng io.Reader) (*Receiver, error) {
	hash, err := sessionHash(config)
	if err != nil {
		return nil, err
	}
	return &Receiver{inner: protocol.NewReceiver(channel, rng, hash)}, nil
}

// Input runs one OLE invocation for x (|x| <= A/2), returning y. The
// counterpart must be running Sender.Input on the same channel.
func (r *Receiver) Input(ctx context.Context, x []*FieldElement) ([]*FieldElement, error) {
	return r.inner.Input(ctx, x)
}

// State reports the session's current lifecycle state.
func (r *Receiver) State() State {
	return r.inner.State()
}

// sessionHash validates config against the compiled-in field and
// resolves its commitment hash. Only the fixed q/A/B parameter set is
// supported; Validate catches malformed combinations, the comparison
// below catches well-formed but foreign ones.
func sessionHash(config *Config) (func([]byte) [32]byte, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewError(ErrPreconditionError, "invalid config", err)
	}
	if config.FieldModulus.Cmp(core.Q.Modulus()) != 0 ||
		config.SubgroupOrderA != core.A || config.SubgroupOrderB != core.B {
		return nil, NewError(ErrPreconditionError, "config does not match the supported field parameters", nil)
	}
	hash, err := transport.CommitmentHash(config.HashFunction)
	if err != nil {
		return nil, NewError(ErrPreconditionError, "unsupported hash function", err)
	}
	return hash, nil
}
