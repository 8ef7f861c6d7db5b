package protocol

import (
	"context"
	"fmt"
	"io"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
	"github.com/vybium/vybium-ole/internal/vybium-ole/ot"
	"github.com/vybium/vybium-ole/internal/vybium-ole/shamir"
	"github.com/vybium/vybium-ole/internal/vybium-ole/transport"
)

// Sender is the OLE Sender role: it holds a, b and helps the Receiver
// learn y = a*x + b without learning x.
type Sender struct {
	session *session
	field   *core.Field
}

// NewSender initializes a Sender session over channel. There is no
// OT-extension pool to amortize here (building one is explicitly out
// of scope); NewSender only readies the session's state machine. A nil rng
// falls back to crypto/rand, a nil hash to SHA-256.
func NewSender(channel transport.Channel, rng io.Reader, hash func([]byte) [32]byte) *Sender {
	return &Sender{session: newSession(channel, rng, hash), field: core.Q}
}

// State reports the session's current lifecycle state.
func (s *Sender) State() State {
	return s.session.State()
}

// Input runs one OLE invocation for a and b (|a| = |b| = t <= A/2)
// against the channel's counterpart Receiver.Input(x), following the
// Sender side of the protocol exactly. The session transitions
// Ready -> InCall -> Ready on success, or -> Aborted on any failure.
func (s *Sender) Input(ctx context.Context, a, b []*core.FieldElement) error {
	if len(a) != len(b) {
		return newError(ErrLengthMismatch, "len(a) != len(b)", nil)
	}
	if len(a) > core.A/2 {
		return newError(ErrLengthMismatch, fmt.Sprintf("len(a)=%d exceeds A/2=%d", len(a), core.A/2), nil)
	}
	if err := s.session.beginCall(); err != nil {
		return err
	}
	return s.session.endCall(s.run(ctx, a, b))
}

func (s *Sender) run(ctx context.Context, a, b []*core.FieldElement) error {
	ch := s.session.channel
	rng := s.session.rng
	field := s.field
	rho := core.B - core.A

	// Step 1: mask M, |M| = B.
	mask := make([]*core.FieldElement, core.B)
	for i := range mask {
		m, err := field.RandomElement(rng)
		if err != nil {
			return newError(ErrIoError, "sampling mask", err)
		}
		mask[i] = m
	}

	// Step 2-3: Shamir secret and shares.
	secret, err := field.RandomElement(rng)
	if err != nil {
		return newError(ErrIoError, "sampling secret", err)
	}
	shares, err := shamir.Share(field, secret, core.B, rho, core.Beta, rng)
	if err != nil {
		return newError(ErrPreconditionError, "sharing secret", err)
	}

	// Step 4: commit.
	commitment := s.session.hashSecret(secret)
	if err := ch.WriteBytes(ctx, commitment[:]); err != nil {
		return newError(ErrIoError, "writing commitment", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return newError(ErrIoError, "flushing commitment", err)
	}

	// Step 5: one OT transfer per position, sending (share, mask).
	pairs := make([]ot.Pair, core.B)
	for i := 0; i < core.B; i++ {
		pairs[i] = ot.Pair{Left: shares[i].ToWire(), Right: mask[i].ToWire()}
	}
	if err := ot.Send(ctx, ch, pairs, rng); err != nil {
		return newError(ErrOtError, "sending OT batch", err)
	}

	// Step 6: verify the revealed secret.
	revealed, err := readElement(ctx, ch, field)
	if err != nil {
		return newError(ErrIoError, "reading revealed secret", err)
	}
	if !revealed.Equal(secret) {
		return newError(ErrSecretMismatch, "receiver revealed secret does not match", nil)
	}

	// Step 7: read the Receiver's codeword.
	v, err := readElements(ctx, ch, field, core.B)
	if err != nil {
		return newError(ErrIoError, "reading codeword", err)
	}

	// Step 8: A_poly over the even sub-grid.
	aCoeffs := make([]*core.FieldElement, core.A/2)
	copy(aCoeffs, a)
	for i := len(a); i < core.A/2; i++ {
		r, rerr := field.RandomElement(rng)
		if rerr != nil {
			return newError(ErrIoError, "padding a", rerr)
		}
		aCoeffs[i] = r
	}
	alpha2 := core.Alpha.Square()
	if err := core.InverseFFT2InPlace(aCoeffs, alpha2); err != nil {
		return newError(ErrPreconditionError, "inverse-fft a", err)
	}

	// Step 9: B_poly interleaving b with randoms over the full grid.
	bCoeffs := make([]*core.FieldElement, core.A)
	for i := 0; i < core.A/2; i++ {
		if i < len(b) {
			bCoeffs[2*i] = b[i]
		} else {
			r, rerr := field.RandomElement(rng)
			if rerr != nil {
				return newError(ErrIoError, "padding b", rerr)
			}
			bCoeffs[2*i] = r
		}
		r, rerr := field.RandomElement(rng)
		if rerr != nil {
			return newError(ErrIoError, "padding b odd slots", rerr)
		}
		bCoeffs[2*i+1] = r
	}
	if err := core.InverseFFT2InPlace(bCoeffs, core.Alpha); err != nil {
		return newError(ErrPreconditionError, "inverse-fft b", err)
	}

	// Step 10: zero-extend and forward-FFT with beta.
	aVals := core.PadWithZeros(aCoeffs, core.B, field)
	if err := core.FFT3InPlace(aVals, core.Beta); err != nil {
		return newError(ErrPreconditionError, "forward-fft a", err)
	}
	bVals := core.PadWithZeros(bCoeffs, core.B, field)
	if err := core.FFT3InPlace(bVals, core.Beta); err != nil {
		return newError(ErrPreconditionError, "forward-fft b", err)
	}

	// Step 11: masked pointwise product.
	w := make([]*core.FieldElement, core.B)
	for i := 0; i < core.B; i++ {
		w[i] = aVals[i].Mul(v[i]).Add(bVals[i]).Add(mask[i])
	}

	// Step 12: send W.
	if err := writeElements(ctx, ch, w); err != nil {
		return newError(ErrIoError, "writing W", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return newError(ErrIoError, "flushing W", err)
	}

	// Step 13: challenge round.
	zr, err := readElement(ctx, ch, field)
	if err != nil {
		return newError(ErrIoError, "reading z_r", err)
	}
	zs, err := field.RandomElement(rng)
	if err != nil {
		return newError(ErrIoError, "sampling z_s", err)
	}
	aAtZr := core.Horner(aCoeffs, zr)
	bAtZr := core.Horner(bCoeffs, zr)
	if err := writeElements(ctx, ch, []*core.FieldElement{aAtZr, bAtZr, zs}); err != nil {
		return newError(ErrIoError, "writing challenge response", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return newError(ErrIoError, "flushing challenge response", err)
	}

	// Step 14: verify the second identity check.
	resp, err := readElements(ctx, ch, field, 2)
	if err != nil {
		return newError(ErrIoError, "reading second challenge response", err)
	}
	xAtZs, yAtZs := resp[0], resp[1]
	aAtZs := core.Horner(aCoeffs, zs)
	bAtZs := core.Horner(bCoeffs, zs)
	lhs := aAtZs.Mul(xAtZs).Add(bAtZs)
	if !lhs.Equal(yAtZs) {
		return newError(ErrIdentityCheckFailed, "identity check failed at z_s", nil)
	}

	return nil
}
