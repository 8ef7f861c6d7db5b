package protocol

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/vybium/vybium-ole/internal/vybium-ole/codes"
	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
	"github.com/vybium/vybium-ole/internal/vybium-ole/ot"
	"github.com/vybium/vybium-ole/internal/vybium-ole/shamir"
	"github.com/vybium/vybium-ole/internal/vybium-ole/transport"
)

// Receiver is the OLE Receiver role: it holds x and learns
// y = a*x + b, componentwise, without learning a or b beyond that.
type Receiver struct {
	session *session
	field   *core.Field
}

// NewReceiver initializes a Receiver session over channel. A nil rng
// falls back to crypto/rand, a nil hash to SHA-256.
func NewReceiver(channel transport.Channel, rng io.Reader, hash func([]byte) [32]byte) *Receiver {
	return &Receiver{session: newSession(channel, rng, hash), field: core.Q}
}

// State reports the session's current lifecycle state.
func (r *Receiver) State() State {
	return r.session.State()
}

// Input runs one OLE invocation for x (|x| = t <= A/2) against the
// channel's counterpart Sender.Input(a, b), returning y with
// y[i] = a[i]*x[i] + b[i]. The session transitions
// Ready -> InCall -> Ready on success, or -> Aborted on any failure.
func (r *Receiver) Input(ctx context.Context, x []*core.FieldElement) ([]*core.FieldElement, error) {
	if len(x) > core.A/2 {
		return nil, newError(ErrLengthMismatch, fmt.Sprintf("len(x)=%d exceeds A/2=%d", len(x), core.A/2), nil)
	}
	if err := r.session.beginCall(); err != nil {
		return nil, err
	}
	y, err := r.run(ctx, x)
	if err := r.session.endCall(err); err != nil {
		return nil, err
	}
	return y, nil
}

func (r *Receiver) run(ctx context.Context, x []*core.FieldElement) ([]*core.FieldElement, error) {
	ch := r.session.channel
	rng := r.session.rng
	field := r.field
	rho := core.B - core.A

	// Step 1: read the Sender's commitment.
	commitment := make([]byte, transport.CommitmentHashSize)
	if err := ch.ReadBytes(ctx, commitment); err != nil {
		return nil, newError(ErrIoError, "reading commitment", err)
	}

	// Step 2: encode x into a punctured codeword.
	codeword, xPoly, puncturing, err := codes.EncodeReedSolomon(field, x, rng)
	if err != nil {
		return nil, newError(ErrPreconditionError, "encoding input", err)
	}
	inSet := make([]bool, core.B)
	for _, p := range puncturing {
		inSet[p] = true
	}

	// Step 3: one OT transfer per position. Positions in P choose the
	// mask branch, all others the share branch.
	blocks, err := ot.Receive(ctx, ch, inSet, rng)
	if err != nil {
		return nil, newError(ErrOtError, "receiving OT batch", err)
	}
	received := make([]*core.FieldElement, core.B)
	for i, b := range blocks {
		received[i] = field.FromWire(b)
	}

	// Step 4: reconstruct the Shamir secret from the share positions.
	shareIndices := make([]int, 0, rho)
	shareValues := make([]*core.FieldElement, 0, rho)
	for i := 0; i < core.B; i++ {
		if !inSet[i] {
			shareIndices = append(shareIndices, i)
			shareValues = append(shareValues, received[i])
		}
	}
	revealed, err := shamir.Reconstruct(field, shareIndices, shareValues, core.B, rho, core.Beta)
	if err != nil {
		return nil, newError(ErrPreconditionError, "reconstructing secret", err)
	}

	// Step 5: check the commitment, then reveal the secret.
	digest := r.session.hashSecret(revealed)
	if subtle.ConstantTimeCompare(digest[:], commitment) != 1 {
		return nil, newError(ErrCommitmentMismatch, "commitment does not match reconstructed secret", nil)
	}
	if err := writeElement(ctx, ch, revealed); err != nil {
		return nil, newError(ErrIoError, "writing revealed secret", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return nil, newError(ErrIoError, "flushing revealed secret", err)
	}

	// Step 6: send the codeword.
	if err := writeElements(ctx, ch, codeword); err != nil {
		return nil, newError(ErrIoError, "writing codeword", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return nil, newError(ErrIoError, "flushing codeword", err)
	}

	// Step 7: read W and strip the masks at the punctured positions.
	w, err := readElements(ctx, ch, field, core.B)
	if err != nil {
		return nil, newError(ErrIoError, "reading W", err)
	}
	for _, p := range puncturing {
		w[p] = w[p].Sub(received[p])
	}

	// Step 8: decode to the result polynomial.
	yPoly, err := codes.DecodeReedSolomon(field, w, puncturing)
	if err != nil {
		return nil, newError(ErrPreconditionError, "decoding result", err)
	}
	if len(yPoly) != core.A {
		return nil, newError(ErrPreconditionError, fmt.Sprintf("decoded polynomial has length %d, want %d", len(yPoly), core.A), nil)
	}

	// Step 9: first challenge.
	zr, err := field.RandomElement(rng)
	if err != nil {
		return nil, newError(ErrIoError, "sampling z_r", err)
	}
	if err := writeElement(ctx, ch, zr); err != nil {
		return nil, newError(ErrIoError, "writing z_r", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return nil, newError(ErrIoError, "flushing z_r", err)
	}

	// Step 10: verify the identity at z_r.
	resp, err := readElements(ctx, ch, field, 3)
	if err != nil {
		return nil, newError(ErrIoError, "reading challenge response", err)
	}
	aAtZr, bAtZr, zs := resp[0], resp[1], resp[2]
	xAtZr := core.Horner(xPoly, zr)
	yAtZr := core.Horner(yPoly, zr)
	if !xAtZr.Mul(aAtZr).Add(bAtZr).Equal(yAtZr) {
		return nil, newError(ErrIdentityCheckFailed, "identity check failed at z_r", nil)
	}

	// Step 11: answer the Sender's challenge at z_s.
	xAtZs := core.Horner(xPoly, zs)
	yAtZs := core.Horner(yPoly, zs)
	if err := writeElements(ctx, ch, []*core.FieldElement{xAtZs, yAtZs}); err != nil {
		return nil, newError(ErrIoError, "writing second challenge response", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return nil, newError(ErrIoError, "flushing second challenge response", err)
	}

	// Step 12: evaluate Y on the order-A grid and keep the even
	// sub-grid, where the Sender placed a and b.
	if err := core.FFT2InPlace(yPoly, core.Alpha); err != nil {
		return nil, newError(ErrPreconditionError, "evaluating result polynomial", err)
	}
	y := make([]*core.FieldElement, len(x))
	for i := range y {
		y[i] = yPoly[2*i]
	}
	return y, nil
}
