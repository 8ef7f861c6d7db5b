// Package ot implements a maliciously-secure 1-of-2 oblivious transfer
// primitive as a classical Diffie-Hellman "simplest OT" (Chou-Orlandi
// style) running over the OLE protocol's own prime field, so the OT
// layer needs no elliptic-curve dependency of its own. It implements
// the batched base-OT contract the protocol layer calls; building an
// OT-extension on top of it is explicitly out of scope.
package ot

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
	"github.com/vybium/vybium-ole/internal/vybium-ole/transport"
)

// Pair is one sender-side OT transfer: the receiver learns Left if its
// choice bit is false, Right if true.
type Pair struct {
	Left, Right [16]byte
}

// otGenerator is the field's full multiplicative group generator,
// reused as the OT base generator so the primitive needs no separate
// group setup.
var otGenerator = core.Q.NewElementFromInt64(5)

// groupOrder is the order of the full multiplicative group F_q*.
var groupOrder = new(big.Int).Sub(core.Q.Modulus(), big.NewInt(1))

// randomExponent samples uniformly from [1, groupOrder).
func randomExponent(rng io.Reader) (*big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	bound := new(big.Int).Sub(groupOrder, big.NewInt(1))
	r, err := rand.Int(rng, bound)
	if err != nil {
		return nil, err
	}
	return r.Add(r, big.NewInt(1)), nil
}

// deriveKey hashes a shared group element down to a 16-byte one-time
// pad key, bound to its transfer index so keys never collide across
// the batch.
func deriveKey(index int, shared *core.FieldElement) [16]byte {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(index))
	wire := shared.ToWire()
	h := sha256.New()
	h.Write(idx[:])
	h.Write(wire[:])
	var key [16]byte
	copy(key[:], h.Sum(nil)[:16])
	return key
}

func xorBlock(a, b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func writeElement(ctx context.Context, ch transport.Channel, e *core.FieldElement) error {
	return ch.WriteBlock(ctx, e.ToWire())
}

func readElement(ctx context.Context, ch transport.Channel) (*core.FieldElement, error) {
	wire, err := ch.ReadBlock(ctx)
	if err != nil {
		return nil, err
	}
	return core.Q.FromWire(wire), nil
}

// Send performs len(pairs) independent 1-of-2 transfers: for transfer
// i, the receiver learns pairs[i].Left or pairs[i].Right according to
// its hidden choice bit. The exchange runs in three strictly ordered
// batch phases (base key, all receiver keys, all ciphertext pairs) so
// neither side ever waits on data the other is still buffering.
func Send(ctx context.Context, ch transport.Channel, pairs []Pair, rng io.Reader) error {
	y, err := randomExponent(rng)
	if err != nil {
		return fmt.Errorf("ot: sampling sender key: %w", err)
	}
	s := otGenerator.Exp(y)
	if err := writeElement(ctx, ch, s); err != nil {
		return fmt.Errorf("ot: publishing base key: %w", err)
	}
	if err := ch.Flush(ctx); err != nil {
		return fmt.Errorf("ot: flush: %w", err)
	}

	keyBlocks, err := ch.ReadBlocks(ctx, len(pairs))
	if err != nil {
		return fmt.Errorf("ot: reading receiver keys: %w", err)
	}

	for i, pair := range pairs {
		pk0 := core.Q.FromWire(keyBlocks[i])
		pk0Inv, err := pk0.Inv()
		if err != nil {
			return fmt.Errorf("ot: degenerate receiver key at transfer %d: %w", i, err)
		}
		pk1 := s.Mul(pk0Inv)

		k0 := deriveKey(i, pk0.Exp(y))
		k1 := deriveKey(i, pk1.Exp(y))

		c0 := xorBlock(pair.Left, k0)
		c1 := xorBlock(pair.Right, k1)

		if err := ch.WriteBlock(ctx, c0); err != nil {
			return fmt.Errorf("ot: writing left ciphertext for transfer %d: %w", i, err)
		}
		if err := ch.WriteBlock(ctx, c1); err != nil {
			return fmt.Errorf("ot: writing right ciphertext for transfer %d: %w", i, err)
		}
	}
	return ch.Flush(ctx)
}

// Receive performs len(choices) independent 1-of-2 transfers, returning
// one 16-byte block per transfer: blocks[i] equals the sender's Right
// value if choices[i], otherwise its Left value.
func Receive(ctx context.Context, ch transport.Channel, choices []bool, rng io.Reader) ([][16]byte, error) {
	s, err := readElement(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("ot: reading sender base key: %w", err)
	}

	exponents := make([]*big.Int, len(choices))
	for i, choice := range choices {
		x, err := randomExponent(rng)
		if err != nil {
			return nil, fmt.Errorf("ot: sampling receiver key for transfer %d: %w", i, err)
		}
		exponents[i] = x
		pkChoice := otGenerator.Exp(x)

		var pk0 *core.FieldElement
		if choice {
			pkChoiceInv, err := pkChoice.Inv()
			if err != nil {
				return nil, fmt.Errorf("ot: degenerate key at transfer %d: %w", i, err)
			}
			pk0 = s.Mul(pkChoiceInv)
		} else {
			pk0 = pkChoice
		}
		if err := writeElement(ctx, ch, pk0); err != nil {
			return nil, fmt.Errorf("ot: sending key for transfer %d: %w", i, err)
		}
	}
	if err := ch.Flush(ctx); err != nil {
		return nil, fmt.Errorf("ot: flush: %w", err)
	}

	cipherBlocks, err := ch.ReadBlocks(ctx, 2*len(choices))
	if err != nil {
		return nil, fmt.Errorf("ot: reading ciphertexts: %w", err)
	}

	out := make([][16]byte, len(choices))
	for i, choice := range choices {
		key := deriveKey(i, s.Exp(exponents[i]))
		if choice {
			out[i] = xorBlock(cipherBlocks[2*i+1], key)
		} else {
			out[i] = xorBlock(cipherBlocks[2*i], key)
		}
	}
	return out, nil
}
