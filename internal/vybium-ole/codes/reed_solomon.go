// Package codes implements the Reed-Solomon encoder/decoder that hides
// a secret puncturing set inside a length-B evaluation vector, built on
// top of the field's radix-2 and radix-3 FFT kernels.
package codes

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
)

// EncodeReedSolomon encodes x (length t <= A/2) into a length-B
// codeword whose values at a fresh, uniformly-sampled puncturing set P
// (|P| = A) carry an underlying degree-<A/2 polynomial evaluated on the
// even sub-grid of the order-A subgroup; every other position holds
// uniform noise. It returns the codeword, the A/2-length coefficient
// vector of the underlying polynomial (usable directly with Horner),
// and the sorted puncturing set.
func EncodeReedSolomon(field *core.Field, x []*core.FieldElement, rng io.Reader) (codeword []*core.FieldElement, poly []*core.FieldElement, puncturingSet []int, err error) {
	if len(x) > core.A/2 {
		return nil, nil, nil, fmt.Errorf("codes: input length %d exceeds A/2=%d: %w", len(x), core.A/2, core.ErrPrecondition)
	}

	padded := make([]*core.FieldElement, core.A/2)
	copy(padded, x)
	for i := len(x); i < core.A/2; i++ {
		r, rerr := field.RandomElement(rng)
		if rerr != nil {
			return nil, nil, nil, fmt.Errorf("codes: padding input: %w", rerr)
		}
		padded[i] = r
	}

	alpha2 := core.Alpha.Square()
	if err := core.InverseFFT2InPlace(padded, alpha2); err != nil {
		return nil, nil, nil, fmt.Errorf("codes: encode: %w", err)
	}
	poly = padded

	extended := core.PadWithZeros(poly, core.B, field)
	if err := core.FFT3InPlace(extended, core.Beta); err != nil {
		return nil, nil, nil, fmt.Errorf("codes: encode: %w", err)
	}

	puncturingSet, err = samplePositions(core.B, core.A, rng)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("codes: sampling puncturing set: %w", err)
	}
	inSet := make(map[int]bool, len(puncturingSet))
	for _, p := range puncturingSet {
		inSet[p] = true
	}

	codeword = make([]*core.FieldElement, core.B)
	for i := 0; i < core.B; i++ {
		if inSet[i] {
			codeword[i] = extended[i]
			continue
		}
		r, rerr := field.RandomElement(rng)
		if rerr != nil {
			return nil, nil, nil, fmt.Errorf("codes: masking codeword: %w", rerr)
		}
		codeword[i] = r
	}

	return codeword, poly, puncturingSet, nil
}

// DecodeReedSolomon recovers the degree-<A polynomial Y consistent with
// codeword's values at the positions in puncturingSet. codeword is not
// mutated; the caller's puncturingSet must be sorted ascending (as
// returned by EncodeReedSolomon).
func DecodeReedSolomon(field *core.Field, codeword []*core.FieldElement, puncturingSet []int) ([]*core.FieldElement, error) {
	if len(codeword) != core.B {
		return nil, fmt.Errorf("codes: codeword length %d != B=%d: %w", len(codeword), core.B, core.ErrPrecondition)
	}
	if len(puncturingSet) != core.A {
		return nil, fmt.Errorf("codes: puncturing set size %d != A=%d: %w", len(puncturingSet), core.A, core.ErrPrecondition)
	}

	noisy := make([]*core.FieldElement, core.B)
	copy(noisy, codeword)
	if err := core.InverseFFT3InPlace(noisy, core.Beta); err != nil {
		return nil, fmt.Errorf("codes: decode: %w", err)
	}

	roots := make([]*core.FieldElement, len(puncturingSet))
	for i, idx := range puncturingSet {
		roots[i] = core.Beta.Exp(big.NewInt(int64(idx)))
	}
	vanishing := core.ProductFromRoots(roots, field)

	_, remainder, err := core.EuclidDivision(noisy, vanishing, field)
	if err != nil {
		return nil, fmt.Errorf("codes: decode: %w", err)
	}

	return core.PadWithZeros(remainder, core.A, field), nil
}

// samplePositions draws k distinct positions uniformly without
// replacement from {0, ..., n-1} via a partial Fisher-Yates shuffle,
// returning them sorted ascending.
func samplePositions(n, k int, rng io.Reader) ([]int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		max := big.NewInt(int64(n - i))
		r, err := rand.Int(rng, max)
		if err != nil {
			return nil, err
		}
		j := i + int(r.Int64())
		perm[i], perm[j] = perm[j], perm[i]
	}
	out := make([]int, k)
	copy(out, perm[:k])
	sort.Ints(out)
	return out, nil
}
