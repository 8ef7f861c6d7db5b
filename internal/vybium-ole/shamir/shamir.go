// Package shamir implements packed Shamir secret sharing over the
// order-B subgroup of the OLE field, reusing the radix-3 FFT kernel for
// both sharing and reconstruction.
package shamir

import (
	"fmt"
	"io"
	"math/big"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
)

// Share samples a polynomial of degree < rho whose constant term is
// secret (every other coefficient uniform), zero-pads it to length n,
// and forward-FFTs it with omega to produce n evaluations — the share
// vector.
func Share(field *core.Field, secret *core.FieldElement, n, rho int, omega *core.FieldElement, rng io.Reader) ([]*core.FieldElement, error) {
	if rho <= 0 || rho > n {
		return nil, fmt.Errorf("shamir: rho must be in (0, n]: %w", core.ErrPrecondition)
	}
	coeffs := make([]*core.FieldElement, n)
	coeffs[0] = secret
	for i := 1; i < rho; i++ {
		r, err := field.RandomElement(rng)
		if err != nil {
			return nil, fmt.Errorf("shamir: sampling coefficient %d: %w", i, err)
		}
		coeffs[i] = r
	}
	for i := rho; i < n; i++ {
		coeffs[i] = field.Zero()
	}
	if err := core.FFT3InPlace(coeffs, omega); err != nil {
		return nil, fmt.Errorf("shamir: share: %w", err)
	}
	return coeffs, nil
}

// Reconstruct recovers the secret (the shared polynomial's constant
// term) from rho (or more) indices and their corresponding evaluations
// at omega^index. Only the first rho of the given indices/shares are
// consumed: the vanishing polynomial used for the correcting division
// is built over exactly those rho evaluation points.
//
// Fails with ErrPrecondition if fewer than rho indices/shares are
// given.
func Reconstruct(field *core.Field, indices []int, shares []*core.FieldElement, n, rho int, omega *core.FieldElement) (*core.FieldElement, error) {
	if len(indices) < rho || len(shares) < rho {
		return nil, fmt.Errorf("shamir: reconstruct requires at least %d indices and shares, got %d/%d: %w",
			rho, len(indices), len(shares), core.ErrPrecondition)
	}

	knownIndices := indices[:rho]
	knownShares := shares[:rho]

	pointsWithError := make([]*core.FieldElement, n)
	pointer := 0
	for j := 0; j < n; j++ {
		if pointer < rho && knownIndices[pointer] == j {
			pointsWithError[j] = knownShares[pointer]
			pointer++
		} else {
			pointsWithError[j] = field.One()
		}
	}

	if err := core.InverseFFT3InPlace(pointsWithError, omega); err != nil {
		return nil, fmt.Errorf("shamir: reconstruct: %w", err)
	}

	roots := make([]*core.FieldElement, rho)
	for i, idx := range knownIndices {
		roots[i] = omega.Exp(big.NewInt(int64(idx)))
	}
	vanishing := core.ProductFromRoots(roots, field)

	_, remainder, err := core.EuclidDivision(pointsWithError, vanishing, field)
	if err != nil {
		return nil, fmt.Errorf("shamir: reconstruct: %w", err)
	}
	return remainder[0], nil
}
