package core

import "math/big"

// A is the order of the smooth radix-2 subgroup used for the Sender's
// inputs and the final result grid.
const A = 256

// B is the order of the smooth radix-3 subgroup used for the Shamir
// sharing and the Reed-Solomon codeword.
const B = 2187

// fullGroupGenerator is a generator of the whole multiplicative group
// F_q*, fixed by the prime's factorization (q-1 = 2^11 * 3^10 * 23 *
// a large prime).
const fullGroupGenerator = 5

// modulusDecimal is the 127-bit prime the protocol runs over.
const modulusDecimal = "152137607412117916810699707336809121793"

// Q is the protocol's prime field. Alpha and Beta are derived from the
// known full-group generator rather than transcribed as opaque
// constants, so their subgroup orders are auditable against q-1's
// published factorization instead of trusted blindly.
var (
	Q     *Field
	Alpha *FieldElement // generator of the order-A subgroup
	Beta  *FieldElement // generator of the order-B subgroup
)

func init() {
	modulus, ok := new(big.Int).SetString(modulusDecimal, 10)
	if !ok {
		panic("core: malformed field modulus constant")
	}
	var err error
	Q, err = NewField(modulus)
	if err != nil {
		panic(err)
	}

	qMinus1 := new(big.Int).Sub(modulus, big.NewInt(1))
	g := Q.NewElementFromInt64(fullGroupGenerator)

	aExp := new(big.Int).Div(qMinus1, big.NewInt(A))
	Alpha = g.Exp(aExp)
	if !Alpha.ExpInt(A).IsOne() {
		panic("core: alpha does not have order A")
	}

	bExp := new(big.Int).Div(qMinus1, big.NewInt(B))
	Beta = g.Exp(bExp)
	if !Beta.ExpInt(B).IsOne() {
		panic("core: beta does not have order B")
	}
}
