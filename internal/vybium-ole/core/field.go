// Package core implements the prime-field arithmetic, FFT kernels and
// polynomial primitives the rest of vybium-ole is built on.
package core

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Field represents the prime field F_q that the OLE protocol runs over.
type Field struct {
	modulus *big.Int
}

// FieldElement represents an element of a Field, always stored in
// canonical residue [0, modulus).
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField creates a finite field with the given modulus.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("core: modulus must be greater than 2")
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// Equals reports whether two fields share the same modulus.
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// NewElement reduces value modulo the field's modulus and wraps it.
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{field: f, value: normalized}
}

// NewElementFromInt64 builds an element from a signed 64-bit constant.
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 builds an element from an unsigned 64-bit constant.
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// RandomElement samples uniformly from the field using the given entropy
// source. Callers pass crypto/rand.Reader in production and a seeded
// reader in tests that need determinism.
func (f *Field) RandomElement(rng io.Reader) (*FieldElement, error) {
	value, err := rand.Int(rng, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("core: failed to sample random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity.
func (f *Field) Zero() *FieldElement {
	return f.NewElement(big.NewInt(0))
}

// One returns the multiplicative identity.
func (f *Field) One() *FieldElement {
	return f.NewElement(big.NewInt(1))
}

// Big returns a copy of the element's residue as a big.Int.
func (fe *FieldElement) Big() *big.Int {
	return new(big.Int).Set(fe.value)
}

// Field returns the field this element belongs to.
func (fe *FieldElement) Field() *Field {
	return fe.field
}

// Add performs field addition.
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot add elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Add(fe.value, other.value))
}

// Sub performs field subtraction.
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot subtract elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Sub(fe.value, other.value))
}

// Neg returns the additive inverse.
func (fe *FieldElement) Neg() *FieldElement {
	return fe.field.NewElement(new(big.Int).Neg(fe.value))
}

// Mul performs field multiplication.
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot multiply elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Mul(fe.value, other.value))
}

// Div performs field division (multiplication by the inverse). It fails
// only when other is zero.
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	if !fe.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot divide elements from different fields")
	}
	inv, err := other.Inv()
	if err != nil {
		return nil, fmt.Errorf("core: division failed: %w", err)
	}
	return fe.Mul(inv), nil
}

// Inv computes the multiplicative inverse via the extended Euclidean
// algorithm. It fails only when the element is zero.
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.IsZero() {
		return nil, fmt.Errorf("core: cannot invert zero")
	}
	gcd := new(big.Int)
	x := new(big.Int)
	y := new(big.Int)
	gcd.GCD(x, y, fe.value, fe.field.modulus)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("core: inverse does not exist")
	}
	if x.Sign() < 0 {
		x.Add(x, fe.field.modulus)
	}
	return fe.field.NewElement(x), nil
}

// Exp raises the element to a non-negative exponent.
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	result := new(big.Int).Exp(fe.value, exponent, fe.field.modulus)
	return fe.field.NewElement(result)
}

// ExpInt is a convenience wrapper around Exp for small non-negative
// exponents.
func (fe *FieldElement) ExpInt(exponent int64) *FieldElement {
	return fe.Exp(big.NewInt(exponent))
}

// Square computes fe * fe.
func (fe *FieldElement) Square() *FieldElement {
	return fe.Mul(fe)
}

// Equal reports value equality within the same field.
func (fe *FieldElement) Equal(other *FieldElement) bool {
	if !fe.field.Equals(other.field) {
		return false
	}
	return fe.value.Cmp(other.value) == 0
}

// IsZero reports whether the element is the additive identity.
func (fe *FieldElement) IsZero() bool {
	return fe.value.Sign() == 0
}

// IsOne reports whether the element is the multiplicative identity.
func (fe *FieldElement) IsOne() bool {
	return fe.value.Cmp(big.NewInt(1)) == 0
}

// String renders the element's canonical residue in decimal.
func (fe *FieldElement) String() string {
	return fe.value.String()
}

// wireWidth is the fixed on-wire encoding length for a field element,
// per the protocol's 16-byte little-endian layout.
const wireWidth = 16

// ToWire encodes the element as 16 little-endian bytes.
func (fe *FieldElement) ToWire() [wireWidth]byte {
	var out [wireWidth]byte
	b := fe.value.Bytes() // big-endian, minimal length
	for i := 0; i < len(b) && i < wireWidth; i++ {
		out[i] = b[len(b)-1-i]
	}
	return out
}

// FromWire decodes 16 little-endian bytes into a field element, reducing
// modulo q if the encoded value is not already canonical.
func (f *Field) FromWire(wire [wireWidth]byte) *FieldElement {
	be := make([]byte, wireWidth)
	for i := 0; i < wireWidth; i++ {
		be[i] = wire[wireWidth-1-i]
	}
	v := new(big.Int).SetBytes(be)
	return f.NewElement(v)
}
