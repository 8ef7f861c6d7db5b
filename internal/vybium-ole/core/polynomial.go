package core

import "fmt"

// Polynomial is an ordered sequence of field elements, coefficient c_i
// at index i, always stored with trailing zero coefficients trimmed
// (except for the single-element zero polynomial).
type Polynomial struct {
	field        *Field
	coefficients []*FieldElement
}

// NewPolynomial wraps coefficients into a Polynomial, trimming trailing
// zero coefficients.
func NewPolynomial(field *Field, coefficients []*FieldElement) *Polynomial {
	trimmed := trimTrailingZeros(coefficients)
	if len(trimmed) == 0 {
		trimmed = []*FieldElement{field.Zero()}
	}
	return &Polynomial{field: field, coefficients: trimmed}
}

func trimTrailingZeros(coefficients []*FieldElement) []*FieldElement {
	end := len(coefficients)
	for end > 1 && coefficients[end-1].IsZero() {
		end--
	}
	out := make([]*FieldElement, end)
	copy(out, coefficients[:end])
	return out
}

// Coefficients returns the polynomial's trimmed coefficient slice.
// Callers must not mutate the returned slice.
func (p *Polynomial) Coefficients() []*FieldElement {
	return p.coefficients
}

// Degree returns the index of the highest nonzero coefficient. The zero
// polynomial has degree 0 by convention (its single stored coefficient
// is zero).
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Eval evaluates the polynomial at x via Horner's method.
func (p *Polynomial) Eval(x *FieldElement) *FieldElement {
	return Horner(p.coefficients, x)
}

// Div divides p by other, returning (quotient, remainder) polynomials.
func (p *Polynomial) Div(other *Polynomial) (quotient, remainder *Polynomial, err error) {
	q, r, err := EuclidDivision(p.coefficients, other.coefficients, p.field)
	if err != nil {
		return nil, nil, err
	}
	return NewPolynomial(p.field, q), NewPolynomial(p.field, r), nil
}

// PadWithZeros returns a new slice of the requested length, containing
// coeffs followed by zero field elements. length must be >= len(coeffs).
func PadWithZeros(coeffs []*FieldElement, length int, field *Field) []*FieldElement {
	out := make([]*FieldElement, length)
	copy(out, coeffs)
	for i := len(coeffs); i < length; i++ {
		out[i] = field.Zero()
	}
	return out
}

// Horner evaluates a[0] + a[1]*x + a[2]*x^2 + ... at the given point
// using |a|-1 multiplications.
func Horner(a []*FieldElement, x *FieldElement) *FieldElement {
	if len(a) == 0 {
		return x.Field().Zero()
	}
	result := a[len(a)-1]
	for i := len(a) - 2; i >= 0; i-- {
		result = result.Mul(x).Add(a[i])
	}
	return result
}

// EuclidDivision divides a by b, returning (quotient, remainder) such
// that a = quotient*b + remainder and deg(remainder) < deg(b). It
// mirrors the top-down coefficient-elimination algorithm: at each step
// it cancels the current leading coefficient of the running remainder
// by subtracting a scaled copy of b, then rescans downward past any new
// leading zeros to keep the degree bookkeeping exact.
//
// Fails with ErrPrecondition if b's leading coefficient is zero. If
// deg(a) < deg(b), it returns (0, a) unchanged.
func EuclidDivision(a, b []*FieldElement, field *Field) (quotient, remainder []*FieldElement, err error) {
	d := len(b) - 1
	if d < 0 || b[d].IsZero() {
		return nil, nil, fmt.Errorf("core: euclidean division by a polynomial with zero leading coefficient: %w", ErrPrecondition)
	}
	lcInv, err := b[d].Inv()
	if err != nil {
		return nil, nil, fmt.Errorf("core: %w: %w", err, ErrPrecondition)
	}

	r := make([]*FieldElement, len(a))
	copy(r, a)
	degR := len(r) - 1

	if degR < d {
		return []*FieldElement{field.Zero()}, r, nil
	}

	q := make([]*FieldElement, degR-d+1)
	for i := range q {
		q[i] = field.Zero()
	}

	// Top-down coefficient elimination: cancel the current leading
	// coefficient of r by subtracting a scaled copy of b, then step
	// down one degree at a time (whether or not this step produced a
	// cancellation), keeping deg(r) accurate at every iteration.
	for degR >= d {
		if !r[degR].IsZero() {
			s := r[degR].Mul(lcInv)
			q[degR-d] = q[degR-d].Add(s)
			for i := 0; i <= d; i++ {
				r[degR-d+i] = r[degR-d+i].Sub(s.Mul(b[i]))
			}
		}
		degR--
	}
	remainder = r[:max(degR+1, 1)]
	return q, remainder, nil
}

// ProductFromRoots builds the monic polynomial vanishing at every point
// in roots: prod_i (x - roots[i]), via in-place incremental expansion in
// O(n^2) field operations.
func ProductFromRoots(roots []*FieldElement, field *Field) []*FieldElement {
	result := make([]*FieldElement, len(roots)+1)
	for i := range result {
		result[i] = field.Zero()
	}
	for i := 0; i < len(roots); i++ {
		aNeg := roots[i].Neg()
		result[i] = field.One()
		for j := i; j >= 1; j-- {
			result[j] = result[j].Mul(aNeg).Add(result[j-1])
		}
		result[0] = result[0].Mul(aNeg)
	}
	result[len(roots)] = field.One()
	return result
}

// LagrangeAtZero returns the interpolating polynomial through (xs[i],
// ys[i]) evaluated at 0, without materializing the polynomial. Fails
// with ErrPrecondition if any two x-coordinates coincide.
func LagrangeAtZero(xs, ys []*FieldElement, field *Field) (*FieldElement, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("core: lagrange-at-zero requires xs and ys of equal length: %w", ErrPrecondition)
	}
	sum := field.Zero()
	for i := range xs {
		num := field.One()
		den := field.One()
		for j := range xs {
			if i == j {
				continue
			}
			if xs[i].Equal(xs[j]) {
				return nil, fmt.Errorf("core: lagrange-at-zero requires distinct x-coordinates: %w", ErrPrecondition)
			}
			// term for x=0: (0 - xs[j]) / (xs[i] - xs[j])
			num = num.Mul(xs[j].Neg())
			den = den.Mul(xs[i].Sub(xs[j]))
		}
		denInv, err := den.Inv()
		if err != nil {
			return nil, fmt.Errorf("core: %w: %w", err, ErrPrecondition)
		}
		sum = sum.Add(ys[i].Mul(num).Mul(denInv))
	}
	return sum, nil
}
