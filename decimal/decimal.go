// Package decimal implements the arbitrary-precision decimal value that the
// NTT-Mul and Newton-Div kernels (packages ntt and newtondiv) treat as an
// external collaborator: a sign, a base-1e9 fraction array, a precision
// (limb count), and an exponent giving the fraction's decimal position.
//
// A Decimal represents the value
//
//	sign * 0.Frac[0] Frac[1] ... Frac[Prec-1] * Base^Exponent
//
// where each Frac[i] is itself a base-Base "digit" (a decimal group of
// FigsPerLimb digits), Frac[0] being the most significant.
package decimal

import (
	"errors"
	"sync"
)

// Base is the limb radix: 10^9. FigsPerLimb is the number of decimal digits
// per limb. Both are fixed by the wire format the kernels were designed
// around and are not configurable.
const (
	Base        = 1_000_000_000
	FigsPerLimb = 9
)

// ErrShiftNotLimbAligned is the value DecimalShift panics with when asked to
// shift by a digit count that does not land on a limb boundary.
var ErrShiftNotLimbAligned = errors.New("decimal: shift amount is not a multiple of FigsPerLimb")

// Decimal is a non-negative-magnitude, signed, arbitrary-precision decimal
// integer-or-fraction value. The zero value is not ready for use; construct
// one with NewZero.
type Decimal struct {
	Sign     int      // -1 or +1
	Frac     []uint32 // base-Base limbs, most-significant first, len(Frac) >= Prec
	Prec     int      // number of significant limbs in Frac[:Prec]
	Exponent int      // position, in limbs, of the fraction's decimal point
}

var (
	precLimitMu sync.Mutex
	precLimit   int
)

// GetPrecLimit returns the process-wide precision ceiling.
func GetPrecLimit() int {
	precLimitMu.Lock()
	defer precLimitMu.Unlock()
	return precLimit
}

// SetPrecLimit sets the process-wide precision ceiling, returning the
// previous value.
func SetPrecLimit(n int) int {
	precLimitMu.Lock()
	defer precLimitMu.Unlock()
	old := precLimit
	precLimit = n
	return old
}

// NewZero allocates a zero-valued Decimal with sign sign and fraction
// capacity limbs.
func NewZero(sign int, limbs int) *Decimal {
	if limbs < 0 {
		limbs = 0
	}
	return &Decimal{
		Sign: sign,
		Frac: make([]uint32, limbs),
	}
}

// Clone returns a deep copy of d.
func (d *Decimal) Clone() *Decimal {
	c := &Decimal{
		Sign:     d.Sign,
		Frac:     make([]uint32, d.Prec),
		Prec:     d.Prec,
		Exponent: d.Exponent,
	}
	copy(c.Frac, d.Frac[:d.Prec])
	return c
}

// Value returns the underlying limb array, precision, exponent and sign.
func (d *Decimal) Value() (frac []uint32, prec, exponent, sign int) {
	return d.Frac[:d.Prec], d.Prec, d.Exponent, d.Sign
}

// SetSign sets the sign of d, which must be -1 or +1.
func (d *Decimal) SetSign(s int) {
	d.Sign = s
}

// SetOne sets d to the value 1, preserving its current sign.
func (d *Decimal) SetOne() {
	if cap(d.Frac) < 1 {
		d.Frac = make([]uint32, 1)
	} else {
		d.Frac = d.Frac[:1]
	}
	d.Frac[0] = 1
	d.Prec = 1
	d.Exponent = 1
}

// IsZero reports whether d represents the value 0.
func (d *Decimal) IsZero() bool {
	return d.Prec == 0
}

// Normalize strips leading and trailing zero limbs from d's significant
// range, adjusting Exponent and Prec accordingly, and canonicalizes the
// zero value (Prec == 0, Exponent == 0).
func (d *Decimal) Normalize() {
	frac := d.Frac[:d.Prec]
	start := 0
	for start < len(frac) && frac[start] == 0 {
		start++
	}
	end := len(frac)
	for end > start && frac[end-1] == 0 {
		end--
	}
	if start > 0 {
		copy(d.Frac, frac[start:end])
		d.Exponent -= start
	} else if end < len(frac) {
		copy(d.Frac, frac[:end])
	}
	d.Prec = end - start
	if d.Prec == 0 {
		d.Exponent = 0
	}
}

// magnitudeFrame expresses d's significant limbs against an absolute
// base-Base position: the limb at index i of d occupies position
// d.Exponent-1-i. hi is one past the most significant occupied position,
// lo is the least significant occupied position.
func (d *Decimal) magnitudeFrame() (hi, lo int) {
	if d.Prec == 0 {
		return 0, 0
	}
	return d.Exponent, d.Exponent - d.Prec
}

// limbAt returns the limb of d's magnitude at absolute position pos (0 is
// the units limb, 1 is Base^1, -1 is the first fractional limb), or 0 if
// pos falls outside d's significant range.
func (d *Decimal) limbAt(pos int) uint32 {
	if d.Prec == 0 {
		return 0
	}
	i := d.Exponent - 1 - pos
	if i < 0 || i >= d.Prec {
		return 0
	}
	return d.Frac[i]
}

// magnitudeCmp compares |a| and |b|, returning -1, 0 or 1.
func magnitudeCmp(a, b *Decimal) int {
	hiA, loA := a.magnitudeFrame()
	hiB, loB := b.magnitudeFrame()
	if a.Prec == 0 && b.Prec == 0 {
		return 0
	}
	if a.Prec == 0 {
		return -1
	}
	if b.Prec == 0 {
		return 1
	}
	hi := hiA
	if hiB > hi {
		hi = hiB
	}
	lo := loA
	if loB < lo {
		lo = loB
	}
	for pos := hi - 1; pos >= lo; pos-- {
		av, bv := a.limbAt(pos), b.limbAt(pos)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// magnitudeAdd returns |a| + |b| as an unsigned Decimal (sign +1).
func magnitudeAdd(a, b *Decimal) *Decimal {
	hiA, loA := a.magnitudeFrame()
	hiB, loB := b.magnitudeFrame()
	if a.Prec == 0 {
		hiA, loA = hiB, loB
	}
	if b.Prec == 0 {
		hiB, loB = hiA, loA
	}
	hi := hiA
	if hiB > hi {
		hi = hiB
	}
	lo := loA
	if loB < lo {
		lo = loB
	}
	n := hi - lo
	if n <= 0 {
		return NewZero(1, 0)
	}
	out := make([]uint32, n+1)
	var carry uint64
	for k := 0; k < n; k++ {
		pos := lo + k
		sum := uint64(a.limbAt(pos)) + uint64(b.limbAt(pos)) + carry
		out[n-k] = uint32(sum % Base)
		carry = sum / Base
	}
	out[0] = uint32(carry)
	exponent := hi + 1
	res := &Decimal{Sign: 1, Frac: out, Prec: n + 1, Exponent: exponent}
	res.Normalize()
	return res
}

// magnitudeSub returns |a| - |b| as an unsigned Decimal, assuming |a| >= |b|.
func magnitudeSub(a, b *Decimal) *Decimal {
	hiA, loA := a.magnitudeFrame()
	hiB, loB := b.magnitudeFrame()
	if a.Prec == 0 {
		return NewZero(1, 0)
	}
	if b.Prec == 0 {
		hiB, loB = hiA, loA
	}
	hi := hiA
	if hiB > hi {
		hi = hiB
	}
	lo := loA
	if loB < lo {
		lo = loB
	}
	n := hi - lo
	if n <= 0 {
		return NewZero(1, 0)
	}
	out := make([]uint32, n)
	var borrow int64
	for k := 0; k < n; k++ {
		pos := lo + k
		diff := int64(a.limbAt(pos)) - int64(b.limbAt(pos)) - borrow
		if diff < 0 {
			diff += Base
			borrow = 1
		} else {
			borrow = 0
		}
		out[n-1-k] = uint32(diff)
	}
	res := &Decimal{Sign: 1, Frac: out, Prec: n, Exponent: hi}
	res.Normalize()
	return res
}

// Add returns d + other.
func (d *Decimal) Add(other *Decimal) *Decimal {
	if d.IsZero() {
		r := other.Clone()
		return r
	}
	if other.IsZero() {
		return d.Clone()
	}
	if d.Sign == other.Sign {
		r := magnitudeAdd(d, other)
		r.Sign = d.Sign
		return r
	}
	switch magnitudeCmp(d, other) {
	case 0:
		return NewZero(1, 0)
	case 1:
		r := magnitudeSub(d, other)
		r.Sign = d.Sign
		r.Normalize()
		return r
	default:
		r := magnitudeSub(other, d)
		r.Sign = other.Sign
		r.Normalize()
		return r
	}
}

// Sub returns d - other.
func (d *Decimal) Sub(other *Decimal) *Decimal {
	neg := other.Clone()
	if !neg.IsZero() {
		neg.Sign = -neg.Sign
	}
	return d.Add(neg)
}

// truncateToLimbs keeps only the most significant n limbs of d, dropping
// (not rounding) the rest. Exponent is unchanged: only trailing precision
// is discarded.
func truncateToLimbs(d *Decimal, n int) *Decimal {
	if n >= d.Prec {
		return d.Clone()
	}
	if n <= 0 {
		return NewZero(d.Sign, 0)
	}
	r := &Decimal{Sign: d.Sign, Frac: make([]uint32, n), Prec: n, Exponent: d.Exponent}
	copy(r.Frac, d.Frac[:n])
	r.Normalize()
	r.Sign = d.Sign
	return r
}

func digitsToLimbs(precDigits int) int {
	if precDigits <= 0 {
		return 0
	}
	return (precDigits + FigsPerLimb - 1) / FigsPerLimb
}

// truncateToDigits keeps the fewest most significant whole limbs of d that
// hold at least precDigits significant decimal digits, counting only the
// digits the leading limb actually has.
func truncateToDigits(d *Decimal, precDigits int) *Decimal {
	if d.Prec == 0 || precDigits <= 0 {
		return truncateToLimbs(d, digitsToLimbs(precDigits))
	}
	lead := 0
	for v := d.Frac[0]; v > 0; v /= 10 {
		lead++
	}
	return truncateToLimbs(d, 1+digitsToLimbs(precDigits-lead))
}

// Mult returns d * other using schoolbook multiplication. Large operands
// are delegated to package ntt; see multiplyMagnitudes/nttDispatchThreshold.
func (d *Decimal) Mult(other *Decimal) *Decimal {
	if d.IsZero() || other.IsZero() {
		return NewZero(d.Sign*other.Sign, 0)
	}
	product := multiplyMagnitudes(d.Frac[:d.Prec], other.Frac[:other.Prec])
	r := &Decimal{
		Sign:     d.Sign * other.Sign,
		Frac:     product,
		Prec:     len(product),
		Exponent: d.Exponent + other.Exponent,
	}
	r.Normalize()
	return r
}

// MultAt returns d * other truncated to at least precDigits significant
// decimal digits (the cut is rounded up to the next limb boundary).
func (d *Decimal) MultAt(other *Decimal, precDigits int) *Decimal {
	return truncateToDigits(d.Mult(other), precDigits)
}

// AddAt returns d + other truncated to at least precDigits significant
// decimal digits (the cut is rounded up to the next limb boundary).
func (d *Decimal) AddAt(other *Decimal, precDigits int) *Decimal {
	return truncateToDigits(d.Add(other), precDigits)
}

// SubAt returns d - other truncated to at least precDigits significant
// decimal digits (the cut is rounded up to the next limb boundary).
func (d *Decimal) SubAt(other *Decimal, precDigits int) *Decimal {
	return truncateToDigits(d.Sub(other), precDigits)
}

// Fix returns the integer part of d (fractional limbs dropped).
func (d *Decimal) Fix() *Decimal {
	if d.Exponent <= 0 || d.Prec == 0 {
		return NewZero(d.Sign, 0)
	}
	n := d.Exponent
	if n > d.Prec {
		n = d.Prec
	}
	r := &Decimal{Sign: d.Sign, Frac: make([]uint32, n), Prec: n, Exponent: d.Exponent}
	copy(r.Frac, d.Frac[:n])
	r.Normalize()
	r.Sign = d.Sign
	return r
}

// Frac_ returns the fractional part of d (d minus its integer part). The
// trailing underscore avoids colliding with the Frac field.
func (d *Decimal) Frac_() *Decimal {
	return d.Sub(d.Fix())
}

// RoundDownMid rounds d down to its integer part in place.
func (d *Decimal) RoundDownMid() {
	fixed := d.Fix()
	d.Frac = fixed.Frac
	d.Prec = fixed.Prec
	d.Exponent = fixed.Exponent
	d.Sign = fixed.Sign
}

// Lt reports whether d < other (signed comparison).
func (d *Decimal) Lt(other *Decimal) bool {
	return signedCmp(d, other) < 0
}

// Ge reports whether d >= other (signed comparison).
func (d *Decimal) Ge(other *Decimal) bool {
	return signedCmp(d, other) >= 0
}

func signedCmp(a, b *Decimal) int {
	as, bs := a.Sign, b.Sign
	if a.IsZero() {
		as = 1
	}
	if b.IsZero() {
		bs = 1
	}
	if a.IsZero() && b.IsZero() {
		return 0
	}
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
	c := magnitudeCmp(a, b)
	if as < 0 {
		c = -c
	}
	return c
}

// ExponentDigits returns d's exponent expressed in decimal digits at limb
// granularity (Exponent * FigsPerLimb), which divmod_newton reads
// x_digits/y_digits from. Unlike Ruby's BigDecimal#exponent it does not
// discount leading zero digits of the most significant limb.
func (d *Decimal) ExponentDigits() int {
	return d.Exponent * FigsPerLimb
}

// DecimalShift returns d shifted by kDigits decimal digits (positive shifts
// multiply by 10^kDigits). kDigits must be a multiple of FigsPerLimb; the
// kernels in this module never shift by anything else.
func (d *Decimal) DecimalShift(kDigits int) *Decimal {
	if kDigits%FigsPerLimb != 0 {
		panic(ErrShiftNotLimbAligned)
	}
	r := d.Clone()
	if r.Prec > 0 {
		r.Exponent += kDigits / FigsPerLimb
	}
	return r
}

// multiplyMagnitudes computes the schoolbook (or NTT-dispatched) product of
// two most-significant-first base-Base limb vectors.
func multiplyMagnitudes(a, b []uint32) []uint32 {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) > nttDispatchThreshold {
		if product, err := multiplyViaNTT(a, b); err == nil {
			return product
		}
	}
	out := make([]uint32, len(a)+len(b))
	for j := len(b) - 1; j >= 0; j-- {
		if b[j] == 0 {
			continue
		}
		var carry uint64
		bj := uint64(b[j])
		for i := len(a) - 1; i >= 0; i-- {
			idx := i + j + 1
			sum := uint64(out[idx]) + uint64(a[i])*bj + carry
			out[idx] = uint32(sum % Base)
			carry = sum / Base
		}
		k := j
		for carry > 0 {
			sum := uint64(out[k]) + carry
			out[k] = uint32(sum % Base)
			carry = sum / Base
			k--
		}
	}
	return out
}
