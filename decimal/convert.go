package decimal

import (
	"fmt"
	"strings"
)

// FromUint64 builds an integer-valued Decimal from a uint64 magnitude.
func FromUint64(sign int, v uint64) *Decimal {
	if v == 0 {
		return NewZero(sign, 0)
	}
	var limbs []uint32
	for v > 0 {
		limbs = append([]uint32{uint32(v % Base)}, limbs...)
		v /= Base
	}
	d := &Decimal{Sign: sign, Frac: limbs, Prec: len(limbs), Exponent: len(limbs)}
	d.Normalize()
	return d
}

// FromDigits builds an integer-valued Decimal directly from a sequence of
// decimal digits (most significant first), as produced by a test fixture
// or an external parser. It does not interpret signs or a decimal point.
func FromDigits(sign int, digits string) (*Decimal, error) {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return NewZero(sign, 0), nil
	}
	n := (len(digits) + FigsPerLimb - 1) / FigsPerLimb
	limbs := make([]uint32, n)
	end := len(digits)
	for i := n - 1; i >= 0; i-- {
		start := end - FigsPerLimb
		if start < 0 {
			start = 0
		}
		var v uint32
		if _, err := fmt.Sscanf(digits[start:end], "%d", &v); err != nil {
			return nil, fmt.Errorf("decimal: invalid digit run %q: %w", digits[start:end], err)
		}
		limbs[i] = v
		end = start
	}
	d := &Decimal{Sign: sign, Frac: limbs, Prec: n, Exponent: n}
	d.Normalize()
	return d, nil
}

// String renders d as a plain decimal integer-and-fraction string, for
// diagnostics and tests. It is not a parser-compatible inverse of any
// particular host language's BigDecimal#to_s.
func (d *Decimal) String() string {
	if d.IsZero() {
		return "0"
	}
	var sb strings.Builder
	if d.Sign < 0 {
		sb.WriteByte('-')
	}
	intLimbs := d.Exponent
	if intLimbs <= 0 {
		sb.WriteString("0.")
		for i := 0; i < -intLimbs; i++ {
			fmt.Fprintf(&sb, "%09d", 0)
		}
		for i := 0; i < d.Prec; i++ {
			fmt.Fprintf(&sb, "%09d", d.Frac[i])
		}
		return sb.String()
	}
	for i := 0; i < d.Prec; i++ {
		if i == intLimbs {
			sb.WriteByte('.')
		}
		if i == 0 {
			fmt.Fprintf(&sb, "%d", d.Frac[i])
		} else {
			fmt.Fprintf(&sb, "%09d", d.Frac[i])
		}
	}
	for i := d.Prec; i < intLimbs; i++ {
		sb.WriteString("000000000")
	}
	return sb.String()
}
