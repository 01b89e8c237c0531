// Package newtondiv implements block-wise division with remainder over
// package decimal's arbitrary-precision values, using a Newton-Raphson
// approximation of the divisor's reciprocal in place of long division.
package newtondiv

import (
	"errors"

	"github.com/luxfi/bigdecimal/decimal"
	"github.com/luxfi/bigdecimal/limbutil"
)

// ErrDivisionByZero is returned by VpDivdNewton when the divisor is zero.
var ErrDivisionByZero = errors.New("newtondiv: division by zero")

func newOne() *decimal.Decimal {
	one := decimal.NewZero(1, 1)
	one.Frac[0] = 1
	one.Prec = 1
	one.Exponent = 1
	return one
}

// ReciprocalNewtonRaphson returns an approximation of 1/y accurate to at
// least prec decimal digits, computed by doubling precision across
// ceil(log2(prec))+1 Newton-Raphson iterations from a two-limb seed.
func ReciprocalNewtonRaphson(y *decimal.Decimal, prec int) *decimal.Decimal {
	one := newOne()

	frac, precY, exponentY, _ := y.Value()
	var frac0, frac1 uint64
	if len(frac) >= 1 {
		frac0 = uint64(frac[0])
	}
	if precY >= 2 {
		frac1 = uint64(frac[1])
	}

	numerator := uint64(decimal.Base) * 100
	denominator := frac0*100 + frac1*100/uint64(decimal.Base)

	inv0 := decimal.NewZero(1, 2)
	inv0.Frac[0] = uint32(numerator / denominator)
	inv0.Frac[1] = uint32((numerator % denominator) * (uint64(decimal.Base) / 100) / denominator * 100)
	inv0.Prec = 2
	inv0.Exponent = 1 - exponentY
	inv0.Normalize()

	inv := inv0

	bl := 1
	for (1 << uint(bl)) < prec {
		bl++
	}
	for i := bl; i >= 0; i-- {
		n := (prec >> uint(i)) + 2
		if n > prec {
			n = prec
		}
		scaledY := y.MultAt(one, n+1)
		oneMinusYInv := one.SubAt(scaledY.Mult(inv), n/2)
		inv = inv.AddAt(inv.Mult(oneMinusYInv), n)
	}
	return inv
}

func isNegative(d *decimal.Decimal) bool {
	return !d.IsZero() && d.Sign < 0
}

// divModByInvMul estimates x/y via x*inv, then corrects the estimate by at
// most a few unit steps against the exact divisor y.
func divModByInvMul(x, y, inv *decimal.Decimal) (div, mod *decimal.Decimal) {
	one := newOne()
	div = x.Mult(inv).Fix()
	mod = x.Sub(div.Mult(y))
	for isNegative(mod) {
		mod = mod.Add(y)
		div = div.Sub(one)
	}
	for mod.Ge(y) {
		mod = mod.Sub(y)
		div = div.Add(one)
	}
	return div, mod
}

// DivModNewton computes the quotient and remainder of the integer-valued
// decimals x and y (y != 0) by splitting x into fixed-size blocks and
// running divModByInvMul against a precomputed reciprocal of y.
func DivModNewton(x, y *decimal.Decimal) (*decimal.Decimal, *decimal.Decimal) {
	xDigits := x.ExponentDigits()
	yDigits := y.ExponentDigits()
	if xDigits <= yDigits {
		xDigits = yDigits + 1
	}

	n := xDigits / yDigits
	blockFigs := (xDigits-yDigits)/n/decimal.FigsPerLimb + 1
	blockDigits := blockFigs * decimal.FigsPerLimb
	numBlocks := (xDigits - yDigits + blockDigits - 1) / blockDigits
	yFigs := (yDigits-1)/decimal.FigsPerLimb + 1

	yinv := ReciprocalNewtonRaphson(y, blockDigits+1)

	divResult := decimal.NewZero(1, numBlocks*blockFigs+1)
	xFrac, xPrec, xExponent, _ := x.Value()

	mod := x.DecimalShift(-numBlocks * blockDigits).Fix()
	for i := numBlocks - 1; i >= 0; i-- {
		dividendFrac := make([]uint32, yFigs+blockFigs)
		modFrac, modPrec, modExponent, _ := mod.Value()
		limbutil.SliceCopy(dividendFrac[:yFigs], modFrac[:modPrec], modExponent, 0, yFigs)
		limbutil.SliceCopy(dividendFrac[yFigs:], xFrac[:xPrec], xExponent, i*blockFigs, blockFigs)

		dividend := &decimal.Decimal{
			Sign:     1,
			Frac:     dividendFrac,
			Prec:     yFigs + blockFigs,
			Exponent: yFigs + blockFigs,
		}
		dividend.Normalize()

		var div *decimal.Decimal
		div, mod = divModByInvMul(dividend, y, yinv)
		divFrac, divPrec, divExponent, _ := div.Value()
		offset := (numBlocks - i - 1) * blockFigs
		limbutil.SliceCopy(divResult.Frac[offset:], divFrac[:divPrec], divExponent, 0, blockFigs+1)
	}
	divResult.Prec = numBlocks*blockFigs + 1
	divResult.Exponent = numBlocks*blockFigs + 1
	divResult.Sign = 1
	divResult.Normalize()
	return divResult, mod
}

// vpDivdNewtonInner implements VpDivdNewtonInner: it scales a and b into
// integers sized by c's requested precision, divides, and writes the
// rescaled quotient and remainder into c and r.
func vpDivdNewtonInner(c, r, a, b *decimal.Decimal) {
	divPrec := cap(c.Frac) - 1
	if divPrec < 0 {
		divPrec = 0
	}
	basePrec := b.Prec

	a2 := a.Clone()
	b2 := b.Clone()
	a2.SetSign(1)
	b2.SetSign(1)
	a2.Exponent = basePrec + divPrec
	b2.Exponent = basePrec

	var a2Frac *decimal.Decimal
	if a2.Prec > a2.Exponent {
		a2Frac = a2.Frac_()
		a2.RoundDownMid()
	}

	div, mod := DivModNewton(a2, b2)
	if a2Frac != nil {
		mod = mod.Add(a2Frac)
	}

	c.Frac = div.Frac
	c.Prec = div.Prec
	c.Sign = a.Sign * b.Sign
	c.Exponent = div.Exponent + a.Exponent - b.Exponent - divPrec

	r.Frac = mod.Frac
	r.Prec = mod.Prec
	r.Sign = a.Sign
	r.Exponent = mod.Exponent + a.Exponent - basePrec - divPrec
}

// VpDivdNewton divides a by b, writing the quotient into c and the
// remainder into r. c's allocated capacity (cap(c.Frac)) determines how
// many quotient limbs are computed. The process-wide precision limit is
// cleared for the duration of the call and restored afterward, mirroring
// the scoped save/clear/restore the original C extension performs with
// rb_ensure.
func VpDivdNewton(c, r, a, b *decimal.Decimal) error {
	if b.IsZero() {
		return ErrDivisionByZero
	}
	pl := decimal.GetPrecLimit()
	decimal.SetPrecLimit(0)
	defer decimal.SetPrecLimit(pl)
	vpDivdNewtonInner(c, r, a, b)
	return nil
}
