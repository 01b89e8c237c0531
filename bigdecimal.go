// Package bigdecimal exposes the two performance-critical kernels behind an
// arbitrary-precision decimal arithmetic library: NTT-based multiplication
// of base-1e9 limb vectors, and Newton-Raphson division with remainder over
// the decimal collaborator type in package decimal.
package bigdecimal

import (
	"github.com/luxfi/bigdecimal/decimal"
	"github.com/luxfi/bigdecimal/newtondiv"
	"github.com/luxfi/bigdecimal/ntt"
)

// Multiply returns the exact base-1e9 product of a and b (both
// most-significant-limb-first), delegating to the three-prime NTT kernel.
// It returns ntt.ErrSizeTooLarge if the shorter operand has more than 2^26
// limbs.
func Multiply(a, b []uint32) ([]uint32, error) {
	return ntt.Multiply(a, b)
}

// DivMod divides the signed decimal a by b, computing a quotient truncated
// toward zero to quotientPrecLimbs or quotientPrecLimbs+1 significant limbs
// and the exact remainder a - q*b, via Newton-Raphson reciprocal approximation and
// block-wise multiply-and-correct. It returns newtondiv.ErrDivisionByZero
// if b is zero.
func DivMod(a, b *decimal.Decimal, quotientPrecLimbs int) (q, r *decimal.Decimal, err error) {
	if quotientPrecLimbs < 1 {
		quotientPrecLimbs = 1
	}
	c := decimal.NewZero(1, quotientPrecLimbs+1)
	remCap := a.Prec + b.Prec + 1
	rem := decimal.NewZero(1, remCap)
	if err := newtondiv.VpDivdNewton(c, rem, a, b); err != nil {
		return nil, nil, err
	}
	return c, rem, nil
}
