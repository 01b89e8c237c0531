package newtondiv

import (
	"math/big"
	"testing"

	"github.com/luxfi/bigdecimal/decimal"
	"github.com/luxfi/bigdecimal/fixtures"
)

// decimalFromLimbs builds an integer-valued Decimal directly from
// most-significant-limb-first limbs, as produced by a seeded fixtures.Stream.
func decimalFromLimbs(sign int, limbs []uint32) *decimal.Decimal {
	d := &decimal.Decimal{Sign: sign, Frac: limbs, Prec: len(limbs), Exponent: len(limbs)}
	d.Normalize()
	return d
}

func decimalToRat(d *decimal.Decimal) *big.Rat {
	frac, prec, exponent, sign := d.Value()
	intVal := new(big.Int)
	base := big.NewInt(decimal.Base)
	for _, l := range frac {
		intVal.Mul(intVal, base)
		intVal.Add(intVal, big.NewInt(int64(l)))
	}
	r := new(big.Rat).SetInt(intVal)
	power := exponent - prec
	if power > 0 {
		scale := new(big.Int).Exp(base, big.NewInt(int64(power)), nil)
		r.Mul(r, new(big.Rat).SetInt(scale))
	} else if power < 0 {
		scale := new(big.Int).Exp(base, big.NewInt(int64(-power)), nil)
		r.Quo(r, new(big.Rat).SetInt(scale))
	}
	if sign < 0 {
		r.Neg(r)
	}
	return r
}

func TestReciprocalAccuracy(t *testing.T) {
	const prec = 25
	tolNum := new(big.Int).Exp(big.NewInt(10), big.NewInt(prec), nil)
	tolerance := new(big.Rat).SetFrac(big.NewInt(1), tolNum)

	stream := fixtures.NewStream(fixtures.Seed("reciprocal-accuracy", 0))
	for trial := 0; trial < 6; trial++ {
		x := decimalFromLimbs(1, stream.Limbs(1+trial%3))
		inv := ReciprocalNewtonRaphson(x, prec)

		got := new(big.Rat).Mul(decimalToRat(inv), decimalToRat(x))
		diff := new(big.Rat).Sub(got, big.NewRat(1, 1))
		diff.Abs(diff)

		if diff.Cmp(tolerance) >= 0 {
			t.Fatalf("trial %d: ReciprocalNewtonRaphson(%v, %d): |inv*x - 1| = %v, want < %v", trial, x, prec, diff, tolerance)
		}
	}
}

func TestReciprocalConcreteS5(t *testing.T) {
	x := decimal.FromUint64(1, 3)
	inv := ReciprocalNewtonRaphson(x, 20)
	want, _ := new(big.Rat).SetString("1/3")
	got := decimalToRat(inv)
	diff := new(big.Rat).Sub(got, want)
	diff.Abs(diff)
	tolerance := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil))
	if diff.Cmp(tolerance) >= 0 {
		t.Fatalf("newton_raphson_inverse(3, 20) = %v, want within %v of 1/3", got, tolerance)
	}
}

func TestDivModNewtonLaw(t *testing.T) {
	stream := fixtures.NewStream(fixtures.Seed("divmod-newton-law", 0))
	for trial := 0; trial < 6; trial++ {
		x := decimalFromLimbs(1, stream.Limbs(1+trial%4))
		y := decimalFromLimbs(1, stream.Limbs(1+(trial*2)%3))
		q, r := DivModNewton(x, y)

		lhs := new(big.Rat).Mul(decimalToRat(q), decimalToRat(y))
		lhs.Add(lhs, decimalToRat(r))
		if lhs.Cmp(decimalToRat(x)) != 0 {
			t.Fatalf("trial %d: DivModNewton(%v, %v): q*y+r = %v, want %v", trial, x, y, lhs, decimalToRat(x))
		}
		if decimalToRat(r).Sign() < 0 || decimalToRat(r).Cmp(decimalToRat(y)) >= 0 {
			t.Fatalf("trial %d: DivModNewton(%v, %v): remainder %v out of range [0, %v)", trial, x, y, decimalToRat(r), decimalToRat(y))
		}
		if decimalToRat(q).Sign() < 0 {
			t.Fatalf("trial %d: DivModNewton(%v, %v): negative quotient %v", trial, x, y, decimalToRat(q))
		}
	}
}

func TestDivModNewtonConcreteS4(t *testing.T) {
	digits := "1" + stringsRepeat("0", 50)
	x, err := decimal.FromDigits(1, digits)
	if err != nil {
		t.Fatal(err)
	}
	y := decimal.FromUint64(1, 7)
	q, r := DivModNewton(x, y)

	wantX, _ := new(big.Int).SetString(digits, 10)
	qInt, _ := new(big.Int).SetString(decimalToRat(q).RatString(), 10)
	rInt, _ := new(big.Int).SetString(decimalToRat(r).RatString(), 10)
	check := new(big.Int).Mul(qInt, big.NewInt(7))
	check.Add(check, rInt)
	if check.Cmp(wantX) != 0 {
		t.Fatalf("DivModNewton(10^50, 7): q*7+r = %v, want %v", check, wantX)
	}
	if rInt.Int64() != 2 {
		t.Fatalf("DivModNewton(10^50, 7): r = %v, want 2", rInt)
	}
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestVpDivdNewtonSignLawS6(t *testing.T) {
	pl := decimal.GetPrecLimit()
	decimal.SetPrecLimit(12345)
	defer decimal.SetPrecLimit(pl)
	before := decimal.GetPrecLimit()

	a := decimal.FromUint64(1, 1)
	a.SetSign(-1)
	b := decimal.FromUint64(1, 3)

	c := decimal.NewZero(1, 41)
	r := decimal.NewZero(1, 8)
	if err := VpDivdNewton(c, r, a, b); err != nil {
		t.Fatalf("VpDivdNewton: %v", err)
	}

	if c.Sign != a.Sign*b.Sign {
		t.Fatalf("quotient sign = %d, want %d", c.Sign, a.Sign*b.Sign)
	}
	if r.Sign != a.Sign && !r.IsZero() {
		t.Fatalf("remainder sign = %d, want %d", r.Sign, a.Sign)
	}

	lhs := new(big.Rat).Mul(decimalToRat(c), decimalToRat(b))
	lhs.Add(lhs, decimalToRat(r))
	if lhs.Cmp(decimalToRat(a)) != 0 {
		t.Fatalf("VpDivdNewton: q*b+r = %v, want %v", lhs, decimalToRat(a))
	}

	after := decimal.GetPrecLimit()
	if after != before {
		t.Fatalf("precision limit not restored: before=%d after=%d", before, after)
	}
}

func TestVpDivdNewtonRestoresPrecLimitOnError(t *testing.T) {
	pl := decimal.GetPrecLimit()
	decimal.SetPrecLimit(99)
	defer decimal.SetPrecLimit(pl)
	before := decimal.GetPrecLimit()

	a := decimal.FromUint64(1, 5)
	zero := decimal.NewZero(1, 0)
	c := decimal.NewZero(1, 4)
	r := decimal.NewZero(1, 4)
	if err := VpDivdNewton(c, r, a, zero); err != ErrDivisionByZero {
		t.Fatalf("VpDivdNewton with zero divisor: got err=%v, want ErrDivisionByZero", err)
	}
	if decimal.GetPrecLimit() != before {
		t.Fatalf("precision limit not restored after error: before=%d after=%d", before, decimal.GetPrecLimit())
	}
}

func TestDivModByInvMulCorrectionBound(t *testing.T) {
	y := decimal.FromUint64(1, 97)
	inv := ReciprocalNewtonRaphson(y, 12)
	for v := uint64(0); v < 400; v++ {
		x := decimal.FromUint64(1, v)
		div, mod := divModByInvMul(x, y, inv)
		est := x.Mult(inv).Fix()
		steps := new(big.Rat).Sub(decimalToRat(div), decimalToRat(est))
		steps.Abs(steps)
		if steps.Cmp(big.NewRat(4, 1)) > 0 {
			t.Fatalf("divModByInvMul(%d, 97): %v correction steps, want at most 4", v, steps)
		}
		if isNegative(mod) || mod.Ge(y) {
			t.Fatalf("divModByInvMul(%d, 97): mod %v out of range", v, decimalToRat(mod))
		}
		lhs := new(big.Rat).Mul(decimalToRat(div), decimalToRat(y))
		lhs.Add(lhs, decimalToRat(mod))
		if lhs.Cmp(decimalToRat(x)) != 0 {
			t.Fatalf("divModByInvMul(%d, 97): div*97+mod = %v, want %d", v, lhs, v)
		}
	}
}
