package uniswapv2

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
	bigTen  = big.NewInt(10)
	big100  = big.NewInt(100)
)

// Fraction is an exact rational number backed by arbitrary-precision integers.
// The denominator is always positive. A Fraction is immutable: every operation
// returns a new value and never aliases the receiver's integers.
type Fraction struct {
	num *big.Int
	den *big.Int
}

// NewFraction returns num/den. It panics with ErrDivisionByZero when den is
// zero, mirroring big.Rat.
func NewFraction(num, den *big.Int) Fraction {
	if den.Sign() == 0 {
		panic(ErrDivisionByZero)
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return Fraction{num: n, den: d}
}

// FractionFromInt returns n/1.
func FractionFromInt(n *big.Int) Fraction {
	return NewFraction(n, bigOne)
}

// FractionFromInt64 returns num/den for small constants.
func FractionFromInt64(num, den int64) Fraction {
	return NewFraction(big.NewInt(num), big.NewInt(den))
}

// PercentFromBps returns bps/10000.
func PercentFromBps(bps int64) Fraction {
	return FractionFromInt64(bps, BpsDenominator)
}

func (f Fraction) isZeroValue() bool { return f.den == nil }

func (f Fraction) parts() (*big.Int, *big.Int) {
	if f.isZeroValue() {
		return bigZero, bigOne
	}
	return f.num, f.den
}

// Numerator returns a copy of the numerator.
func (f Fraction) Numerator() *big.Int {
	n, _ := f.parts()
	return new(big.Int).Set(n)
}

// Denominator returns a copy of the denominator.
func (f Fraction) Denominator() *big.Int {
	_, d := f.parts()
	return new(big.Int).Set(d)
}

// Sign returns -1, 0 or +1.
func (f Fraction) Sign() int {
	n, _ := f.parts()
	return n.Sign()
}

// Add returns f + o.
func (f Fraction) Add(o Fraction) Fraction {
	an, ad := f.parts()
	bn, bd := o.parts()
	if ad.Cmp(bd) == 0 {
		return NewFraction(new(big.Int).Add(an, bn), ad)
	}
	l := new(big.Int).Mul(an, bd)
	r := new(big.Int).Mul(bn, ad)
	return NewFraction(l.Add(l, r), new(big.Int).Mul(ad, bd))
}

// Sub returns f - o.
func (f Fraction) Sub(o Fraction) Fraction {
	an, ad := f.parts()
	bn, bd := o.parts()
	if ad.Cmp(bd) == 0 {
		return NewFraction(new(big.Int).Sub(an, bn), ad)
	}
	l := new(big.Int).Mul(an, bd)
	r := new(big.Int).Mul(bn, ad)
	return NewFraction(l.Sub(l, r), new(big.Int).Mul(ad, bd))
}

// Mul returns f * o.
func (f Fraction) Mul(o Fraction) Fraction {
	an, ad := f.parts()
	bn, bd := o.parts()
	return NewFraction(new(big.Int).Mul(an, bn), new(big.Int).Mul(ad, bd))
}

// MulInt multiplies by an integer.
func (f Fraction) MulInt(n *big.Int) Fraction {
	an, ad := f.parts()
	return NewFraction(new(big.Int).Mul(an, n), ad)
}

// Div panics with ErrDivisionByZero when o is zero.
func (f Fraction) Div(o Fraction) Fraction {
	an, ad := f.parts()
	bn, bd := o.parts()
	return NewFraction(new(big.Int).Mul(an, bd), new(big.Int).Mul(ad, bn))
}

// Invert panics with ErrDivisionByZero when f is zero.
func (f Fraction) Invert() Fraction {
	n, d := f.parts()
	return NewFraction(d, n)
}

// Abs returns |f|.
func (f Fraction) Abs() Fraction {
	n, d := f.parts()
	return NewFraction(new(big.Int).Abs(n), d)
}

// Cmp compares f and o and returns -1, 0 or +1.
func (f Fraction) Cmp(o Fraction) int {
	an, ad := f.parts()
	bn, bd := o.parts()
	l := new(big.Int).Mul(an, bd)
	r := new(big.Int).Mul(bn, ad)
	return l.Cmp(r)
}

// LessThan reports whether f < o.
func (f Fraction) LessThan(o Fraction) bool { return f.Cmp(o) < 0 }

// Equal reports whether f and o denote the same value.
func (f Fraction) Equal(o Fraction) bool { return f.Cmp(o) == 0 }

// Quotient returns floor(num/den).
func (f Fraction) Quotient() *big.Int {
	n, d := f.parts()
	// Euclidean division floors for a positive divisor.
	return new(big.Int).Div(n, d)
}

// CeilQuotient returns ceil(num/den).
func (f Fraction) CeilQuotient() *big.Int {
	n, d := f.parts()
	q, m := new(big.Int).DivMod(n, d, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, bigOne)
	}
	return q
}

// ToFixed renders f with exactly places decimal places, rounding half up
// (away from zero on ties).
func (f Fraction) ToFixed(places int) string {
	if places < 0 {
		places = 0
	}
	r := f.roundAt(places)
	return decimal.NewFromBigInt(r, int32(-places)).StringFixed(int32(places))
}

// ToSignificant renders f with at most digits significant digits, rounding
// half up. Trailing zeros after the decimal point are dropped.
func (f Fraction) ToSignificant(digits int) string {
	if digits < 1 {
		digits = 1
	}
	if f.Sign() == 0 {
		return "0"
	}
	places := digits - 1 - f.magnitude()
	r := f.roundAt(places)
	return decimal.NewFromBigInt(r, int32(-places)).String()
}

// magnitude returns e such that 10^e <= |f| < 10^(e+1). f must be non-zero.
func (f Fraction) magnitude() int {
	n, d := f.parts()
	an := new(big.Int).Abs(n)
	ip := new(big.Int).Quo(an, d)
	if ip.Sign() > 0 {
		return len(ip.String()) - 1
	}
	e := 0
	for an.Cmp(d) < 0 {
		an.Mul(an, bigTen)
		e--
	}
	return e
}

// roundAt returns round(f * 10^places) with ties away from zero. places may
// be negative.
func (f Fraction) roundAt(places int) *big.Int {
	n, d := f.parts()
	an := new(big.Int).Abs(n)
	den := new(big.Int).Set(d)
	if places >= 0 {
		an.Mul(an, new(big.Int).Exp(bigTen, big.NewInt(int64(places)), nil))
	} else {
		den.Mul(den, new(big.Int).Exp(bigTen, big.NewInt(int64(-places)), nil))
	}
	q, r := new(big.Int).QuoRem(an, den, new(big.Int))
	if r.Mul(r, bigTwo).Cmp(den) >= 0 {
		q.Add(q, bigOne)
	}
	if n.Sign() < 0 {
		q.Neg(q)
	}
	return q
}

// String renders f as "num/den".
func (f Fraction) String() string {
	n, d := f.parts()
	return n.String() + "/" + d.String()
}
