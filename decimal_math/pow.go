package decimal_math

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// guardDigits are carried past the requested scale while iterating.
	guardDigits = 16
	// maxLeadingZeros caps the extra places Pow spends on results far below one.
	maxLeadingZeros = 256
)

var (
	ErrLnDomain  = errors.New("ln undefined for <= 0")
	ErrPowDomain = errors.New("pow undefined for base and exponent")

	one  = decimal.NewFromInt(1)
	two  = decimal.NewFromInt(2)
	half = decimal.New(5, -1)

	// y is pulled into [lnLower, lnUpper] by square roots before the series runs
	lnLower = decimal.New(9, -1)
	lnUpper = decimal.New(11, -1)

	ln10 = decimal.RequireFromString("2.302585092994045684017991454684364207601")
)

// Pow returns base^exponent for any real exponent, keeping scale decimal places.
// Integer exponents use exact multiplication; fractional ones go through exp(ln(base)*exponent)
// and keep scale places past the leading zeros of a result below one.
func Pow(base, exponent decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if exponent.IsZero() {
		return one, nil
	}
	if base.IsZero() {
		if exponent.IsNegative() {
			return decimal.Decimal{}, ErrPowDomain
		}
		return decimal.Zero, nil
	}
	if base.Equal(one) {
		return one, nil
	}

	if exponent.Equal(exponent.Truncate(0)) {
		if exponent.IsNegative() {
			return one.DivRound(base.Pow(exponent.Neg()), scale), nil
		}
		return base.Pow(exponent), nil
	}

	if base.IsNegative() {
		return decimal.Decimal{}, ErrPowDomain
	}

	work := scale + guardDigits
	lnBase, err := Ln(base, work)
	if err != nil {
		return decimal.Decimal{}, err
	}
	power := lnBase.Mul(exponent)
	if power.IsNegative() {
		leading := power.Neg().DivRound(ln10, 0).IntPart() + 1
		if leading > maxLeadingZeros {
			leading = maxLeadingZeros
		}
		scale += int32(leading)
		work += int32(leading)
	}
	result, err := Exp(power, work)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return result.Round(scale), nil
}

// Ln is the natural logarithm.
func Ln(x decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if x.Sign() <= 0 {
		return decimal.Decimal{}, ErrLnDomain
	}
	if x.Equal(one) {
		return decimal.Zero, nil
	}

	work := scale + guardDigits
	bits := precisionBits(work)

	// ln(x) = 2^n * ln(x^(1/2^n))
	y := x
	n := 0
	for (y.LessThan(lnLower) || y.GreaterThan(lnUpper)) && n < 256 {
		var err error
		if y, err = Sqrt(y, bits); err != nil {
			return decimal.Decimal{}, err
		}
		n++
	}

	// ln(y) = 2 * atanh((y-1)/(y+1))
	z := y.Sub(one).DivRound(y.Add(one), work)
	z2 := z.Mul(z).Round(work)
	epsilon := decimal.New(1, -work)

	sum := z
	term := z
	for i := int64(3); i < 10000; i += 2 {
		term = term.Mul(z2).Round(work)
		next := term.DivRound(decimal.NewFromInt(i), work)
		if next.Abs().LessThan(epsilon) {
			break
		}
		sum = sum.Add(next)
	}

	result := sum.Mul(two)
	for ; n > 0; n-- {
		result = result.Mul(two)
	}
	return result.Round(scale), nil
}

// Exp is e^x.
func Exp(x decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if x.IsZero() {
		return one, nil
	}

	// e^-x = 1/e^x keeps the squaring below on values above one
	if x.IsNegative() {
		inv, err := Exp(x.Neg(), scale+guardDigits)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return one.DivRound(inv, scale), nil
	}

	work := scale + guardDigits
	epsilon := decimal.New(1, -work)

	// e^x = (e^(x/2^n))^(2^n)
	r := x
	n := 0
	for r.Abs().GreaterThan(half) {
		r = r.DivRound(two, work)
		n++
		if n > 4096 {
			return decimal.Decimal{}, errors.New("exp argument out of range")
		}
	}

	sum := one
	term := one
	for i := int64(1); i < 10000; i++ {
		term = term.Mul(r).DivRound(decimal.NewFromInt(i), work)
		if term.Abs().LessThan(epsilon) {
			break
		}
		sum = sum.Add(term)
	}

	for ; n > 0; n-- {
		sum = sum.Mul(sum).Round(work)
	}
	return sum.Round(scale), nil
}

func precisionBits(digits int32) uint {
	// log2(10) < 3.33
	return uint(digits)*10/3 + 64
}
