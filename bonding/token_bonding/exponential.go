package token_bonding

import (
	"fmt"

	"github.com/krazyTry/strata-go/decimal_math"
	"github.com/shopspring/decimal"
)

// ExponentialCurve prices a single bonding with c*S^k + b where k is either
// fixed or decays over time.
type ExponentialCurve struct {
	c decimal.Decimal
	b decimal.Decimal

	k0       decimal.Decimal
	k1       decimal.Decimal
	d        decimal.Decimal
	interval int64
	decays   bool
	// start of the decay schedule
	start int64

	reserveBalance decimal.Decimal
	supply         decimal.Decimal
}

var _ PricingCurve = (*ExponentialCurve)(nil)

func newExponentialCurve(def PrimitiveCurve, reserveBalance, supply decimal.Decimal, start int64) (*ExponentialCurve, error) {
	curve := &ExponentialCurve{
		reserveBalance: reserveBalance,
		supply:         supply,
		start:          start,
	}
	switch c := def.(type) {
	case ExponentialCurveV0:
		curve.c = CoefficientToDecimal(c.C)
		curve.b = CoefficientToDecimal(c.B)
		curve.k0 = decimal.NewFromInt(int64(c.Pow)).DivRound(decimal.NewFromInt(int64(c.Frac)), DivScale)
		curve.k1 = curve.k0
	case TimeDecayExponentialCurveV0:
		curve.c = CoefficientToDecimal(c.C)
		curve.b = decimal.Zero
		curve.k0 = CoefficientToDecimal(c.K0)
		curve.k1 = CoefficientToDecimal(c.K1)
		curve.d = CoefficientToDecimal(c.D)
		curve.interval = int64(c.Interval)
		curve.decays = true
	default:
		return nil, fmt.Errorf("%w: unknown primitive curve %T", ErrInvalidCurveConfiguration, def)
	}
	return curve, nil
}

// K returns the exponent in effect at unixTime.
//
//	k(t) = k0 - (k0 - k1) * min(1, elapsed/interval)^d
func (e *ExponentialCurve) K(unixTime int64) (decimal.Decimal, error) {
	if !e.decays {
		return e.k0, nil
	}
	elapsed := max(unixTime-e.start, 0)
	if e.interval == 0 || elapsed >= e.interval {
		return e.k1, nil
	}
	ratio := decimal.NewFromInt(elapsed).DivRound(decimal.NewFromInt(e.interval), DivScale)
	progress, err := decimal_math.Pow(ratio, e.d, PowScale)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return e.k0.Sub(e.k0.Sub(e.k1).Mul(progress)), nil
}

func (e *ExponentialCurve) Locked() decimal.Decimal {
	return e.reserveBalance
}

func (e *ExponentialCurve) Current(unixTime int64, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal) (decimal.Decimal, error) {
	return e.changeInTargetAmount(one, baseRoyaltiesPercent, targetRoyaltiesPercent, unixTime)
}

func (e *ExponentialCurve) BuyTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	if targetAmount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidAmount, targetAmount)
	}
	return e.changeInTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent, unixTime)
}

func (e *ExponentialCurve) SellTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	if targetAmount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidAmount, targetAmount)
	}
	if err := checkRoyalties(baseRoyaltiesPercent, targetRoyaltiesPercent); err != nil {
		return decimal.Decimal{}, err
	}
	dS := targetAmount.Mul(one.Sub(targetRoyaltiesPercent)).Neg()
	change, err := e.changeInTargetAmount(dS, decimal.Zero, decimal.Zero, unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return change.Neg().Mul(one.Sub(baseRoyaltiesPercent)), nil
}

func (e *ExponentialCurve) BuyWithBaseAmount(baseAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	if baseAmount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidAmount, baseAmount)
	}
	if err := checkRoyalties(baseRoyaltiesPercent, targetRoyaltiesPercent); err != nil {
		return decimal.Decimal{}, err
	}
	k, err := e.K(unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	kPlusOne := k.Add(one)
	invKPlusOne := one.DivRound(kPlusOne, DivScale)
	dR := baseAmount.Mul(one.Sub(baseRoyaltiesPercent))
	R, S := e.reserveBalance, e.supply

	var dS decimal.Decimal
	switch {
	case R.IsZero() || S.IsZero():
		switch {
		case e.b.IsZero():
			// dS = (dR * (1+k) / c)^(1/(1+k))
			dS, err = decimal_math.Pow(dR.Mul(kPlusOne).DivRound(e.c, DivScale), invKPlusOne, PowScale)
			if err != nil {
				return decimal.Decimal{}, err
			}
		case e.c.IsZero():
			dS = dR.DivRound(e.b, DivScale)
		default:
			return decimal.Decimal{}, unsolvable("buyWithBaseAmount")
		}
	case e.b.IsZero():
		// dS = S * (((R+dR) / R)^(1/(1+k)) - 1)
		growth, err := decimal_math.Pow(R.Add(dR).DivRound(R, DivScale), invKPlusOne, PowScale)
		if err != nil {
			return decimal.Decimal{}, err
		}
		dS = S.Mul(growth.Sub(one))
	case e.c.IsZero():
		dS = S.Mul(dR).DivRound(R, DivScale)
	default:
		return decimal.Decimal{}, unsolvable("buyWithBaseAmount")
	}
	return dS.Mul(one.Sub(targetRoyaltiesPercent)), nil
}

// changeInTargetAmount is the reserve change for a supply change of targetAmount,
// grossed up so targetAmount arrives after royalties.
func (e *ExponentialCurve) changeInTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	if err := checkRoyalties(baseRoyaltiesPercent, targetRoyaltiesPercent); err != nil {
		return decimal.Decimal{}, err
	}
	k, err := e.K(unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	kPlusOne := k.Add(one)
	dS := targetAmount.DivRound(one.Sub(targetRoyaltiesPercent), DivScale)
	R, S := e.reserveBalance, e.supply

	var dR decimal.Decimal
	switch {
	case R.IsZero() || S.IsZero():
		if dS.IsNegative() {
			return decimal.Decimal{}, fmt.Errorf("%w: curve holds no reserve", ErrInsufficientLiquidity)
		}
		if !e.b.IsZero() && !e.c.IsZero() {
			return decimal.Decimal{}, unsolvable("changeInTargetAmount")
		}
		// dR = b*dS + c*dS^(1+k)/(1+k)
		p, err := decimal_math.Pow(dS, kPlusOne, PowScale)
		if err != nil {
			return decimal.Decimal{}, err
		}
		dR = e.b.Mul(dS).Add(e.c.Mul(p).DivRound(kPlusOne, DivScale))
	case e.b.IsZero():
		next := S.Add(dS)
		if next.IsNegative() {
			return decimal.Decimal{}, fmt.Errorf("%w: supply %s cannot cover %s", ErrInsufficientLiquidity, S, dS.Neg())
		}
		// dR = R * (((S+dS) / S)^(1+k) - 1)
		growth, err := decimal_math.Pow(next.DivRound(S, DivScale), kPlusOne, PowScale)
		if err != nil {
			return decimal.Decimal{}, err
		}
		dR = R.Mul(growth.Sub(one))
	case e.c.IsZero():
		if S.Add(dS).IsNegative() {
			return decimal.Decimal{}, fmt.Errorf("%w: supply %s cannot cover %s", ErrInsufficientLiquidity, S, dS.Neg())
		}
		dR = R.Mul(dS).DivRound(S, DivScale)
	default:
		return decimal.Decimal{}, unsolvable("changeInTargetAmount")
	}
	return dR.DivRound(one.Sub(baseRoyaltiesPercent), DivScale), nil
}

func checkRoyalties(percents ...decimal.Decimal) error {
	for _, p := range percents {
		if p.IsNegative() || !p.LessThan(one) {
			return fmt.Errorf("%w: %s", ErrInvalidRoyalty, p)
		}
	}
	return nil
}
