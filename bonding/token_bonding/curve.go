package token_bonding

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
)

// Curve is the on-chain curve definition. It is one of ExponentialCurveV0,
// TimeDecayExponentialCurveV0 or TimeCurveV0.
type Curve interface {
	isCurve()
	Validate() error
}

// PrimitiveCurve is a curve that can be a segment of a TimeCurveV0.
type PrimitiveCurve interface {
	Curve
	isPrimitive()
}

// ExponentialCurveV0 prices with c*S^(pow/frac) + b.
type ExponentialCurveV0 struct {
	C    bin.Uint128
	B    bin.Uint128
	Pow  uint8
	Frac uint8
}

// TimeDecayExponentialCurveV0 prices with c*S^k(t), k decaying from K0 to K1
// over Interval seconds with degree D.
type TimeDecayExponentialCurveV0 struct {
	C        bin.Uint128
	K0       bin.Uint128
	K1       bin.Uint128
	D        bin.Uint128
	Interval uint32
}

type TransitionFee struct {
	Percentage uint32
	Interval   uint32
}

type TimeCurveEntry struct {
	// Offset is seconds after go live.
	Offset             int64
	Curve              PrimitiveCurve
	BuyTransitionFees  *TransitionFee
	SellTransitionFees *TransitionFee
}

type TimeCurveV0 struct {
	Curves []TimeCurveEntry
}

func (ExponentialCurveV0) isCurve()              {}
func (ExponentialCurveV0) isPrimitive()          {}
func (TimeDecayExponentialCurveV0) isCurve()     {}
func (TimeDecayExponentialCurveV0) isPrimitive() {}
func (TimeCurveV0) isCurve()                     {}

func NewExponentialCurveV0(c, b bin.Uint128, pow, frac uint8) (ExponentialCurveV0, error) {
	curve := ExponentialCurveV0{C: c, B: b, Pow: pow, Frac: frac}
	if err := curve.Validate(); err != nil {
		return ExponentialCurveV0{}, err
	}
	return curve, nil
}

func NewTimeDecayExponentialCurveV0(c, k0, k1, d bin.Uint128, interval uint32) (TimeDecayExponentialCurveV0, error) {
	curve := TimeDecayExponentialCurveV0{C: c, K0: k0, K1: k1, D: d, Interval: interval}
	if err := curve.Validate(); err != nil {
		return TimeDecayExponentialCurveV0{}, err
	}
	return curve, nil
}

func NewTimeCurveV0(entries ...TimeCurveEntry) (TimeCurveV0, error) {
	curve := TimeCurveV0{Curves: entries}
	if err := curve.Validate(); err != nil {
		return TimeCurveV0{}, err
	}
	return curve, nil
}

func isZero128(v bin.Uint128) bool {
	return v.Lo == 0 && v.Hi == 0
}

func (e ExponentialCurveV0) Validate() error {
	switch {
	case !isZero128(e.B) && !isZero128(e.C):
		return unsolvable("exponential curve")
	case isZero128(e.B) && isZero128(e.C):
		return fmt.Errorf("%w: b and c are both zero", ErrInvalidCurveConfiguration)
	case e.Frac == 0:
		return fmt.Errorf("%w: frac is zero", ErrInvalidCurveConfiguration)
	}
	return nil
}

// Validate rejects a zero c and a zero degree over a non-zero interval, which
// would jump straight to K1. K1 above K0 is allowed and raises k over time.
func (e TimeDecayExponentialCurveV0) Validate() error {
	if isZero128(e.C) {
		return fmt.Errorf("%w: c is zero", ErrInvalidCurveConfiguration)
	}
	if isZero128(e.D) && e.Interval > 0 {
		return fmt.Errorf("%w: d is zero over a %ds interval", ErrInvalidCurveConfiguration, e.Interval)
	}
	return nil
}

func (e TimeCurveV0) Validate() error {
	if len(e.Curves) == 0 {
		return fmt.Errorf("%w: no segments", ErrMisconfiguredSegments)
	}
	if e.Curves[0].Offset != 0 {
		return fmt.Errorf("%w: first offset is %d", ErrMisconfiguredSegments, e.Curves[0].Offset)
	}
	for i, entry := range e.Curves {
		if entry.Curve == nil {
			return fmt.Errorf("%w: segment %d has no curve", ErrMisconfiguredSegments, i)
		}
		if i > 0 && entry.Offset < e.Curves[i-1].Offset {
			return fmt.Errorf("%w: offset %d of segment %d precedes %d", ErrMisconfiguredSegments, entry.Offset, i, e.Curves[i-1].Offset)
		}
		if err := entry.Curve.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

// PricingCurve prices one bonding at a fixed reserve and supply.
// Amounts and royalties are human units, royalties in [0, 1).
type PricingCurve interface {
	Current(unixTime int64, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal) (decimal.Decimal, error)
	Locked() decimal.Decimal
	SellTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error)
	BuyTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error)
	BuyWithBaseAmount(baseAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error)
}

// FromCurve builds the pricing curve for a curve definition.
func FromCurve(def Curve, reserveBalance, supply decimal.Decimal, goLiveUnixTime int64) (PricingCurve, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: missing curve", ErrInvalidCurveConfiguration)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if reserveBalance.IsNegative() || supply.IsNegative() {
		return nil, fmt.Errorf("%w: reserve %s supply %s", ErrInvalidAmount, reserveBalance, supply)
	}

	switch c := def.(type) {
	case TimeCurveV0:
		curve, err := newTimeCurve(c, reserveBalance, supply, goLiveUnixTime)
		if err != nil {
			return nil, err
		}
		return curve, nil
	case PrimitiveCurve:
		curve, err := newExponentialCurve(c, reserveBalance, supply, goLiveUnixTime)
		if err != nil {
			return nil, err
		}
		return curve, nil
	default:
		return nil, fmt.Errorf("%w: unknown curve %T", ErrInvalidCurveConfiguration, def)
	}
}
