package token_bonding

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TimeCurve switches between primitive curves as time passes. Segment i is
// active from goLive+offset onward; transition fees decay linearly after that.
type TimeCurve struct {
	goLiveUnixTime int64
	segments       []timeSegment
}

type timeSegment struct {
	offset   int64
	curve    *ExponentialCurve
	buyFees  *TransitionFee
	sellFees *TransitionFee
}

var _ PricingCurve = (*TimeCurve)(nil)

func newTimeCurve(def TimeCurveV0, reserveBalance, supply decimal.Decimal, goLiveUnixTime int64) (*TimeCurve, error) {
	curve := &TimeCurve{
		goLiveUnixTime: goLiveUnixTime,
		segments:       make([]timeSegment, 0, len(def.Curves)),
	}
	for i, entry := range def.Curves {
		primitive, err := newExponentialCurve(entry.Curve, reserveBalance, supply, goLiveUnixTime+entry.Offset)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		curve.segments = append(curve.segments, timeSegment{
			offset:   entry.Offset,
			curve:    primitive,
			buyFees:  entry.BuyTransitionFees,
			sellFees: entry.SellTransitionFees,
		})
	}
	return curve, nil
}

// ActiveSegment returns the index of the segment pricing unixTime.
func (t *TimeCurve) ActiveSegment(unixTime int64) (int, error) {
	if unixTime < t.goLiveUnixTime {
		return 0, nil
	}
	for i := len(t.segments) - 1; i >= 0; i-- {
		if t.goLiveUnixTime+t.segments[i].offset <= unixTime {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no segment active at %d", ErrMisconfiguredSegments, unixTime)
}

// FeeDecay returns the transition fee elapsed seconds after a segment went
// live. It ramps linearly from the full percentage to zero over the interval.
func FeeDecay(fees *TransitionFee, elapsed int64) decimal.Decimal {
	if fees == nil || fees.Interval == 0 {
		return decimal.Zero
	}
	elapsed = max(elapsed, 0)
	interval := int64(fees.Interval)
	if elapsed > interval {
		return decimal.Zero
	}
	return PercentToDecimal(fees.Percentage).
		Mul(decimal.NewFromInt(interval - elapsed)).
		DivRound(decimal.NewFromInt(interval), DivScale)
}

func (t *TimeCurve) active(unixTime int64) (timeSegment, int64, error) {
	i, err := t.ActiveSegment(unixTime)
	if err != nil {
		return timeSegment{}, 0, err
	}
	seg := t.segments[i]
	return seg, unixTime - t.goLiveUnixTime - seg.offset, nil
}

func (t *TimeCurve) Locked() decimal.Decimal {
	return t.segments[0].curve.Locked()
}

func (t *TimeCurve) Current(unixTime int64, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal) (decimal.Decimal, error) {
	seg, elapsed, err := t.active(unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, err := seg.curve.Current(unixTime, baseRoyaltiesPercent, targetRoyaltiesPercent)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return price.Mul(one.Add(FeeDecay(seg.buyFees, elapsed))), nil
}

func (t *TimeCurve) BuyTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	seg, elapsed, err := t.active(unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	cost, err := seg.curve.BuyTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent, unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return cost.Mul(one.Add(FeeDecay(seg.buyFees, elapsed))), nil
}

func (t *TimeCurve) SellTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	seg, elapsed, err := t.active(unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	out, err := seg.curve.SellTargetAmount(targetAmount, baseRoyaltiesPercent, targetRoyaltiesPercent, unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return out.Mul(one.Sub(FeeDecay(seg.sellFees, elapsed))), nil
}

func (t *TimeCurve) BuyWithBaseAmount(baseAmount, baseRoyaltiesPercent, targetRoyaltiesPercent decimal.Decimal, unixTime int64) (decimal.Decimal, error) {
	seg, elapsed, err := t.active(unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	out, err := seg.curve.BuyWithBaseAmount(baseAmount, baseRoyaltiesPercent, targetRoyaltiesPercent, unixTime)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return out.Mul(one.Sub(FeeDecay(seg.buyFees, elapsed))), nil
}
