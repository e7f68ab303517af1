package token_bonding

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExponentialCurveV0Rejects(t *testing.T) {
	_, err := NewExponentialCurveV0(coef(t, "1"), coef(t, "1"), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)

	_, err = NewExponentialCurveV0(bin.Uint128{}, bin.Uint128{}, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)

	_, err = NewExponentialCurveV0(coef(t, "1"), bin.Uint128{}, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)
}

func TestNewTimeDecayExponentialCurveV0Rejects(t *testing.T) {
	_, err := NewTimeDecayExponentialCurveV0(bin.Uint128{}, coef(t, "1"), coef(t, "0.5"), coef(t, "1"), 60)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)

	_, err = NewTimeDecayExponentialCurveV0(coef(t, "1"), coef(t, "1"), coef(t, "0.5"), bin.Uint128{}, 60)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)

	_, err = NewTimeDecayExponentialCurveV0(coef(t, "1"), coef(t, "1"), coef(t, "0.5"), coef(t, "1"), 60)
	assert.NoError(t, err)

	// no schedule to apply d to
	_, err = NewTimeDecayExponentialCurveV0(coef(t, "1"), coef(t, "1"), coef(t, "0.5"), bin.Uint128{}, 0)
	assert.NoError(t, err)

	// rising exponent
	_, err = NewTimeDecayExponentialCurveV0(coef(t, "1"), coef(t, "0.5"), coef(t, "2"), coef(t, "1"), 60)
	assert.NoError(t, err)
}

func TestNewTimeCurveV0Rejects(t *testing.T) {
	_, err := NewTimeCurveV0()
	assert.ErrorIs(t, err, ErrMisconfiguredSegments)

	_, err = NewTimeCurveV0(TimeCurveEntry{Offset: 10, Curve: linearCurve(t)})
	assert.ErrorIs(t, err, ErrMisconfiguredSegments)

	_, err = NewTimeCurveV0(
		TimeCurveEntry{Offset: 0, Curve: linearCurve(t)},
		TimeCurveEntry{Offset: 100, Curve: squareCurve(t)},
		TimeCurveEntry{Offset: 50, Curve: linearCurve(t)},
	)
	assert.ErrorIs(t, err, ErrMisconfiguredSegments)

	_, err = NewTimeCurveV0(TimeCurveEntry{Offset: 0})
	assert.ErrorIs(t, err, ErrMisconfiguredSegments)

	// segment validation applies to definitions built without a constructor
	_, err = NewTimeCurveV0(TimeCurveEntry{Offset: 0, Curve: ExponentialCurveV0{C: coef(t, "1"), B: coef(t, "1"), Pow: 1, Frac: 1}})
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)
}

func TestFromCurve(t *testing.T) {
	curve, err := FromCurve(squareCurve(t), dec("0"), dec("0"), 0)
	require.NoError(t, err)
	assert.IsType(t, &ExponentialCurve{}, curve)

	tc, err := NewTimeCurveV0(TimeCurveEntry{Offset: 0, Curve: squareCurve(t)})
	require.NoError(t, err)
	curve, err = FromCurve(tc, dec("0"), dec("0"), 0)
	require.NoError(t, err)
	assert.IsType(t, &TimeCurve{}, curve)

	_, err = FromCurve(nil, dec("0"), dec("0"), 0)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)

	_, err = FromCurve(ExponentialCurveV0{C: coef(t, "1"), B: coef(t, "2"), Pow: 1, Frac: 1}, dec("1"), dec("1"), 0)
	assert.ErrorIs(t, err, ErrInvalidCurveConfiguration)

	_, err = FromCurve(squareCurve(t), dec("-1"), dec("0"), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
