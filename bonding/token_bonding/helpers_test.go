package token_bonding

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func coef(t *testing.T, s string) bin.Uint128 {
	t.Helper()
	v, err := DecimalToCoefficient(dec(s))
	require.NoError(t, err)
	return v
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, delta float64) {
	t.Helper()
	assert.InDelta(t, dec(expected).InexactFloat64(), actual.InexactFloat64(), delta, "got %s", actual)
}

func testMint(i byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = i
	k[31] = 1
	return k
}

func linearCurve(t *testing.T) ExponentialCurveV0 {
	t.Helper()
	c, err := NewExponentialCurveV0(bin.Uint128{}, coef(t, "1"), 0, 1)
	require.NoError(t, err)
	return c
}

func squareCurve(t *testing.T) ExponentialCurveV0 {
	t.Helper()
	c, err := NewExponentialCurveV0(coef(t, "1"), bin.Uint128{}, 1, 1)
	require.NoError(t, err)
	return c
}

func pricing(t *testing.T, def Curve, reserve, supply string, goLive int64) PricingCurve {
	t.Helper()
	curve, err := FromCurve(def, dec(reserve), dec(supply), goLive)
	require.NoError(t, err)
	return curve
}
