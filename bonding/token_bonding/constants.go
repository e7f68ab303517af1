package token_bonding

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// CoefficientDecimals is the fixed point scale of on-chain curve coefficients.
	CoefficientDecimals = 12

	// PercentDenominator is the on-chain denominator of u32 percentages.
	PercentDenominator = math.MaxUint32

	// DivScale is the number of decimal places kept by every division.
	DivScale = 24

	// PowScale is the number of decimal places kept by real exponentiation.
	PowScale = 24
)

var (
	one = decimal.NewFromInt(1)

	coefficientScale = decimal.New(1, CoefficientDecimals)
	percentScale     = decimal.NewFromInt(PercentDenominator)
	maxUint64Decimal = decimal.NewFromUint64(math.MaxUint64)
)

type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)
