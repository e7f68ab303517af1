package token_bonding

import (
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/krazyTry/strata-go/decimal_math"
	"github.com/krazyTry/strata-go/u128"
	"github.com/shopspring/decimal"
)

// AmountAsNum converts a raw token amount into human units.
func AmountAsNum(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// ToRawAmount converts human units into a raw token amount.
// Costs the user pays must use RoundingUp, amounts the user receives RoundingDown.
func ToRawAmount(value decimal.Decimal, decimals uint8, rounding Rounding) (uint64, error) {
	if value.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrPrecisionLoss, value)
	}
	scaled := value.Mul(decimal_math.Pow10(int(decimals)))
	if rounding == RoundingUp {
		scaled = scaled.Ceil()
	} else {
		scaled = scaled.Floor()
	}
	if scaled.GreaterThan(maxUint64Decimal) {
		return 0, fmt.Errorf("%w: %s overflows u64 at %d decimals", ErrPrecisionLoss, value, decimals)
	}
	return scaled.BigInt().Uint64(), nil
}

// CoefficientToDecimal reads a 12 decimal fixed point coefficient.
func CoefficientToDecimal(v bin.Uint128) decimal.Decimal {
	return decimal.NewFromBigInt(v.BigInt(), -CoefficientDecimals)
}

// DecimalToCoefficient truncates value to 12 decimal places.
func DecimalToCoefficient(value decimal.Decimal) (bin.Uint128, error) {
	scaled := value.Mul(coefficientScale).Truncate(0)
	if !value.IsZero() && scaled.IsZero() {
		return bin.Uint128{}, fmt.Errorf("%w: %s is below 1e-%d", ErrPrecisionLoss, value, CoefficientDecimals)
	}
	out, err := u128.FromBigInt(scaled.BigInt())
	if err != nil {
		return bin.Uint128{}, fmt.Errorf("%w: %s: %v", ErrPrecisionLoss, value, err)
	}
	return out, nil
}

// PercentToDecimal reads a u32 percentage as a fraction of PercentDenominator.
func PercentToDecimal(percent uint32) decimal.Decimal {
	return decimal.NewFromInt(int64(percent)).DivRound(percentScale, DivScale)
}

// DecimalToPercent rounds a fraction in [0, 1] to the nearest u32 percentage.
func DecimalToPercent(value decimal.Decimal) (uint32, error) {
	if value.IsNegative() || value.GreaterThan(one) {
		return 0, fmt.Errorf("%w: percentage %s out of range", ErrPrecisionLoss, value)
	}
	return uint32(value.Mul(percentScale).Round(0).IntPart()), nil
}
