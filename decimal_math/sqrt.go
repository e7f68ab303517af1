package decimal_math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var ErrSqrtNegative = errors.New("sqrt on negative decimal")

// Sqrt computes the square root with prec bits of binary precision.
func Sqrt(x decimal.Decimal, prec uint) (decimal.Decimal, error) {
	if x.Sign() < 0 {
		return decimal.Decimal{}, ErrSqrtNegative
	}
	if x.IsZero() {
		return decimal.Zero, nil
	}

	f, _, err := big.ParseFloat(x.String(), 10, prec, big.ToNearestEven)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(new(big.Float).SetPrec(prec).Sqrt(f).Text('f', -1))
}
