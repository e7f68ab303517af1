package decimal_math

import (
	"github.com/shopspring/decimal"
)

// Pow10 is exactly 10^n.
func Pow10(n int) decimal.Decimal {
	return decimal.New(1, int32(n))
}
