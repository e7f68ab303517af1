package token_bonding

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCurveConfiguration is returned for curves the closed-form solver cannot invert,
	// such as an exponential curve with both b and c set.
	ErrInvalidCurveConfiguration = errors.New("invalid curve configuration")
	ErrUnreachableMint           = errors.New("mint not in hierarchy")
	ErrNoBondingFound            = fmt.Errorf("%w: no bonding found", ErrUnreachableMint)
	ErrFrozenCurve               = errors.New("frozen curve on path")
	ErrMisconfiguredSegments     = errors.New("misconfigured time curve segments")
	ErrPrecisionLoss             = errors.New("fixed point precision loss")

	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidHierarchy      = errors.New("invalid bonding hierarchy")
	ErrInvalidRoyalty        = errors.New("royalty percentage must be in [0, 1)")
	ErrInvalidAmount         = errors.New("amount cannot be negative")
)

func unsolvable(op string) error {
	return fmt.Errorf("%w: %s is unsolvable when both b and c are defined", ErrInvalidCurveConfiguration, op)
}
