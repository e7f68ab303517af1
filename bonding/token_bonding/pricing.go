package token_bonding

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// BondingPricing prices across every hop of a hierarchy.
type BondingPricing struct {
	hierarchy *BondingHierarchy
}

func NewBondingPricing(hierarchy *BondingHierarchy) *BondingPricing {
	return &BondingPricing{hierarchy: hierarchy}
}

func (p *BondingPricing) Hierarchy() *BondingHierarchy {
	return p.hierarchy
}

// reduce folds fn from the lowest node upward, stopping after the node
// whose base is baseMint.
func (p *BondingPricing) reduce(baseMint solana.PublicKey, initial decimal.Decimal, fn func(node *BondingNode, acc decimal.Decimal) (decimal.Decimal, error)) (decimal.Decimal, error) {
	acc := initial
	for _, node := range p.hierarchy.ToArray() {
		var err error
		if acc, err = fn(node, acc); err != nil {
			return decimal.Decimal{}, err
		}
		if p.hierarchy.eq(node.BaseMint, baseMint) {
			return acc, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("%w: base %s", ErrUnreachableMint, baseMint)
}

// Current returns the price of the lowest target mint in baseMint.
func (p *BondingPricing) Current(baseMint solana.PublicKey, unixTime int64) (decimal.Decimal, error) {
	return p.reduce(baseMint, one, func(node *BondingNode, acc decimal.Decimal) (decimal.Decimal, error) {
		price, err := node.PricingCurve.Current(unixTime, node.BuyBaseRoyaltyPercentage, node.BuyTargetRoyaltyPercentage)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return acc.Mul(price), nil
	})
}

// Locked returns the reserve of the lowest bonding valued in baseMint.
func (p *BondingPricing) Locked(baseMint solana.PublicKey, unixTime int64) (decimal.Decimal, error) {
	lowest := p.hierarchy.Node(0)
	if p.hierarchy.eq(lowest.BaseMint, baseMint) {
		return lowest.PricingCurve.Locked(), nil
	}
	return p.reduce(baseMint, lowest.PricingCurve.Locked(), func(node *BondingNode, acc decimal.Decimal) (decimal.Decimal, error) {
		if node == lowest {
			return acc, nil
		}
		price, err := node.PricingCurve.Current(unixTime, node.BuyBaseRoyaltyPercentage, node.BuyTargetRoyaltyPercentage)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return acc.Mul(price), nil
	})
}

// BuyTargetAmount returns the baseMint cost of buying amount of the lowest target.
func (p *BondingPricing) BuyTargetAmount(amount decimal.Decimal, baseMint solana.PublicKey, unixTime int64) (decimal.Decimal, error) {
	return p.reduce(baseMint, amount, func(node *BondingNode, acc decimal.Decimal) (decimal.Decimal, error) {
		if node.BuyFrozen {
			return decimal.Decimal{}, fmt.Errorf("%w: buy of %s", ErrFrozenCurve, node.TargetMint)
		}
		return node.PricingCurve.BuyTargetAmount(acc, node.BuyBaseRoyaltyPercentage, node.BuyTargetRoyaltyPercentage, unixTime)
	})
}

// SellTargetAmount returns the baseMint received for selling amount of the lowest target.
func (p *BondingPricing) SellTargetAmount(amount decimal.Decimal, baseMint solana.PublicKey, unixTime int64) (decimal.Decimal, error) {
	return p.reduce(baseMint, amount, func(node *BondingNode, acc decimal.Decimal) (decimal.Decimal, error) {
		if node.SellFrozen {
			return decimal.Decimal{}, fmt.Errorf("%w: sell of %s", ErrFrozenCurve, node.TargetMint)
		}
		return node.PricingCurve.SellTargetAmount(acc, node.SellBaseRoyaltyPercentage, node.SellTargetRoyaltyPercentage, unixTime)
	})
}

// BuyWithBaseAmount returns the lowest target received for spending amount of baseMint.
func (p *BondingPricing) BuyWithBaseAmount(amount decimal.Decimal, baseMint solana.PublicKey, unixTime int64) (decimal.Decimal, error) {
	arr := p.hierarchy.ToArray()
	top := -1
	for i, node := range arr {
		if p.hierarchy.eq(node.BaseMint, baseMint) {
			top = i
			break
		}
	}
	if top == -1 {
		return decimal.Decimal{}, fmt.Errorf("%w: base %s", ErrUnreachableMint, baseMint)
	}

	acc := amount
	for i := top; i >= 0; i-- {
		node := arr[i]
		if node.BuyFrozen {
			return decimal.Decimal{}, fmt.Errorf("%w: buy of %s", ErrFrozenCurve, node.TargetMint)
		}
		var err error
		acc, err = node.PricingCurve.BuyWithBaseAmount(acc, node.BuyBaseRoyaltyPercentage, node.BuyTargetRoyaltyPercentage, unixTime)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}
	return acc, nil
}

// Swap returns the targetMint received for baseAmount of baseMint. Moving
// down the hierarchy buys at every hop, moving up sells.
func (p *BondingPricing) Swap(baseAmount decimal.Decimal, baseMint, targetMint solana.PublicKey, ignoreFrozen bool, unixTime int64) (decimal.Decimal, error) {
	lowest, err := p.hierarchy.Lowest(baseMint, targetMint)
	if err != nil {
		return decimal.Decimal{}, err
	}
	isBuy := p.hierarchy.eq(lowest, targetMint)

	path, err := p.hierarchy.Path(baseMint, targetMint, ignoreFrozen)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(path) == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %s to %s", ErrFrozenCurve, baseMint, targetMint)
	}

	acc := baseAmount
	if isBuy {
		for i := len(path) - 1; i >= 0; i-- {
			node := path[i]
			acc, err = node.PricingCurve.BuyWithBaseAmount(acc, node.BuyBaseRoyaltyPercentage, node.BuyTargetRoyaltyPercentage, unixTime)
			if err != nil {
				return decimal.Decimal{}, err
			}
		}
		return acc, nil
	}

	for _, node := range path {
		acc, err = node.PricingCurve.SellTargetAmount(acc, node.SellBaseRoyaltyPercentage, node.SellTargetRoyaltyPercentage, unixTime)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}
	return acc, nil
}
