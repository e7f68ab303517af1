package token_bonding

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// TokenBonding is a snapshot of one bonding with amounts in human units.
type TokenBonding struct {
	BaseMint       solana.PublicKey
	TargetMint     solana.PublicKey
	Curve          Curve
	ReserveBalance decimal.Decimal
	TargetSupply   decimal.Decimal
	GoLiveUnixTime int64

	BuyBaseRoyaltyPercentage    decimal.Decimal
	BuyTargetRoyaltyPercentage  decimal.Decimal
	SellBaseRoyaltyPercentage   decimal.Decimal
	SellTargetRoyaltyPercentage decimal.Decimal

	BuyFrozen  bool
	SellFrozen bool
}

func (b *TokenBonding) Validate() error {
	if b.BaseMint.Equals(b.TargetMint) {
		return fmt.Errorf("%w: base and target mint are both %s", ErrInvalidHierarchy, b.BaseMint)
	}
	if b.ReserveBalance.IsNegative() || b.TargetSupply.IsNegative() {
		return fmt.Errorf("%w: reserve %s supply %s", ErrInvalidAmount, b.ReserveBalance, b.TargetSupply)
	}
	return checkRoyalties(
		b.BuyBaseRoyaltyPercentage,
		b.BuyTargetRoyaltyPercentage,
		b.SellBaseRoyaltyPercentage,
		b.SellTargetRoyaltyPercentage,
	)
}

// BondingNode is a bonding and its pricing curve. parent and child index the
// owning hierarchy, -1 when absent.
type BondingNode struct {
	TokenBonding
	PricingCurve PricingCurve

	parent int
	child  int
}

// BondingHierarchy is a chain of bondings where each node's base mint is the
// target mint of its parent. Node 0 is the lowest bonding. It is immutable
// once built.
type BondingHierarchy struct {
	nodes             []BondingNode
	wrappedNativeMint solana.PublicKey
}

// NewBondingHierarchy links bondings upward starting at the bonding whose
// target is targetMint. Bondings not on that chain are ignored.
// wrappedNativeMint is matched as solana.WrappedSol.
func NewBondingHierarchy(wrappedNativeMint, targetMint solana.PublicKey, bondings []TokenBonding) (*BondingHierarchy, error) {
	h := &BondingHierarchy{wrappedNativeMint: wrappedNativeMint}

	byTarget := make(map[solana.PublicKey]int, len(bondings))
	for i := range bondings {
		if err := bondings[i].Validate(); err != nil {
			return nil, fmt.Errorf("bonding %s: %w", bondings[i].TargetMint, err)
		}
		target := h.normalize(bondings[i].TargetMint)
		if _, ok := byTarget[target]; ok {
			return nil, fmt.Errorf("%w: duplicate bonding for target %s", ErrInvalidHierarchy, target)
		}
		byTarget[target] = i
	}

	visited := make(map[solana.PublicKey]bool)
	next := h.normalize(targetMint)
	for {
		i, ok := byTarget[next]
		if !ok {
			break
		}
		if visited[next] {
			return nil, fmt.Errorf("%w: cycle through %s", ErrInvalidHierarchy, next)
		}
		visited[next] = true

		bonding := bondings[i]
		curve, err := FromCurve(bonding.Curve, bonding.ReserveBalance, bonding.TargetSupply, bonding.GoLiveUnixTime)
		if err != nil {
			return nil, fmt.Errorf("bonding %s: %w", bonding.TargetMint, err)
		}
		idx := len(h.nodes)
		h.nodes = append(h.nodes, BondingNode{
			TokenBonding: bonding,
			PricingCurve: curve,
			parent:       -1,
			child:        idx - 1,
		})
		if idx > 0 {
			h.nodes[idx-1].parent = idx
		}
		next = h.normalize(bonding.BaseMint)
	}

	if len(h.nodes) == 0 {
		return nil, fmt.Errorf("%w: target %s", ErrNoBondingFound, targetMint)
	}
	return h, nil
}

func (h *BondingHierarchy) normalize(mint solana.PublicKey) solana.PublicKey {
	if !h.wrappedNativeMint.IsZero() && mint.Equals(h.wrappedNativeMint) {
		return solana.WrappedSol
	}
	return mint
}

func (h *BondingHierarchy) eq(a, b solana.PublicKey) bool {
	return h.normalize(a).Equals(h.normalize(b))
}

func (h *BondingHierarchy) Len() int {
	return len(h.nodes)
}

// Node returns node i, nil when out of range.
func (h *BondingHierarchy) Node(i int) *BondingNode {
	if i < 0 || i >= len(h.nodes) {
		return nil
	}
	return &h.nodes[i]
}

// Parent returns the index of the node above i, -1 at the root.
func (h *BondingHierarchy) Parent(i int) int {
	return h.nodes[i].parent
}

// Child returns the index of the node below i, -1 at the lowest node.
func (h *BondingHierarchy) Child(i int) int {
	return h.nodes[i].child
}

// ToArray returns the nodes from the lowest bonding up to the root.
func (h *BondingHierarchy) ToArray() []*BondingNode {
	out := make([]*BondingNode, 0, len(h.nodes))
	for i := 0; i != -1; i = h.nodes[i].parent {
		out = append(out, &h.nodes[i])
	}
	return out
}

// Lowest returns whichever of the two mints is furthest downstream.
func (h *BondingHierarchy) Lowest(one, two solana.PublicKey) (solana.PublicKey, error) {
	for _, node := range h.ToArray() {
		if h.eq(node.TargetMint, one) || h.eq(node.TargetMint, two) {
			return h.normalize(node.TargetMint), nil
		}
	}
	return solana.PublicKey{}, fmt.Errorf("%w: neither %s nor %s is a target", ErrNoBondingFound, one, two)
}

// Highest returns whichever of the two mints is furthest upstream.
func (h *BondingHierarchy) Highest(one, two solana.PublicKey) (solana.PublicKey, error) {
	arr := h.ToArray()
	for i := len(arr) - 1; i >= 0; i-- {
		if h.eq(arr[i].BaseMint, one) || h.eq(arr[i].BaseMint, two) {
			return h.normalize(arr[i].BaseMint), nil
		}
	}
	return solana.PublicKey{}, fmt.Errorf("%w: neither %s nor %s is a base", ErrNoBondingFound, one, two)
}

// Path returns the nodes between the two mints, lowest first. The path is
// empty when a node on it is frozen in the trade direction and ignoreFrozen
// is false. Trading toward two is a buy when two is the lowest mint.
func (h *BondingHierarchy) Path(one, two solana.PublicKey, ignoreFrozen bool) ([]*BondingNode, error) {
	if h.eq(one, two) {
		return nil, fmt.Errorf("%w: %s to itself", ErrUnreachableMint, one)
	}
	lowest, err := h.Lowest(one, two)
	if err != nil {
		return nil, err
	}
	highest, err := h.Highest(one, two)
	if err != nil {
		return nil, err
	}
	isBuy := lowest.Equals(h.normalize(two))

	arr := h.ToArray()
	lowIdx, highIdx := -1, -1
	for i, node := range arr {
		if lowIdx == -1 && h.eq(node.TargetMint, lowest) {
			lowIdx = i
		}
		if h.eq(node.BaseMint, highest) {
			highIdx = i
		}
	}
	if lowIdx == -1 || highIdx == -1 || lowIdx > highIdx {
		return nil, fmt.Errorf("%w: no path between %s and %s", ErrUnreachableMint, one, two)
	}

	path := arr[lowIdx : highIdx+1]
	if !ignoreFrozen {
		for _, node := range path {
			if (isBuy && node.BuyFrozen) || (!isBuy && node.SellFrozen) {
				return []*BondingNode{}, nil
			}
		}
	}
	return path, nil
}

// FindTarget returns the node whose target is mint.
func (h *BondingHierarchy) FindTarget(mint solana.PublicKey) (*BondingNode, error) {
	for _, node := range h.ToArray() {
		if h.eq(node.TargetMint, mint) {
			return node, nil
		}
	}
	return nil, fmt.Errorf("%w: target %s", ErrNoBondingFound, mint)
}

// Contains reports whether every mint is a base or target of some node.
func (h *BondingHierarchy) Contains(mints ...solana.PublicKey) bool {
	for _, mint := range mints {
		found := false
		for _, node := range h.ToArray() {
			if h.eq(node.BaseMint, mint) || h.eq(node.TargetMint, mint) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
