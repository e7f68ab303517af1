package bonding

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	tb "github.com/krazyTry/strata-go/bonding/token_bonding"
	"go.uber.org/zap"
)

var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidSlippage = errors.New("slippage bps must be at most 10000")

	maxSlippageBps = uint64(10000)
)

// Bonding quotes trades against snapshots of on-chain bondings.
type Bonding struct {
	wrappedNativeMint solana.PublicKey
	slippageBps       uint64
	logger            *zap.Logger
}

// NewBonding returns a quoting client. wrappedNativeMint is the program's
// wrapped SOL mint, treated as native SOL. A nil logger disables logging.
func NewBonding(
	wrappedNativeMint solana.PublicKey,
	slippageBps uint64, // 250 = 2.5%
	logger *zap.Logger,
) (*Bonding, error) {
	if slippageBps > maxSlippageBps {
		return nil, ErrInvalidSlippage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bonding{
		wrappedNativeMint: wrappedNativeMint,
		slippageBps:       slippageBps,
		logger:            logger,
	}, nil
}

// Hierarchy links the snapshot's bondings upward from targetMint.
func (m *Bonding) Hierarchy(snap *Snapshot, targetMint solana.PublicKey) (*tb.BondingHierarchy, error) {
	h, err := tb.NewBondingHierarchy(snap.WrappedNativeMint, targetMint, snap.Bondings)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("built hierarchy",
		zap.Stringer("target_mint", targetMint),
		zap.Int("hops", h.Len()),
	)
	return h, nil
}

// hierarchyFor returns a hierarchy holding both mints, rooted at whichever is lower.
func (m *Bonding) hierarchyFor(snap *Snapshot, one, two solana.PublicKey) (*tb.BondingHierarchy, error) {
	for _, target := range []solana.PublicKey{two, one} {
		h, err := m.Hierarchy(snap, target)
		if errors.Is(err, tb.ErrNoBondingFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if h.Contains(one, two) {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: no hierarchy holds %s and %s", tb.ErrUnreachableMint, one, two)
}
