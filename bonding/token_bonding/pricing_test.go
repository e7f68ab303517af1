package token_bonding

import (
	"fmt"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingCurrentAndLocked(t *testing.T) {
	p := NewBondingPricing(build(t, testMint(3), chain(t, "2", "3", "0.5")))

	for _, tt := range []struct {
		base    byte
		current string
		locked  string
	}{
		{2, "0.5", "50"},
		{1, "1.5", "150"},
		{0, "3", "300"},
	} {
		current, err := p.Current(testMint(tt.base), goLive)
		require.NoError(t, err)
		assertDecimal(t, tt.current, current, 1e-12)

		locked, err := p.Locked(testMint(tt.base), goLive)
		require.NoError(t, err)
		assertDecimal(t, tt.locked, locked, 1e-12)
	}

	_, err := p.Current(testMint(9), goLive)
	assert.ErrorIs(t, err, ErrUnreachableMint)
	_, err = p.Locked(testMint(9), goLive)
	assert.ErrorIs(t, err, ErrUnreachableMint)
}

func TestPricingFolds(t *testing.T) {
	p := NewBondingPricing(build(t, testMint(3), chain(t, "2", "3", "0.5")))

	cost, err := p.BuyTargetAmount(dec("10"), testMint(0), goLive)
	require.NoError(t, err)
	assertDecimal(t, "30", cost, 1e-12)

	proceeds, err := p.SellTargetAmount(dec("10"), testMint(1), goLive)
	require.NoError(t, err)
	assertDecimal(t, "15", proceeds, 1e-12)

	out, err := p.BuyWithBaseAmount(dec("30"), testMint(0), goLive)
	require.NoError(t, err)
	assertDecimal(t, "10", out, 1e-12)

	_, err = p.BuyWithBaseAmount(dec("30"), testMint(3), goLive)
	assert.ErrorIs(t, err, ErrUnreachableMint)
}

func TestPricingFrozen(t *testing.T) {
	bondings := chain(t, "2", "3", "0.5")
	bondings[1].BuyFrozen = true
	bondings[2].SellFrozen = true
	p := NewBondingPricing(build(t, testMint(3), bondings))

	_, err := p.BuyTargetAmount(dec("1"), testMint(0), goLive)
	assert.ErrorIs(t, err, ErrFrozenCurve)
	_, err = p.BuyWithBaseAmount(dec("1"), testMint(0), goLive)
	assert.ErrorIs(t, err, ErrFrozenCurve)
	_, err = p.SellTargetAmount(dec("1"), testMint(2), goLive)
	assert.ErrorIs(t, err, ErrFrozenCurve)

	// the frozen bondings sit above m2
	_, err = p.BuyTargetAmount(dec("1"), testMint(2), goLive)
	assert.NoError(t, err)

	_, err = p.Swap(dec("1"), testMint(0), testMint(3), false, goLive)
	assert.ErrorIs(t, err, ErrFrozenCurve)
	_, err = p.Swap(dec("1"), testMint(0), testMint(3), true, goLive)
	assert.NoError(t, err)
}

func TestSwapDirections(t *testing.T) {
	p := NewBondingPricing(build(t, testMint(3), chain(t, "2", "3", "0.5")))

	out, err := p.Swap(dec("30"), testMint(0), testMint(3), false, goLive)
	require.NoError(t, err)
	assertDecimal(t, "10", out, 1e-12)

	out, err = p.Swap(dec("10"), testMint(3), testMint(1), false, goLive)
	require.NoError(t, err)
	assertDecimal(t, "15", out, 1e-12)

	_, err = p.Swap(dec("1"), testMint(2), testMint(2), false, goLive)
	assert.ErrorIs(t, err, ErrUnreachableMint)
	_, err = p.Swap(dec("1"), testMint(8), testMint(3), false, goLive)
	assert.ErrorIs(t, err, ErrUnreachableMint)
}

// mixedChain alternates linear and square curves with royalties so every
// hop does different work. Prices stay near 1.
func mixedChain(t *testing.T, n int) []TokenBonding {
	prices := make([]string, n)
	for i := range prices {
		prices[i] = "1"
	}
	square, err := NewExponentialCurveV0(coef(t, "0.001"), bin.Uint128{}, 1, 1)
	require.NoError(t, err)

	bondings := chain(t, prices...)
	for i := range bondings {
		b := &bondings[i]
		if i%2 == 0 {
			b.Curve = square
			b.ReserveBalance = dec("500")
			b.TargetSupply = dec("1000")
		} else {
			b.ReserveBalance = decimal.NewFromInt(int64(10_000 + 1_000*i))
			b.TargetSupply = dec("10000")
		}
		b.BuyBaseRoyaltyPercentage = dec("0.01")
		b.BuyTargetRoyaltyPercentage = dec("0.02")
		b.SellBaseRoyaltyPercentage = dec("0.03")
		b.SellTargetRoyaltyPercentage = dec("0.04")
	}
	return bondings
}

func TestSwapMatchesManualChaining(t *testing.T) {
	for n := 2; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d hops", n), func(t *testing.T) {
			bondings := mixedChain(t, n)
			top, bottom := testMint(0), testMint(byte(n))
			h := build(t, bottom, bondings)
			p := NewBondingPricing(h)
			nodes := h.ToArray()
			at := goLive + 10

			want := dec("2")
			for i := len(nodes) - 1; i >= 0; i-- {
				var err error
				want, err = nodes[i].PricingCurve.BuyWithBaseAmount(want, nodes[i].BuyBaseRoyaltyPercentage, nodes[i].BuyTargetRoyaltyPercentage, at)
				require.NoError(t, err)
			}
			got, err := p.Swap(dec("2"), top, bottom, false, at)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "buy: want %s got %s", want, got)

			want = dec("3")
			for _, node := range nodes {
				want, err = node.PricingCurve.SellTargetAmount(want, node.SellBaseRoyaltyPercentage, node.SellTargetRoyaltyPercentage, at)
				require.NoError(t, err)
			}
			got, err = p.Swap(dec("3"), bottom, top, false, at)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "sell: want %s got %s", want, got)

			// the fold helpers agree with swap for the whole chain
			viaBuy, err := p.BuyWithBaseAmount(dec("2"), top, at)
			require.NoError(t, err)
			swapBuy, err := p.Swap(dec("2"), top, bottom, false, at)
			require.NoError(t, err)
			assert.True(t, viaBuy.Equal(swapBuy))
		})
	}
}
