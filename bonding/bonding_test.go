package bonding

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	tb "github.com/krazyTry/strata-go/bonding/token_bonding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testMint(i byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = i
	k[31] = 1
	return k
}

var (
	sol   = solana.WrappedSol
	mintA = testMint(1)
	mintB = testMint(2)
)

func linear() map[string]any {
	return map[string]any{"exponential_curve_v0": map[string]any{"c": "0", "b": "1000000000000", "pow": 0, "frac": 1}}
}

// snapshotJSON is SOL -> A at 2 SOL per A with 10 A issued, A -> B at 3 A per B with 1 B issued.
func snapshotJSON(t *testing.T, mutate func(doc map[string]any)) []byte {
	t.Helper()
	doc := map[string]any{
		"unix_time": 1_700_000_000,
		"mints":     map[string]any{
			mintA.String(): map[string]any{"decimals": 6},
			mintB.String(): map[string]any{"decimals": 6},
		},
		"bondings": []any{
			map[string]any{
				"base_mint":         sol.String(),
				"target_mint":       mintA.String(),
				"reserve_balance":   "20000000000",
				"target_supply":     "10000000",
				"go_live_unix_time": 1_600_000_000,
				"curve":             linear(),
			},
			map[string]any{
				"base_mint":         mintA.String(),
				"target_mint":       mintB.String(),
				"reserve_balance":   "3000000",
				"target_supply":     "1000000",
				"go_live_unix_time": 1_600_000_000,
				"curve":             linear(),
			},
		},
	}
	if mutate != nil {
		mutate(doc)
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func bondingAt(doc map[string]any, i int) map[string]any {
	return doc["bondings"].([]any)[i].(map[string]any)
}

func newClient(t *testing.T, slippageBps uint64) *Bonding {
	t.Helper()
	m, err := NewBonding(solana.PublicKey{}, slippageBps, zap.NewNop())
	require.NoError(t, err)
	return m
}

func decode(t *testing.T, m *Bonding, data []byte) *Snapshot {
	t.Helper()
	snap, err := m.DecodeSnapshot(data)
	require.NoError(t, err)
	return snap
}

func TestNewBondingRejectsSlippage(t *testing.T) {
	_, err := NewBonding(solana.PublicKey{}, 10001, nil)
	assert.ErrorIs(t, err, ErrInvalidSlippage)

	m, err := NewBonding(solana.PublicKey{}, 10000, nil)
	require.NoError(t, err)
	assert.NotNil(t, m.logger)
}

func TestPriceQuote(t *testing.T) {
	m := newClient(t, 0)
	snap := decode(t, m, snapshotJSON(t, nil))

	price, err := m.PriceQuote(snap, mintB, sol)
	require.NoError(t, err)
	assert.Equal(t, "6", price.Current.String())
	assert.Equal(t, "6", price.Locked.String())

	price, err = m.PriceQuote(snap, mintB, mintA)
	require.NoError(t, err)
	assert.Equal(t, "3", price.Current.String())
	assert.Equal(t, "3", price.Locked.String())
}

func TestQuotes(t *testing.T) {
	m := newClient(t, 100)
	snap := decode(t, m, snapshotJSON(t, nil))

	buy, err := m.BuyQuote(snap, mintB, sol, 6_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, &QuoteResult{AmountIn: 6_000_000_000, AmountOut: 1_000_000, MinimumAmountOut: 990_000}, buy)

	cost, err := m.BuyTargetQuote(snap, mintB, sol, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, &QuoteResult{AmountIn: 6_000_000_000, AmountOut: 1_000_000, MaximumAmountIn: 6_060_000_000}, cost)

	sell, err := m.SellQuote(snap, mintB, sol, 500_000)
	require.NoError(t, err)
	assert.Equal(t, &QuoteResult{AmountIn: 500_000, AmountOut: 3_000_000_000, MinimumAmountOut: 2_970_000_000}, sell)

	sell, err = m.SellQuote(snap, mintB, mintA, 500_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000), sell.AmountOut)
}

func TestSwapQuote(t *testing.T) {
	m := newClient(t, 0)
	snap := decode(t, m, snapshotJSON(t, nil))

	for _, tt := range []struct {
		name     string
		from, to solana.PublicKey
		in, out  uint64
	}{
		{"buy two hops", sol, mintB, 6_000_000_000, 1_000_000},
		{"buy one hop", mintA, mintB, 3_000_000, 1_000_000},
		{"sell one hop", mintB, mintA, 1_000_000, 3_000_000},
		{"sell two hops", mintB, sol, 1_000_000, 6_000_000_000},
		{"sell top hop", mintA, sol, 1_000_000, 2_000_000_000},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.SwapQuote(snap, tt.from, tt.to, tt.in, false)
			require.NoError(t, err)
			assert.Equal(t, tt.out, got.AmountOut)
			assert.Equal(t, tt.out, got.MinimumAmountOut)
		})
	}

	_, err := m.SwapQuote(snap, mintB, testMint(9), 1, false)
	assert.ErrorIs(t, err, tb.ErrUnreachableMint)
}

// a third of a lamport per raw A unit: costs round up, proceeds round down
func TestQuoteRoundingFavoursProtocol(t *testing.T) {
	m := newClient(t, 0)
	snap := decode(t, m, snapshotJSON(t, func(doc map[string]any) {
		b := bondingAt(doc, 0)
		b["reserve_balance"] = "1000000000"
		b["target_supply"] = "3000000"
	}))

	cost, err := m.BuyTargetQuote(snap, mintA, sol, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(334), cost.AmountIn)

	buy, err := m.BuyQuote(snap, mintA, sol, 334)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), buy.AmountOut)

	sell, err := m.SellQuote(snap, mintA, sol, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(333), sell.AmountOut)
}

func TestQuotesBeyondSupply(t *testing.T) {
	m := newClient(t, 0)
	snap := decode(t, m, snapshotJSON(t, nil))

	_, err := m.SellQuote(snap, mintA, sol, 10_000_001)
	assert.ErrorIs(t, err, tb.ErrInsufficientLiquidity)

	got, err := m.SellQuote(snap, mintA, sol, 10_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(20_000_000_000), got.AmountOut)

	// 10 B sells for 30 A, three times what the A curve has issued
	snap = decode(t, m, snapshotJSON(t, func(doc map[string]any) {
		b := bondingAt(doc, 1)
		b["reserve_balance"] = "30000000"
		b["target_supply"] = "10000000"
	}))
	_, err = m.SwapQuote(snap, mintB, sol, 10_000_000, false)
	assert.ErrorIs(t, err, tb.ErrInsufficientLiquidity)

	got, err = m.SwapQuote(snap, mintB, mintA, 10_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000_000), got.AmountOut)
}

func TestFrozenQuotes(t *testing.T) {
	m := newClient(t, 0)
	snap := decode(t, m, snapshotJSON(t, func(doc map[string]any) {
		bondingAt(doc, 1)["buy_frozen"] = true
	}))

	_, err := m.BuyQuote(snap, mintB, sol, 1_000)
	assert.ErrorIs(t, err, tb.ErrFrozenCurve)
	_, err = m.SwapQuote(snap, sol, mintB, 1_000, false)
	assert.ErrorIs(t, err, tb.ErrFrozenCurve)

	got, err := m.SwapQuote(snap, sol, mintB, 6_000_000_000, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), got.AmountOut)

	_, err = m.SellQuote(snap, mintB, sol, 1_000)
	assert.NoError(t, err)
}

func TestWrappedNativeMint(t *testing.T) {
	wrapped := testMint(200)
	m, err := NewBonding(wrapped, 0, nil)
	require.NoError(t, err)

	snap := decode(t, m, snapshotJSON(t, func(doc map[string]any) {
		bondingAt(doc, 0)["base_mint"] = wrapped.String()
	}))

	got, err := m.SwapQuote(snap, sol, mintB, 6_000_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), got.AmountOut)

	got, err = m.SwapQuote(snap, wrapped, mintB, 6_000_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), got.AmountOut)
}

func TestQuotesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m, err := NewBonding(solana.PublicKey{}, 0, zap.New(core))
	require.NoError(t, err)
	snap := decode(t, m, snapshotJSON(t, nil))

	_, err = m.BuyQuote(snap, mintB, sol, 6_000_000_000)
	require.NoError(t, err)

	entries := logs.FilterMessage("buy quote").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, mintB.String(), fields["to_mint"])
	assert.Equal(t, uint64(1_000_000), fields["amount_out"])
	assert.Equal(t, 1, logs.FilterMessage("decoded snapshot").Len())
}

func TestRoyaltyDecodesAsPercent(t *testing.T) {
	m := newClient(t, 0)
	snap := decode(t, m, snapshotJSON(t, func(doc map[string]any) {
		bondingAt(doc, 1)["sell_base_royalty_percentage"] = math.MaxUint32 / 2
	}))
	assert.InDelta(t, 0.5, snap.Bondings[1].SellBaseRoyaltyPercentage.InexactFloat64(), 1e-9)
}
