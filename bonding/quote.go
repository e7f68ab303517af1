package bonding

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	tb "github.com/krazyTry/strata-go/bonding/token_bonding"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var bpsDenominator = decimal.NewFromInt(10000)

// QuoteResult holds raw token amounts. Amounts the user pays are rounded
// up and amounts the user receives are rounded down.
type QuoteResult struct {
	AmountIn  uint64
	AmountOut uint64
	// MinimumAmountOut is AmountOut less slippage, for exact-in quotes.
	MinimumAmountOut uint64
	// MaximumAmountIn is AmountIn plus slippage, for exact-out quotes.
	MaximumAmountIn uint64
}

type PriceResult struct {
	// Current is the price of one target token in base tokens.
	Current decimal.Decimal
	// Locked is the target bonding's reserve valued in base tokens.
	Locked decimal.Decimal
}

// PriceQuote prices targetMint in baseMint at the snapshot time.
func (m *Bonding) PriceQuote(snap *Snapshot, targetMint, baseMint solana.PublicKey) (*PriceResult, error) {
	h, err := m.Hierarchy(snap, targetMint)
	if err != nil {
		return nil, err
	}
	p := tb.NewBondingPricing(h)

	current, err := p.Current(baseMint, snap.UnixTime)
	if err != nil {
		return nil, err
	}
	locked, err := p.Locked(baseMint, snap.UnixTime)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("price quote",
		zap.Stringer("target_mint", targetMint),
		zap.Stringer("base_mint", baseMint),
		zap.Stringer("current", current),
		zap.Stringer("locked", locked),
	)
	return &PriceResult{Current: current, Locked: locked}, nil
}

// BuyQuote quotes spending amountIn raw baseMint tokens on targetMint.
//
// Example:
//
// result, _ := m.BuyQuote(
//
//	snap,
//	targetMint, // token to buy
//	baseMint, // token to spend, any mint above targetMint
//	amountIn, // raw amount to spend
//
// )
func (m *Bonding) BuyQuote(snap *Snapshot, targetMint, baseMint solana.PublicKey, amountIn uint64) (*QuoteResult, error) {
	h, err := m.Hierarchy(snap, targetMint)
	if err != nil {
		return nil, err
	}
	in, err := m.amountAsNum(snap, baseMint, amountIn)
	if err != nil {
		return nil, err
	}
	out, err := tb.NewBondingPricing(h).BuyWithBaseAmount(in, baseMint, snap.UnixTime)
	if err != nil {
		return nil, err
	}
	return m.exactIn("buy quote", snap, baseMint, targetMint, amountIn, out)
}

// BuyTargetQuote quotes the raw baseMint cost of receiving amountOut raw targetMint tokens.
//
// Example:
//
// result, _ := m.BuyTargetQuote(
//
//	snap,
//	targetMint, // token to buy
//	baseMint, // token to spend, any mint above targetMint
//	amountOut, // raw amount to receive
//
// )
func (m *Bonding) BuyTargetQuote(snap *Snapshot, targetMint, baseMint solana.PublicKey, amountOut uint64) (*QuoteResult, error) {
	h, err := m.Hierarchy(snap, targetMint)
	if err != nil {
		return nil, err
	}
	out, err := m.amountAsNum(snap, targetMint, amountOut)
	if err != nil {
		return nil, err
	}
	cost, err := tb.NewBondingPricing(h).BuyTargetAmount(out, baseMint, snap.UnixTime)
	if err != nil {
		return nil, err
	}

	decimals, err := snap.MintDecimals(baseMint)
	if err != nil {
		return nil, err
	}
	amountIn, err := tb.ToRawAmount(cost, decimals, tb.RoundingUp)
	if err != nil {
		return nil, err
	}
	maxIn, err := tb.ToRawAmount(m.withSlippage(cost, true), decimals, tb.RoundingUp)
	if err != nil {
		return nil, err
	}
	result := &QuoteResult{AmountIn: amountIn, AmountOut: amountOut, MaximumAmountIn: maxIn}
	m.logQuote("buy target quote", snap, baseMint, targetMint, result)
	return result, nil
}

// SellQuote quotes selling amountIn raw targetMint tokens for baseMint.
//
// Example:
//
// result, _ := m.SellQuote(
//
//	snap,
//	targetMint, // token to sell
//	baseMint, // token to receive, any mint above targetMint
//	amountIn, // raw amount to sell
//
// )
func (m *Bonding) SellQuote(snap *Snapshot, targetMint, baseMint solana.PublicKey, amountIn uint64) (*QuoteResult, error) {
	h, err := m.Hierarchy(snap, targetMint)
	if err != nil {
		return nil, err
	}
	in, err := m.amountAsNum(snap, targetMint, amountIn)
	if err != nil {
		return nil, err
	}
	out, err := tb.NewBondingPricing(h).SellTargetAmount(in, baseMint, snap.UnixTime)
	if err != nil {
		return nil, err
	}
	return m.exactIn("sell quote", snap, targetMint, baseMint, amountIn, out)
}

// SwapQuote quotes swapping amountIn raw fromMint tokens into toMint. The
// mints may sit anywhere in one hierarchy; moving down buys, moving up sells.
//
// Example:
//
// result, _ := m.SwapQuote(
//
//	snap,
//	fromMint, // token to spend
//	toMint, // token to receive
//	amountIn, // raw amount to spend
//	false, // ignoreFrozen
//
// )
func (m *Bonding) SwapQuote(snap *Snapshot, fromMint, toMint solana.PublicKey, amountIn uint64, ignoreFrozen bool) (*QuoteResult, error) {
	h, err := m.hierarchyFor(snap, fromMint, toMint)
	if err != nil {
		return nil, err
	}
	in, err := m.amountAsNum(snap, fromMint, amountIn)
	if err != nil {
		return nil, err
	}
	out, err := tb.NewBondingPricing(h).Swap(in, fromMint, toMint, ignoreFrozen, snap.UnixTime)
	if err != nil {
		return nil, err
	}
	return m.exactIn("swap quote", snap, fromMint, toMint, amountIn, out)
}

func (m *Bonding) exactIn(msg string, snap *Snapshot, fromMint, toMint solana.PublicKey, amountIn uint64, out decimal.Decimal) (*QuoteResult, error) {
	decimals, err := snap.MintDecimals(toMint)
	if err != nil {
		return nil, err
	}
	amountOut, err := tb.ToRawAmount(out, decimals, tb.RoundingDown)
	if err != nil {
		return nil, err
	}
	minOut, err := tb.ToRawAmount(m.withSlippage(out, false), decimals, tb.RoundingDown)
	if err != nil {
		return nil, err
	}
	result := &QuoteResult{AmountIn: amountIn, AmountOut: amountOut, MinimumAmountOut: minOut}
	m.logQuote(msg, snap, fromMint, toMint, result)
	return result, nil
}

func (m *Bonding) amountAsNum(snap *Snapshot, mint solana.PublicKey, raw uint64) (decimal.Decimal, error) {
	decimals, err := snap.MintDecimals(mint)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return tb.AmountAsNum(raw, decimals), nil
}

// withSlippage widens amount by the slippage tolerance, up for amounts paid
// and down for amounts received.
func (m *Bonding) withSlippage(amount decimal.Decimal, up bool) decimal.Decimal {
	if m.slippageBps == 0 {
		return amount
	}
	bps := decimal.NewFromUint64(m.slippageBps)
	factor := bpsDenominator.Sub(bps)
	if up {
		factor = bpsDenominator.Add(bps)
	}
	// amount * factor / denominator
	return amount.Mul(factor).Div(bpsDenominator)
}

func (m *Bonding) logQuote(msg string, snap *Snapshot, fromMint, toMint solana.PublicKey, result *QuoteResult) {
	m.logger.Debug(msg,
		zap.Stringer("from_mint", fromMint),
		zap.Stringer("to_mint", toMint),
		zap.Int64("unix_time", snap.UnixTime),
		zap.Uint64("amount_in", result.AmountIn),
		zap.Uint64("amount_out", result.AmountOut),
		zap.Uint64("minimum_amount_out", result.MinimumAmountOut),
		zap.Uint64("maximum_amount_in", result.MaximumAmountIn),
	)
}

func (r *QuoteResult) String() string {
	return fmt.Sprintf("in=%d out=%d min_out=%d max_in=%d", r.AmountIn, r.AmountOut, r.MinimumAmountOut, r.MaximumAmountIn)
}
