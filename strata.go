package strata

import (
	"github.com/krazyTry/strata-go/bonding"
	tb "github.com/krazyTry/strata-go/bonding/token_bonding"
)

// NewBondingClient creates a new bonding quote client.
//
// Example:
//
// client, _ := NewBondingClient(solana.WrappedSol, 250, logger)
//
// snap, _ := client.LoadSnapshot("snapshot.json")
//
// client.SwapQuote(snap, fromMint, toMint, amountIn, false)
var NewBondingClient = bonding.NewBonding

// NewBondingHierarchy links bondings into a chain rooted at a target mint.
var NewBondingHierarchy = tb.NewBondingHierarchy

// NewBondingPricing prices across a hierarchy.
//
// Example:
//
// pricing := NewBondingPricing(hierarchy)
//
// pricing.Swap(amount, baseMint, targetMint, false, unixTime)
var NewBondingPricing = tb.NewBondingPricing
