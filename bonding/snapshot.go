package bonding

import (
	"fmt"
	"os"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	tb "github.com/krazyTry/strata-go/bonding/token_bonding"
	"github.com/krazyTry/strata-go/u128"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const nativeDecimals = 9

// Snapshot is the ledger state a quote is priced against. Amounts in
// Bondings are already in human units.
type Snapshot struct {
	UnixTime          int64
	WrappedNativeMint solana.PublicKey
	Decimals          map[solana.PublicKey]uint8
	Bondings          []tb.TokenBonding
}

// MintDecimals returns the decimals of mint. Native SOL defaults to 9.
func (s *Snapshot) MintDecimals(mint solana.PublicKey) (uint8, error) {
	if d, ok := s.Decimals[mint]; ok {
		return d, nil
	}
	if mint.Equals(solana.WrappedSol) || (!s.WrappedNativeMint.IsZero() && mint.Equals(s.WrappedNativeMint)) {
		return nativeDecimals, nil
	}
	return 0, fmt.Errorf("%w: no decimals for mint %s", ErrInvalidSnapshot, mint)
}

// LoadSnapshot reads and decodes a snapshot file.
func (m *Bonding) LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return m.DecodeSnapshot(data)
}

// DecodeSnapshot decodes a JSON snapshot. Reserves and supplies are raw
// token amounts, coefficients raw 12 decimal integers and percentages raw
// u32 fractions of 2^32-1.
//
// Example:
//
//	{
//	  "unix_time": 1700000000,
//	  "mints": {"<mint>": {"decimals": 9}},
//	  "bondings": [{
//	    "base_mint": "<mint>", "target_mint": "<mint>",
//	    "reserve_balance": "1000000000", "target_supply": "1000000000",
//	    "go_live_unix_time": 1690000000,
//	    "curve": {"exponential_curve_v0": {"c": "1000000000000", "b": "0", "pow": 1, "frac": 1}}
//	  }]
//	}
func (m *Bonding) DecodeSnapshot(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(data)

	unixTime, err := parseInt(root, "unix_time")
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		UnixTime:          unixTime,
		WrappedNativeMint: m.wrappedNativeMint,
		Decimals:          make(map[solana.PublicKey]uint8),
	}
	if v := root.Get("wrapped_native_mint"); v.Exists() {
		mint, err := parseMint(v)
		if err != nil {
			return nil, fmt.Errorf("wrapped_native_mint: %w", err)
		}
		snap.WrappedNativeMint = mint
	}

	root.Get("mints").ForEach(func(key, value gjson.Result) bool {
		var mint solana.PublicKey
		if mint, err = parseMint(key); err != nil {
			return false
		}
		var d uint64
		if d, err = parseUint(value, "decimals", 8); err != nil {
			err = fmt.Errorf("mint %s: %w", mint, err)
			return false
		}
		snap.Decimals[mint] = uint8(d)
		return true
	})
	if err != nil {
		return nil, err
	}

	for i, b := range root.Get("bondings").Array() {
		bonding, err := decodeBonding(snap, b)
		if err != nil {
			return nil, fmt.Errorf("bonding %d: %w", i, err)
		}
		snap.Bondings = append(snap.Bondings, bonding)
	}

	m.logger.Debug("decoded snapshot",
		zap.Int64("unix_time", snap.UnixTime),
		zap.Int("mints", len(snap.Decimals)),
		zap.Int("bondings", len(snap.Bondings)),
	)
	return snap, nil
}

func decodeBonding(snap *Snapshot, b gjson.Result) (tb.TokenBonding, error) {
	var out tb.TokenBonding
	var err error

	if out.BaseMint, err = parseMint(b.Get("base_mint")); err != nil {
		return out, fmt.Errorf("base_mint: %w", err)
	}
	if out.TargetMint, err = parseMint(b.Get("target_mint")); err != nil {
		return out, fmt.Errorf("target_mint: %w", err)
	}
	baseDecimals, err := snap.MintDecimals(out.BaseMint)
	if err != nil {
		return out, err
	}
	targetDecimals, err := snap.MintDecimals(out.TargetMint)
	if err != nil {
		return out, err
	}

	reserve, err := parseUint(b, "reserve_balance", 64)
	if err != nil {
		return out, err
	}
	supply, err := parseUint(b, "target_supply", 64)
	if err != nil {
		return out, err
	}
	out.ReserveBalance = tb.AmountAsNum(reserve, baseDecimals)
	out.TargetSupply = tb.AmountAsNum(supply, targetDecimals)
	if out.GoLiveUnixTime, err = optionalInt(b, "go_live_unix_time"); err != nil {
		return out, err
	}

	for _, r := range []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"buy_base_royalty_percentage", &out.BuyBaseRoyaltyPercentage},
		{"buy_target_royalty_percentage", &out.BuyTargetRoyaltyPercentage},
		{"sell_base_royalty_percentage", &out.SellBaseRoyaltyPercentage},
		{"sell_target_royalty_percentage", &out.SellTargetRoyaltyPercentage},
	} {
		pct, err := optionalUint(b, r.field, 32)
		if err != nil {
			return out, err
		}
		*r.dst = tb.PercentToDecimal(uint32(pct))
	}
	out.BuyFrozen = b.Get("buy_frozen").Bool()
	out.SellFrozen = b.Get("sell_frozen").Bool()

	if out.Curve, err = decodeCurve(b.Get("curve")); err != nil {
		return out, fmt.Errorf("curve: %w", err)
	}
	return out, nil
}

// decodeCurve reads the single-key tagged union of a curve definition.
func decodeCurve(v gjson.Result) (tb.Curve, error) {
	tag, body, err := variant(v)
	if err != nil {
		return nil, err
	}
	if tag != "time_v0" {
		return decodePrimitive(tag, body)
	}

	var entries []tb.TimeCurveEntry
	for i, e := range body.Get("curves").Array() {
		ptag, pbody, err := variant(e.Get("curve"))
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		primitive, err := decodePrimitive(ptag, pbody)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		offset, err := parseInt(e, "offset")
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		buyFees, err := decodeFees(e.Get("buy_transition_fees"))
		if err != nil {
			return nil, fmt.Errorf("segment %d: buy_transition_fees: %w", i, err)
		}
		sellFees, err := decodeFees(e.Get("sell_transition_fees"))
		if err != nil {
			return nil, fmt.Errorf("segment %d: sell_transition_fees: %w", i, err)
		}
		entries = append(entries, tb.TimeCurveEntry{
			Offset:             offset,
			Curve:              primitive,
			BuyTransitionFees:  buyFees,
			SellTransitionFees: sellFees,
		})
	}
	return tb.NewTimeCurveV0(entries...)
}

func decodePrimitive(tag string, body gjson.Result) (tb.PrimitiveCurve, error) {
	switch tag {
	case "exponential_curve_v0":
		c, err := parseCoefficient(body, "c")
		if err != nil {
			return nil, err
		}
		b, err := parseCoefficient(body, "b")
		if err != nil {
			return nil, err
		}
		pow, err := parseUint(body, "pow", 8)
		if err != nil {
			return nil, err
		}
		frac, err := parseUint(body, "frac", 8)
		if err != nil {
			return nil, err
		}
		return tb.NewExponentialCurveV0(c, b, uint8(pow), uint8(frac))
	case "time_decay_exponential_curve_v0":
		c, err := parseCoefficient(body, "c")
		if err != nil {
			return nil, err
		}
		k0, err := parseCoefficient(body, "k0")
		if err != nil {
			return nil, err
		}
		k1, err := parseCoefficient(body, "k1")
		if err != nil {
			return nil, err
		}
		d, err := parseCoefficient(body, "d")
		if err != nil {
			return nil, err
		}
		interval, err := parseUint(body, "interval", 32)
		if err != nil {
			return nil, err
		}
		return tb.NewTimeDecayExponentialCurveV0(c, k0, k1, d, uint32(interval))
	default:
		return nil, fmt.Errorf("%w: unknown curve %q", ErrInvalidSnapshot, tag)
	}
}

func decodeFees(v gjson.Result) (*tb.TransitionFee, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	pct, err := parseUint(v, "percentage", 32)
	if err != nil {
		return nil, err
	}
	interval, err := parseUint(v, "interval", 32)
	if err != nil {
		return nil, err
	}
	return &tb.TransitionFee{Percentage: uint32(pct), Interval: uint32(interval)}, nil
}

func variant(v gjson.Result) (string, gjson.Result, error) {
	if !v.IsObject() {
		return "", gjson.Result{}, fmt.Errorf("%w: curve must be an object", ErrInvalidSnapshot)
	}
	var tag string
	var body gjson.Result
	n := 0
	v.ForEach(func(key, value gjson.Result) bool {
		tag, body = key.String(), value
		n++
		return true
	})
	if n != 1 {
		return "", gjson.Result{}, fmt.Errorf("%w: curve must have exactly one variant, has %d", ErrInvalidSnapshot, n)
	}
	return tag, body, nil
}

func parseMint(v gjson.Result) (solana.PublicKey, error) {
	if !v.Exists() {
		return solana.PublicKey{}, fmt.Errorf("%w: missing mint", ErrInvalidSnapshot)
	}
	mint, err := solana.PublicKeyFromBase58(v.String())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return mint, nil
}

// parseUint reads an integer that must fit in bitSize unsigned bits. Numbers
// and numeric strings are accepted; negatives, fractions and overflow are not.
func parseUint(obj gjson.Result, field string, bitSize int) (uint64, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, field)
	}
	return toUint(v, field, bitSize)
}

func optionalUint(obj gjson.Result, field string, bitSize int) (uint64, error) {
	v := obj.Get(field)
	if !v.Exists() || v.Type == gjson.Null {
		return 0, nil
	}
	return toUint(v, field, bitSize)
}

func toUint(v gjson.Result, field string, bitSize int) (uint64, error) {
	if v.Type != gjson.Number && v.Type != gjson.String {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidSnapshot, field)
	}
	n, err := strconv.ParseUint(v.String(), 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, field, err)
	}
	return n, nil
}

func parseInt(obj gjson.Result, field string) (int64, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, field)
	}
	return toInt(v, field)
}

func optionalInt(obj gjson.Result, field string) (int64, error) {
	v := obj.Get(field)
	if !v.Exists() || v.Type == gjson.Null {
		return 0, nil
	}
	return toInt(v, field)
}

func toInt(v gjson.Result, field string) (int64, error) {
	if v.Type != gjson.Number && v.Type != gjson.String {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidSnapshot, field)
	}
	n, err := strconv.ParseInt(v.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, field, err)
	}
	return n, nil
}

func parseCoefficient(body gjson.Result, field string) (bin.Uint128, error) {
	v := body.Get(field)
	if !v.Exists() {
		return bin.Uint128{}, fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, field)
	}
	c, err := u128.Parse(v.String())
	if err != nil {
		return bin.Uint128{}, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, field, err)
	}
	return c, nil
}
