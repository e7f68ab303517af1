package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

var (
	ErrNegative = errors.New("value cannot be negative")
	ErrOverflow = errors.New("value overflows Uint128")
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBigInt(i)
	if err != nil {
		return err
	}
	u.Lo, u.Hi, u.Endianness = v.Lo, v.Hi, v.Endianness
	return nil
}

// FromBigInt packs a non-negative integer of at most 128 bits.
func FromBigInt(i *big.Int) (binary.Uint128, error) {
	if i.Sign() < 0 {
		return binary.Uint128{}, ErrNegative
	}
	if i.BitLen() > 128 {
		return binary.Uint128{}, ErrOverflow
	}
	u := binary.NewUint128LittleEndian()
	u.Lo = new(big.Int).And(i, new(big.Int).SetUint64(^uint64(0))).Uint64()
	u.Hi = new(big.Int).Rsh(i, 64).Uint64()
	return *u, nil
}

// Parse reads a base-10 integer string.
func Parse(num string) (binary.Uint128, error) {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		return binary.Uint128{}, fmt.Errorf("parse uint128 %q: %w", num, err)
	}
	return *u128, nil
}

func GenUint128FromString(num string) binary.Uint128 {
	u, err := Parse(num)
	if err != nil {
		panic(err)
	}
	return u
}

func GenUint128FromUint64(v uint64) binary.Uint128 {
	u := binary.NewUint128LittleEndian()
	u.Lo = v
	return *u
}
