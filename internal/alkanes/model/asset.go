// Package model defines domain types shared by the alkanes transaction pipeline.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is an unsigned token quantity bounded to 128 bits.
type Amount = uint256.Int

// MaxAmountBits is the width of protocol amounts.
const MaxAmountBits = 128

// Units returns an Amount holding v.
func Units(v uint64) Amount {
	return *uint256.NewInt(v)
}

// ParseAmount parses a base-10 unsigned integer that fits in 128 bits.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Amount{}, fmt.Errorf("amount %q is not an unsigned decimal", s)
		}
	}
	var v uint256.Int
	if err := v.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if v.BitLen() > MaxAmountBits {
		return Amount{}, fmt.Errorf("amount %q exceeds 128 bits", s)
	}
	return v, nil
}

// AssetID identifies an alkane token class by its (block, tx) pair.
type AssetID struct {
	Block uint64
	Tx    uint64
}

// BaseAsset is not an alkane; it marks base-currency requirements and shortfalls.
var BaseAsset = AssetID{Block: ^uint64(0), Tx: ^uint64(0)}

// IsBase reports whether the id is the base-currency marker.
func (a AssetID) IsBase() bool {
	return a == BaseAsset
}

// String renders the id as "block:tx", or "B" for the base currency.
func (a AssetID) String() string {
	if a.IsBase() {
		return "B"
	}
	return strconv.FormatUint(a.Block, 10) + ":" + strconv.FormatUint(a.Tx, 10)
}

// ParseAssetID parses the "block:tx" form.
func ParseAssetID(s string) (AssetID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return AssetID{}, fmt.Errorf("asset id %q: want block:tx", s)
	}
	block, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return AssetID{}, fmt.Errorf("asset id %q: block: %w", s, err)
	}
	tx, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return AssetID{}, fmt.Errorf("asset id %q: tx: %w", s, err)
	}
	return AssetID{Block: block, Tx: tx}, nil
}

// Well-known assets.
var (
	FrBTC  = AssetID{Block: 32, Tx: 0}
	Diesel = AssetID{Block: 2, Tx: 0}
)
