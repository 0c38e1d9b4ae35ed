package uniswapv2

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Asset is a tradeable token scoped to a chain. Two assets are equal when
// they share chain and address; symbol and decimals are display metadata.
type Asset struct {
	ChainID  uint64
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// NewAsset describes an ERC-20 token on chainID.
func NewAsset(chainID uint64, address common.Address, symbol string, decimals uint8) Asset {
	return Asset{ChainID: chainID, Address: address, Symbol: symbol, Decimals: decimals}
}

// Equal compares chain and address. Symbol and decimals are metadata.
func (a Asset) Equal(o Asset) bool {
	return a.ChainID == o.ChainID && a.Address == o.Address
}

// SortsBefore reports whether a is token0 in a pair with o. The order is the
// byte order of the addresses, which is the order the factory uses.
func (a Asset) SortsBefore(o Asset) bool {
	return bytes.Compare(a.Address.Bytes(), o.Address.Bytes()) < 0
}

// String returns the symbol, or the address when the symbol is empty.
func (a Asset) String() string {
	if a.Symbol != "" {
		return a.Symbol
	}
	return a.Address.Hex()
}

// TokenAmount is a raw integer amount of an asset.
type TokenAmount struct {
	Asset Asset
	Raw   *big.Int
}

// NewTokenAmount copies raw so the amount never aliases the caller's integer.
func NewTokenAmount(asset Asset, raw *big.Int) TokenAmount {
	return TokenAmount{Asset: asset, Raw: new(big.Int).Set(raw)}
}

// ParseTokenAmount converts decimal text such as "19.94" into raw units of
// asset. Fractional digits beyond the asset's precision are truncated.
func ParseTokenAmount(asset Asset, text string) (TokenAmount, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	raw := d.Shift(int32(asset.Decimals)).Truncate(0).BigInt()
	return TokenAmount{Asset: asset, Raw: raw}, nil
}

// Fraction returns the amount in whole units (raw / 10^decimals).
func (t TokenAmount) Fraction() Fraction {
	return NewFraction(t.Raw, new(big.Int).Exp(bigTen, big.NewInt(int64(t.Asset.Decimals)), nil))
}

// ToSignificant renders the amount in whole units, rounding half up.
func (t TokenAmount) ToSignificant(digits int) string {
	return t.Fraction().ToSignificant(digits)
}

// ToFixed renders the amount in whole units with places decimals.
func (t TokenAmount) ToFixed(places int) string {
	return t.Fraction().ToFixed(places)
}
