package uniswapv2

import (
	"fmt"
	"math/big"
)

// Pair is a reserve snapshot of a constant-product pool. Assets are held in
// canonical (token0, token1) order regardless of construction order.
type Pair struct {
	token0   Asset
	token1   Asset
	reserve0 *big.Int
	reserve1 *big.Int
}

// NewPair builds a pair from two reserve amounts given in any order.
func NewPair(a, b TokenAmount) (*Pair, error) {
	if a.Asset.ChainID != b.Asset.ChainID {
		return nil, ErrChainMismatch
	}
	if a.Asset.Equal(b.Asset) {
		return nil, ErrIdenticalAssets
	}
	if a.Raw == nil || b.Raw == nil || a.Raw.Sign() < 0 || b.Raw.Sign() < 0 {
		return nil, ErrNegativeReserve
	}
	if !a.Asset.SortsBefore(b.Asset) {
		a, b = b, a
	}
	return &Pair{
		token0:   a.Asset,
		token1:   b.Asset,
		reserve0: new(big.Int).Set(a.Raw),
		reserve1: new(big.Int).Set(b.Raw),
	}, nil
}

// Token0 is the asset with the lower address.
func (p *Pair) Token0() Asset { return p.token0 }
// Token1 is the asset with the higher address.
func (p *Pair) Token1() Asset { return p.token1 }

// Reserve0 returns a copy of the token0 reserve.
func (p *Pair) Reserve0() TokenAmount { return NewTokenAmount(p.token0, p.reserve0) }
// Reserve1 returns a copy of the token1 reserve.
func (p *Pair) Reserve1() TokenAmount { return NewTokenAmount(p.token1, p.reserve1) }

// ChainID is the chain both assets live on.
func (p *Pair) ChainID() uint64 { return p.token0.ChainID }

// Involves reports whether a is one of the pair's assets.
func (p *Pair) Involves(a Asset) bool {
	return a.Equal(p.token0) || a.Equal(p.token1)
}

// ReserveOf returns the reserve held for a.
func (p *Pair) ReserveOf(a Asset) (TokenAmount, error) {
	switch {
	case a.Equal(p.token0):
		return p.Reserve0(), nil
	case a.Equal(p.token1):
		return p.Reserve1(), nil
	default:
		return TokenAmount{}, fmt.Errorf("%w: %s", ErrAssetNotInPair, a.Address.Hex())
	}
}

// Other returns the asset on the opposite side of a.
func (p *Pair) Other(a Asset) (Asset, error) {
	switch {
	case a.Equal(p.token0):
		return p.token1, nil
	case a.Equal(p.token1):
		return p.token0, nil
	default:
		return Asset{}, fmt.Errorf("%w: %s", ErrAssetNotInPair, a.Address.Hex())
	}
}

func (p *Pair) reservesFor(input Asset) (reserveIn, reserveOut *big.Int, output Asset, err error) {
	switch {
	case input.Equal(p.token0):
		reserveIn, reserveOut, output = p.reserve0, p.reserve1, p.token1
	case input.Equal(p.token1):
		reserveIn, reserveOut, output = p.reserve1, p.reserve0, p.token0
	default:
		return nil, nil, Asset{}, fmt.Errorf("%w: %s", ErrAssetNotInPair, input.Address.Hex())
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, nil, Asset{}, ErrZeroReserve
	}
	return reserveIn, reserveOut, output, nil
}

// OutputAmount returns what the pair pays out for an exact input amount.
func (p *Pair) OutputAmount(in TokenAmount) (TokenAmount, error) {
	if in.Raw == nil || in.Raw.Sign() <= 0 {
		return TokenAmount{}, ErrInvalidAmount
	}
	reserveIn, reserveOut, output, err := p.reservesFor(in.Asset)
	if err != nil {
		return TokenAmount{}, err
	}
	var dst, t1, t2 big.Int
	out := GetAmountOut(&dst, &t1, &t2, in.Raw, reserveIn, reserveOut)
	if out.Sign() == 0 {
		return TokenAmount{}, ErrInsufficientInputAmount
	}
	return TokenAmount{Asset: output, Raw: out}, nil
}

// InputAmount returns what the pair requires to pay out an exact output
// amount. Requests at or above the output reserve fail with
// ErrInsufficientLiquidity.
func (p *Pair) InputAmount(out TokenAmount) (TokenAmount, error) {
	if out.Raw == nil || out.Raw.Sign() <= 0 {
		return TokenAmount{}, ErrInvalidAmount
	}
	reserveOut, reserveIn, input, err := p.reservesFor(out.Asset)
	if err != nil {
		return TokenAmount{}, err
	}
	if out.Raw.Cmp(reserveOut) >= 0 {
		return TokenAmount{}, ErrInsufficientLiquidity
	}
	var dst, t1, t2 big.Int
	in := GetAmountIn(&dst, &t1, &t2, out.Raw, reserveIn, reserveOut)
	return TokenAmount{Asset: input, Raw: in}, nil
}
