package service

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// TokenRegistry resolves addresses to assets on one chain. The chain's
// native sentinel is always present.
type TokenRegistry struct {
	chainID uint64
	byAddr  map[common.Address]uniswapv2.Asset
}

// NewTokenRegistry indexes assets on chainID by address. Assets of other
// chains are skipped and the native sentinel is always present.
func NewTokenRegistry(chainID uint64, assets ...uniswapv2.Asset) *TokenRegistry {
	r := &TokenRegistry{chainID: chainID, byAddr: make(map[common.Address]uniswapv2.Asset, len(assets)+1)}
	if native, ok := uniswapv2.NativeAsset(chainID); ok {
		r.byAddr[native.Address] = native
	}
	for _, a := range assets {
		if a.ChainID != chainID {
			continue
		}
		r.byAddr[a.Address] = a
	}
	return r
}

// ChainID is the chain the registry serves.
func (r *TokenRegistry) ChainID() uint64 { return r.chainID }

// Resolve returns ErrUnknownToken for addresses not in the registry.
func (r *TokenRegistry) Resolve(addr common.Address) (uniswapv2.Asset, error) {
	a, ok := r.byAddr[addr]
	if !ok {
		return uniswapv2.Asset{}, fmt.Errorf("%w: %s", ErrUnknownToken, addr.Hex())
	}
	return a, nil
}

// All returns the registered assets ordered by symbol.
func (r *TokenRegistry) All() []uniswapv2.Asset {
	out := make([]uniswapv2.Asset, 0, len(r.byAddr))
	for _, a := range r.byAddr {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].SortsBefore(out[j])
	})
	return out
}
