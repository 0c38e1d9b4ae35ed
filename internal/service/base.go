// Package service contains business logic and integrations backing HTTP handlers.
package service

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// BaseService provides common dependencies for service types.
type BaseService struct {
	logger *slog.Logger
}

// ReserveProvider loads a reserve snapshot for two assets.
type ReserveProvider interface {
	FetchReserves(ctx context.Context, a, b uniswapv2.Asset) (*uniswapv2.Pair, error)
}

// resolvePair resolves src and dst and rejects identical tokens.
func resolvePair(tokens *TokenRegistry, src, dst common.Address) (uniswapv2.Asset, uniswapv2.Asset, error) {
	if src == dst {
		return uniswapv2.Asset{}, uniswapv2.Asset{}, ErrSameToken
	}
	a, err := tokens.Resolve(src)
	if err != nil {
		return uniswapv2.Asset{}, uniswapv2.Asset{}, err
	}
	b, err := tokens.Resolve(dst)
	if err != nil {
		return uniswapv2.Asset{}, uniswapv2.Asset{}, err
	}
	return a, b, nil
}
