package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/internal/operation"
)

// Router submits descriptors to a Uniswap V2 Router02 deployment.
type Router struct {
	address common.Address
	tx      *Transactor
}

// NewRouter submits swaps to the Router02 deployed at address.
func NewRouter(address common.Address, tx *Transactor) *Router {
	return &Router{address: address, tx: tx}
}

// Address is the router contract, the spender for approvals.
func (r *Router) Address() common.Address { return r.address }

// Submit encodes d for the router method matching its variant and sends it.
// It returns once the transaction is accepted by the node, not when mined.
func (r *Router) Submit(ctx context.Context, d *operation.Descriptor) (common.Hash, error) {
	if r.tx == nil {
		return common.Hash{}, ErrNotConfigured
	}
	data, err := PackSwap(d)
	if err != nil {
		return common.Hash{}, err
	}
	return r.tx.Send(ctx, r.address, d.Value, data)
}

// PackSwap returns the router calldata for d.
func PackSwap(d *operation.Descriptor) ([]byte, error) {
	deadline := big.NewInt(d.Deadline.Unix())
	var (
		data []byte
		err  error
	)
	switch d.Variant {
	case operation.NativeIn:
		data, err = routerABI.Pack("swapExactETHForTokens", d.AmountOut, d.Path, d.Recipient, deadline)
	case operation.NativeOut:
		data, err = routerABI.Pack("swapTokensForExactETH", d.AmountOut, d.AmountIn, d.Path, d.Recipient, deadline)
	case operation.TokenToToken:
		data, err = routerABI.Pack("swapExactTokensForTokens", d.AmountIn, d.AmountOut, d.Path, d.Recipient, deadline)
	default:
		return nil, operation.ErrUnknownVariant
	}
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", d.Variant, err)
	}
	return data, nil
}
