package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// Tokens reads ERC-20 balances and allowances and issues approvals. The
// transactor may be nil, in which case Approve fails with ErrNotConfigured.
type Tokens struct {
	logger  *slog.Logger
	backend Backend
	tx      *Transactor
}

// NewTokens reads through backend. tx may be nil, in which case Approve
// fails with ErrNotConfigured.
func NewTokens(logger *slog.Logger, backend Backend, tx *Transactor) *Tokens {
	return &Tokens{logger: logger, backend: backend, tx: tx}
}

// Balance calls balanceOf(owner) on the token.
func (t *Tokens) Balance(ctx context.Context, asset uniswapv2.Asset, owner common.Address) (*big.Int, error) {
	return t.callUint(ctx, asset.Address, "balanceOf", owner)
}

// NativeBalance returns the owner's wei balance at the latest block.
func (t *Tokens) NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.backend.BalanceAt(ctx, owner, nil)
}

// Allowance calls allowance(owner, spender) on the token.
func (t *Tokens) Allowance(ctx context.Context, asset uniswapv2.Asset, owner, spender common.Address) (*big.Int, error) {
	return t.callUint(ctx, asset.Address, "allowance", owner, spender)
}

// Approve sends approve(spender, amount) and waits until it is mined.
func (t *Tokens) Approve(ctx context.Context, asset uniswapv2.Asset, spender common.Address, amount *big.Int) (common.Hash, error) {
	if t.tx == nil {
		return common.Hash{}, ErrNotConfigured
	}
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack approve: %w", err)
	}
	hash, err := t.tx.Send(ctx, asset.Address, nil, data)
	if err != nil {
		return common.Hash{}, err
	}
	if _, err := t.tx.WaitMined(ctx, hash); err != nil {
		return hash, err
	}
	t.logger.Debug("approval mined", "token", asset.Address.Hex(), "spender", spender.Hex(), "tx", hash.Hex())
	return hash, nil
}

func (t *Tokens) callUint(ctx context.Context, token common.Address, method string, args ...any) (*big.Int, error) {
	input, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := t.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_call %s on %s: %w", method, token.Hex(), err)
	}
	values, err := erc20ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected %s outputs: %d", method, len(values))
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type: %T", method, values[0])
	}
	return v, nil
}
