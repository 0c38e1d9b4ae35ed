// Package executor runs the pre-submission checks for a swap and hands the
// descriptor to the settlement layer.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/internal/metrics"
	"github.com/eliobricenov/uniswap-swapper/internal/operation"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// Signer identifies the account that commits funds. Key material stays
// behind the implementation.
type Signer interface {
	Address() common.Address
}

// BalanceChecker reads balances of the owner.
type BalanceChecker interface {
	// Balance returns the raw token balance of owner.
	Balance(ctx context.Context, asset uniswapv2.Asset, owner common.Address) (*big.Int, error)
	// NativeBalance returns the owner's native-currency balance in wei.
	NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// AllowanceChecker reads the ERC-20 allowance owner granted spender.
type AllowanceChecker interface {
	Allowance(ctx context.Context, asset uniswapv2.Asset, owner, spender common.Address) (*big.Int, error)
}

// Approver grants spender an allowance of amount and returns only after the
// approval has been mined.
type Approver interface {
	Approve(ctx context.Context, asset uniswapv2.Asset, spender common.Address, amount *big.Int) (common.Hash, error)
}

// Submitter sends one descriptor and returns the pending transaction hash.
type Submitter interface {
	Submit(ctx context.Context, d *operation.Descriptor) (common.Hash, error)
}

// Executor sequences balance check, allowance check, approval and submission.
// Each step starts only after the previous one completed.
type Executor struct {
	logger    *slog.Logger
	signer    Signer
	balances  BalanceChecker
	allowance AllowanceChecker
	approver  Approver
	submitter Submitter
	spender   common.Address
	metrics   *metrics.SwapMetrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics records approvals and submissions.
func WithMetrics(m *metrics.SwapMetrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// New builds an Executor. spender is the router that pulls the input token.
func New(logger *slog.Logger, signer Signer, balances BalanceChecker, allowance AllowanceChecker, approver Approver, submitter Submitter, spender common.Address, opts ...Option) *Executor {
	e := &Executor{
		logger:    logger,
		signer:    signer,
		balances:  balances,
		allowance: allowance,
		approver:  approver,
		submitter: submitter,
		spender:   spender,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes a submitted swap.
type Result struct {
	TxHash       common.Hash
	ApprovalHash common.Hash
	Approved     bool
}

// Execute validates d against the signer's funds and submits it. input is
// the asset being spent; for NativeIn it is the native sentinel and only the
// native balance is checked.
func (e *Executor) Execute(ctx context.Context, d *operation.Descriptor, input uniswapv2.Asset) (*Result, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}
	res, err := e.execute(ctx, d, input)
	e.metrics.ObserveSubmission(d.Variant.String(), err)
	return res, err
}

func (e *Executor) execute(ctx context.Context, d *operation.Descriptor, input uniswapv2.Asset) (*Result, error) {
	owner := e.signer.Address()
	committed := d.Committed()
	e.logger.Debug("executing swap", "variant", d.Variant.String(), "owner", owner.Hex(), "committed", committed.String())

	if err := e.checkBalance(ctx, d.Variant, input, owner, committed); err != nil {
		return nil, err
	}

	res := &Result{}
	if d.Variant != operation.NativeIn {
		hash, approved, err := e.ensureAllowance(ctx, input, owner, committed)
		if err != nil {
			return nil, err
		}
		res.ApprovalHash, res.Approved = hash, approved
	}

	hash, err := e.submitter.Submit(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("submit swap: %w", err)
	}
	res.TxHash = hash
	e.logger.Info("swap submitted", "variant", d.Variant.String(), "tx", hash.Hex())
	return res, nil
}

func (e *Executor) checkBalance(ctx context.Context, variant operation.Variant, input uniswapv2.Asset, owner common.Address, committed *big.Int) error {
	var (
		balance *big.Int
		err     error
	)
	if variant == operation.NativeIn {
		balance, err = e.balances.NativeBalance(ctx, owner)
	} else {
		balance, err = e.balances.Balance(ctx, input, owner)
	}
	if err != nil {
		return fmt.Errorf("balance of %s: %w", owner.Hex(), err)
	}
	if balance.Cmp(committed) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, balance, committed)
	}
	return nil
}

func (e *Executor) ensureAllowance(ctx context.Context, input uniswapv2.Asset, owner common.Address, committed *big.Int) (common.Hash, bool, error) {
	allowance, err := e.allowance.Allowance(ctx, input, owner, e.spender)
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("allowance of %s: %w", input.Address.Hex(), err)
	}
	if allowance.Cmp(committed) >= 0 {
		return common.Hash{}, false, nil
	}

	e.logger.Info("approving router", "token", input.Address.Hex(), "spender", e.spender.Hex(), "amount", committed.String())
	hash, err := e.approver.Approve(ctx, input, e.spender, committed)
	e.metrics.ObserveApproval(err)
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("%w: %w", ErrApprovalFailed, err)
	}
	return hash, true, nil
}
