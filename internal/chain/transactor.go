package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const defaultPollInterval = 2 * time.Second

// Transactor builds, signs and broadcasts legacy transactions from one
// signer. Callers must not send from the same signer concurrently; nonces
// are read from the pending state on every send.
type Transactor struct {
	logger       *slog.Logger
	backend      Backend
	signer       *KeySigner
	chainID      *big.Int
	gasLimit     uint64
	pollInterval time.Duration
}

// NewTransactor signs legacy transactions for chainID with a fixed gas limit.
func NewTransactor(logger *slog.Logger, backend Backend, signer *KeySigner, chainID uint64, gasLimit uint64) *Transactor {
	return &Transactor{
		logger:       logger,
		backend:      backend,
		signer:       signer,
		chainID:      new(big.Int).SetUint64(chainID),
		gasLimit:     gasLimit,
		pollInterval: defaultPollInterval,
	}
}

// WithPollInterval sets how often WaitMined asks for the receipt.
func (t *Transactor) WithPollInterval(d time.Duration) *Transactor {
	t.pollInterval = d
	return t
}

// From is the sending account.
func (t *Transactor) From() common.Address { return t.signer.Address() }

// Send signs and broadcasts a call to `to` carrying value and data.
func (t *Transactor) Send(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	from := t.signer.Address()
	nonce, err := t.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := t.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas price: %w", err)
	}
	if value == nil {
		value = new(big.Int)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      t.gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := t.signer.SignTx(tx, t.chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send tx: %w", err)
	}
	t.logger.Debug("transaction sent", "from", from.Hex(), "to", to.Hex(), "nonce", nonce, "tx", signed.Hash().Hex())
	return signed.Hash(), nil
}

// WaitMined polls for the receipt of hash until it is mined or ctx is done.
// A failed receipt status is reported as ErrTxReverted.
func (t *Transactor) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := t.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("%w: %s", ErrTxReverted, hash.Hex())
			}
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("receipt %s: %w", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
