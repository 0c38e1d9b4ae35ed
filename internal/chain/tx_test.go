package chain

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/eliobricenov/uniswap-swapper/internal/operation"
)

const testChainID = 1

var routerAddr = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

func newTestSigner(t *testing.T) *KeySigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := NewKeySigner("0x" + hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)
	return s
}

func newTestTransactor(t *testing.T, fe *fakeEth) (*Transactor, *KeySigner) {
	t.Helper()
	s := newTestSigner(t)
	tx := NewTransactor(discardLogger(), newInprocEthClient(t, fe), s, testChainID, 250_000).
		WithPollInterval(time.Millisecond)
	return tx, s
}

func sender(t *testing.T, tx *types.Transaction) common.Address {
	t.Helper()
	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(testChainID)), tx)
	require.NoError(t, err)
	return from
}

func TestNewKeySigner(t *testing.T) {
	s, err := NewKeySigner("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"), s.Address())

	_, err = NewKeySigner("not-a-key")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestTokensReads(t *testing.T) {
	fe := newFakeEth()
	owner := common.HexToAddress("0x0000000000000000000000000000000000000001")
	fe.balances[assetA.Address] = map[common.Address]*big.Int{owner: big.NewInt(42)}
	fe.allowances[assetA.Address] = map[common.Address]map[common.Address]*big.Int{
		owner: {routerAddr: big.NewInt(7)},
	}
	fe.native[owner] = big.NewInt(99)
	tokens := NewTokens(discardLogger(), newInprocEthClient(t, fe), nil)
	ctx := context.Background()

	bal, err := tokens.Balance(ctx, assetA, owner)
	require.NoError(t, err)
	require.Equal(t, int64(42), bal.Int64())

	allowance, err := tokens.Allowance(ctx, assetA, owner, routerAddr)
	require.NoError(t, err)
	require.Equal(t, int64(7), allowance.Int64())

	none, err := tokens.Allowance(ctx, assetB, owner, routerAddr)
	require.NoError(t, err)
	require.Zero(t, none.Sign())

	native, err := tokens.NativeBalance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, int64(99), native.Int64())
}

func TestTokensApproveWaitsForReceipt(t *testing.T) {
	fe := newFakeEth()
	fe.pending = 2
	tx, s := newTestTransactor(t, fe)
	tokens := NewTokens(discardLogger(), tx.backend, tx)

	hash, err := tokens.Approve(context.Background(), assetA, routerAddr, big.NewInt(1_000))
	require.NoError(t, err)

	sent := fe.transactions()
	require.Len(t, sent, 1)
	require.Equal(t, hash, sent[0].Hash())
	require.Equal(t, assetA.Address, *sent[0].To())
	require.Equal(t, s.Address(), sender(t, sent[0]))
	require.Equal(t, uint64(250_000), sent[0].Gas())
	require.Zero(t, sent[0].Value().Sign())

	method, err := erc20ABI.MethodById(sent[0].Data()[:4])
	require.NoError(t, err)
	require.Equal(t, "approve", method.Name)
	args, err := method.Inputs.Unpack(sent[0].Data()[4:])
	require.NoError(t, err)
	require.Equal(t, routerAddr, args[0])
	require.Equal(t, int64(1_000), args[1].(*big.Int).Int64())
	fe.mu.Lock()
	defer fe.mu.Unlock()
	require.Equal(t, 2, fe.lookups[hash])
}

func TestTokensApproveReverted(t *testing.T) {
	fe := newFakeEth()
	fe.status = types.ReceiptStatusFailed
	tx, _ := newTestTransactor(t, fe)
	tokens := NewTokens(discardLogger(), tx.backend, tx)

	_, err := tokens.Approve(context.Background(), assetA, routerAddr, big.NewInt(1))
	require.ErrorIs(t, err, ErrTxReverted)
}

func TestTokensApproveWithoutSigner(t *testing.T) {
	tokens := NewTokens(discardLogger(), nil, nil)
	_, err := tokens.Approve(context.Background(), assetA, routerAddr, big.NewInt(1))
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestWaitMinedHonoursContext(t *testing.T) {
	fe := newFakeEth()
	fe.pending = 1 << 30
	tx, _ := newTestTransactor(t, fe)
	hash, err := tx.Send(context.Background(), assetA.Address, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = tx.WaitMined(ctx, hash)
	require.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestSendUsesPendingNonce(t *testing.T) {
	fe := newFakeEth()
	fe.nonce = 5
	tx, _ := newTestTransactor(t, fe)
	for i := 0; i < 2; i++ {
		_, err := tx.Send(context.Background(), assetA.Address, big.NewInt(1), nil)
		require.NoError(t, err)
	}
	sent := fe.transactions()
	require.Equal(t, uint64(5), sent[0].Nonce())
	require.Equal(t, uint64(6), sent[1].Nonce())
}

func descriptor(variant operation.Variant) *operation.Descriptor {
	d := &operation.Descriptor{
		Variant:   variant,
		AmountIn:  big.NewInt(1_000),
		AmountOut: big.NewInt(1_982),
		Value:     new(big.Int),
		Path:      []common.Address{assetA.Address, assetB.Address},
		Recipient: common.HexToAddress("0x0000000000000000000000000000000000001234"),
		Deadline:  time.Unix(1_700_001_200, 0),
	}
	if variant == operation.NativeIn {
		d.Value.Set(d.AmountIn)
	}
	return d
}

func TestPackSwap(t *testing.T) {
	cases := []struct {
		variant operation.Variant
		method  string
		want    []any
	}{
		{operation.NativeIn, "swapExactETHForTokens", []any{big.NewInt(1_982)}},
		{operation.NativeOut, "swapTokensForExactETH", []any{big.NewInt(1_982), big.NewInt(1_000)}},
		{operation.TokenToToken, "swapExactTokensForTokens", []any{big.NewInt(1_000), big.NewInt(1_982)}},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			d := descriptor(tc.variant)
			data, err := PackSwap(d)
			require.NoError(t, err)

			method, err := routerABI.MethodById(data[:4])
			require.NoError(t, err)
			require.Equal(t, tc.method, method.Name)

			args, err := method.Inputs.Unpack(data[4:])
			require.NoError(t, err)
			require.Len(t, args, len(tc.want)+3)
			for i, w := range tc.want {
				require.Equal(t, 0, w.(*big.Int).Cmp(args[i].(*big.Int)), "arg %d", i)
			}
			n := len(tc.want)
			require.Equal(t, d.Path, args[n])
			require.Equal(t, d.Recipient, args[n+1])
			require.Equal(t, int64(1_700_001_200), args[n+2].(*big.Int).Int64())
		})
	}

	_, err := PackSwap(&operation.Descriptor{Variant: operation.Variant(9)})
	require.ErrorIs(t, err, operation.ErrUnknownVariant)
}

func TestRouterSubmitAttachesValue(t *testing.T) {
	fe := newFakeEth()
	tx, s := newTestTransactor(t, fe)
	r := NewRouter(routerAddr, tx)

	hash, err := r.Submit(context.Background(), descriptor(operation.NativeIn))
	require.NoError(t, err)

	sent := fe.transactions()
	require.Len(t, sent, 1)
	require.Equal(t, hash, sent[0].Hash())
	require.Equal(t, routerAddr, *sent[0].To())
	require.Equal(t, int64(1_000), sent[0].Value().Int64())
	require.Equal(t, s.Address(), sender(t, sent[0]))
	require.Equal(t, big.NewInt(testChainID), sent[0].ChainId())
}

func TestRouterSubmitWithoutSigner(t *testing.T) {
	_, err := NewRouter(routerAddr, nil).Submit(context.Background(), descriptor(operation.TokenToToken))
	require.ErrorIs(t, err, ErrNotConfigured)
}
