package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/internal/executor"
	"github.com/eliobricenov/uniswap-swapper/internal/operation"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

var (
	tokenA = uniswapv2.NewAsset(1, common.HexToAddress("0x00000000000000000000000000000000000000aa"), "AAA", 18)
	tokenB = uniswapv2.NewAsset(1, common.HexToAddress("0x00000000000000000000000000000000000000bb"), "BBB", 18)
	tokenC = uniswapv2.NewAsset(1, common.HexToAddress("0x00000000000000000000000000000000000000cc"), "CCC", 6)
	weth   = uniswapv2.NewAsset(1, uniswapv2.WrappedNativeTokens[1], "ETH", 18)

	owner  = common.HexToAddress("0x0000000000000000000000000000000000000001")
	router = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// fakeReserves serves fixed reserves keyed by the sorted pair.
type fakeReserves struct {
	mu       sync.Mutex
	reserves map[[2]common.Address][2]*big.Int
	err      error
	calls    int
}

func newFakeReserves() *fakeReserves {
	return &fakeReserves{reserves: map[[2]common.Address][2]*big.Int{}}
}

func (f *fakeReserves) set(a uniswapv2.Asset, ra *big.Int, b uniswapv2.Asset, rb *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !a.SortsBefore(b) {
		a, b, ra, rb = b, a, rb, ra
	}
	f.reserves[[2]common.Address{a.Address, b.Address}] = [2]*big.Int{ra, rb}
}

func (f *fakeReserves) FetchReserves(_ context.Context, a, b uniswapv2.Asset) (*uniswapv2.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	x, y := a, b
	if !x.SortsBefore(y) {
		x, y = y, x
	}
	r, ok := f.reserves[[2]common.Address{x.Address, y.Address}]
	if !ok {
		return nil, errors.New("no such pair")
	}
	return uniswapv2.NewPair(uniswapv2.NewTokenAmount(x, r[0]), uniswapv2.NewTokenAmount(y, r[1]))
}

// fakeWallet implements the executor collaborators.
type fakeWallet struct {
	calls     []string
	balance   *big.Int
	native    *big.Int
	allowance *big.Int
	submitted *operation.Descriptor
}

func (w *fakeWallet) Address() common.Address { return owner }

func (w *fakeWallet) Balance(context.Context, uniswapv2.Asset, common.Address) (*big.Int, error) {
	w.calls = append(w.calls, "balance")
	return w.balance, nil
}

func (w *fakeWallet) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	w.calls = append(w.calls, "native_balance")
	return w.native, nil
}

func (w *fakeWallet) Allowance(context.Context, uniswapv2.Asset, common.Address, common.Address) (*big.Int, error) {
	w.calls = append(w.calls, "allowance")
	return w.allowance, nil
}

func (w *fakeWallet) Approve(_ context.Context, _ uniswapv2.Asset, _ common.Address, amount *big.Int) (common.Hash, error) {
	w.calls = append(w.calls, "approve")
	w.allowance = amount
	return common.HexToHash("0x01"), nil
}

func (w *fakeWallet) Submit(_ context.Context, d *operation.Descriptor) (common.Hash, error) {
	w.calls = append(w.calls, "submit")
	w.submitted = d
	return common.HexToHash("0x02"), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry() *TokenRegistry {
	return NewTokenRegistry(1, tokenA, tokenB, tokenC)
}

func testExecutor(w *fakeWallet) *executor.Executor {
	return executor.New(discardLogger(), w, w, w, w, w, router)
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// gatedReserves blocks the next fetch after arm until release is closed.
type gatedReserves struct {
	*fakeReserves
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedReserves(inner *fakeReserves) *gatedReserves {
	return &gatedReserves{fakeReserves: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedReserves) arm() { g.armed.Store(true) }

func (g *gatedReserves) FetchReserves(ctx context.Context, a, b uniswapv2.Asset) (*uniswapv2.Pair, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.fakeReserves.FetchReserves(ctx, a, b)
}
