package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// Storage layout of UniswapV2Pair:
//
//	slot 6: address token0
//	slot 7: address token1
//	slot 8: uint112 reserve0 | uint112 reserve1 | uint32 blockTimestampLast
const (
	slotToken0   = 6
	slotToken1   = 7
	slotReserves = 8
)

// ReserveProvider reads pair reserves straight from pair storage at the
// latest block.
type ReserveProvider struct {
	logger       *slog.Logger
	backend      Backend
	factory      common.Address
	initCodeHash common.Hash
}

// NewReserveProvider reads pairs deployed by factory, whose addresses derive
// from initCodeHash.
func NewReserveProvider(logger *slog.Logger, backend Backend, factory common.Address, initCodeHash common.Hash) *ReserveProvider {
	return &ReserveProvider{
		logger:       logger,
		backend:      backend,
		factory:      factory,
		initCodeHash: initCodeHash,
	}
}

// PairAddress returns the CREATE2 address of the pair for a and b.
func (p *ReserveProvider) PairAddress(a, b common.Address) common.Address {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	salt := crypto.Keccak256Hash(a.Bytes(), b.Bytes())
	return crypto.CreateAddress2(p.factory, salt, p.initCodeHash.Bytes())
}

// FetchReserves loads the pair for a and b. The returned Pair carries a and
// b as given, so symbols and decimals come from the caller.
func (p *ReserveProvider) FetchReserves(ctx context.Context, a, b uniswapv2.Asset) (*uniswapv2.Pair, error) {
	if a.Equal(b) {
		return nil, ErrSameToken
	}
	pool := p.PairAddress(a.Address, b.Address)
	return p.ReservesAt(ctx, pool, a, b)
}

// ReservesAt reads the pair stored at pool and checks it holds a and b.
func (p *ReserveProvider) ReservesAt(ctx context.Context, pool common.Address, a, b uniswapv2.Asset) (*uniswapv2.Pair, error) {
	p.logger.Debug("fetching reserves", "pool", pool.Hex(), "a", a.Address.Hex(), "b", b.Address.Hex())

	bn, err := p.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	blockNum := new(big.Int).SetUint64(bn)

	token0, token1, err := p.loadTokens(ctx, pool, blockNum)
	if err != nil {
		return nil, err
	}
	if token0 == (common.Address{}) && token1 == (common.Address{}) {
		return nil, fmt.Errorf("%w: no pair at %s", ErrUnknownPair, pool.Hex())
	}

	br, err := p.readSlot(ctx, pool, blockNum, slotReserves)
	if err != nil {
		return nil, err
	}
	reserve0, reserve1 := parseReserves(br)

	var amountA, amountB uniswapv2.TokenAmount
	switch {
	case a.Address == token0 && b.Address == token1:
		amountA, amountB = uniswapv2.NewTokenAmount(a, reserve0), uniswapv2.NewTokenAmount(b, reserve1)
	case a.Address == token1 && b.Address == token0:
		amountA, amountB = uniswapv2.NewTokenAmount(a, reserve1), uniswapv2.NewTokenAmount(b, reserve0)
	default:
		return nil, ErrPairMismatch
	}

	pair, err := uniswapv2.NewPair(amountA, amountB)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("reserves loaded", "pool", pool.Hex(), "block", bn, "reserve0", reserve0.String(), "reserve1", reserve1.String())
	return pair, nil
}

func (p *ReserveProvider) readSlot(ctx context.Context, pool common.Address, blockNum *big.Int, slot uint64) ([]byte, error) {
	key := common.BigToHash(new(big.Int).SetUint64(slot))
	b, err := p.backend.StorageAt(ctx, pool, key, blockNum)
	if err != nil {
		return nil, fmt.Errorf("storageAt slot %d (pool %s, block %s): %w",
			slot, pool.Hex(), blockNum.String(), err)
	}
	return b, nil
}

func (p *ReserveProvider) loadTokens(ctx context.Context, pool common.Address, blockNum *big.Int) (common.Address, common.Address, error) {
	b0, err := p.readSlot(ctx, pool, blockNum, slotToken0)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	b1, err := p.readSlot(ctx, pool, blockNum, slotToken1)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return common.BytesToAddress(b0), common.BytesToAddress(b1), nil
}

// parseReserves unpacks two uint112 reserves from the 32-byte storage word.
// Values are big-endian within the 256-bit word, reserve0 in the low bits.
func parseReserves(b []byte) (reserve0, reserve1 *big.Int) {
	v := new(big.Int).SetBytes(b)
	one := big.NewInt(1)
	mask112 := new(big.Int).Sub(new(big.Int).Lsh(one, 112), one)

	reserve0 = new(big.Int).And(v, mask112)
	tmp := new(big.Int).Rsh(v, 112)
	reserve1 = new(big.Int).And(tmp, mask112)
	return
}
