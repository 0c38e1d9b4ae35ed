package chain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// fakeEth serves the eth_* methods this package calls.
type fakeEth struct {
	mu          sync.Mutex
	blockNumber uint64
	// storage[address][positionHash] = 32-byte value
	storage map[common.Address]map[common.Hash][]byte
	native  map[common.Address]*big.Int
	// balances[token][owner], allowances[token][owner][spender]
	balances   map[common.Address]map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]map[common.Address]*big.Int

	nonce   uint64
	sent    []*types.Transaction
	status  uint64
	pending int // receipt lookups answered with "not found" before mining
	lookups map[common.Hash]int
}

func newFakeEth() *fakeEth {
	return &fakeEth{
		blockNumber: 1,
		storage:     map[common.Address]map[common.Hash][]byte{},
		native:      map[common.Address]*big.Int{},
		balances:    map[common.Address]map[common.Address]*big.Int{},
		allowances:  map[common.Address]map[common.Address]map[common.Address]*big.Int{},
		status:      types.ReceiptStatusSuccessful,
		lookups:     map[common.Hash]int{},
	}
}

func (f *fakeEth) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	return hexutil.Uint64(f.blockNumber), nil
}

func (f *fakeEth) GetStorageAt(ctx context.Context, addr common.Address, position common.Hash, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.storage[addr]; ok {
		if v, ok2 := m[position]; ok2 {
			return hexutil.Bytes(v), nil
		}
	}
	return hexutil.Bytes(make([]byte, 32)), nil
}

func (f *fakeEth) GetBalance(ctx context.Context, addr common.Address, _ gethrpc.BlockNumberOrHash) (*hexutil.Big, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (*hexutil.Big)(valueOrZero(f.native[addr])), nil
}

func (f *fakeEth) Call(ctx context.Context, args map[string]interface{}, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	raw, _ := args["input"].(string)
	if raw == "" {
		raw, _ = args["data"].(string)
	}
	data, err := hexutil.Decode(raw)
	if err != nil || len(data) < 4 {
		return nil, errors.New("bad calldata")
	}
	to := common.HexToAddress(args["to"].(string))

	method, err := erc20ABI.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	in, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var v *big.Int
	switch method.Name {
	case "balanceOf":
		v = valueOrZero(f.balances[to][in[0].(common.Address)])
	case "allowance":
		v = valueOrZero(f.allowances[to][in[0].(common.Address)][in[1].(common.Address)])
	default:
		return nil, errors.New("unsupported method " + method.Name)
	}
	return method.Outputs.Pack(v)
}

func (f *fakeEth) GetTransactionCount(ctx context.Context, addr common.Address, _ gethrpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return hexutil.Uint64(f.nonce), nil
}

func (f *fakeEth) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	return (*hexutil.Big)(big.NewInt(1_000_000_000)), nil
}

func (f *fakeEth) SendRawTransaction(ctx context.Context, raw hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	f.nonce++
	return tx.Hash(), nil
}

func (f *fakeEth) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	known := false
	for _, tx := range f.sent {
		if tx.Hash() == hash {
			known = true
		}
	}
	if !known {
		return nil, nil
	}
	if f.lookups[hash] < f.pending {
		f.lookups[hash]++
		return nil, nil
	}
	return &types.Receipt{
		Status:            f.status,
		TxHash:            hash,
		GasUsed:           21_000,
		CumulativeGasUsed: 21_000,
		BlockNumber:       new(big.Int).SetUint64(f.blockNumber),
		Logs:              []*types.Log{},
	}, nil
}

func (f *fakeEth) transactions() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.Transaction(nil), f.sent...)
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func newInprocEthClient(t *testing.T, fe *fakeEth) *ethclient.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	// Register under the standard "eth" namespace so methods map to eth_*
	if err := srv.RegisterName("eth", fe); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	c := gethrpc.DialInProc(srv)
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return ethclient.NewClient(c)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func u256Bytes(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) > 32 {
		panic("value does not fit in 32 bytes")
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func packReserves(r0, r1 *big.Int, ts uint32) []byte {
	v := new(big.Int).SetUint64(uint64(ts))
	v.Lsh(v, 112)
	v.Or(v, r1)
	v.Lsh(v, 112)
	v.Or(v, r0)
	return u256Bytes(v)
}

func rightPadAddress(addr common.Address) []byte {
	// Address is right-aligned in 32 bytes when read from storage
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out
}

func slotKey(slot uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(slot))
}
