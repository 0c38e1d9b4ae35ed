package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Uniswap V2 mainnet deployment.
const (
	DefaultFactory      = "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"
	DefaultInitCodeHash = "0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f"
	DefaultRouter       = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
)

// Config holds the service settings read from the environment.
type Config struct {
	Addr        string
	RPCEndpoint string
	LogLevel    string
	LogFormat   string

	ChainID      uint64
	Factory      common.Address
	InitCodeHash common.Hash
	Router       common.Address
	SlippageBps  int64

	// PrivateKey enables swap submission when set.
	PrivateKey string
	GasLimit   uint64

	Tokens []Token
}

// CanSign reports whether swap submission is configured.
func (c *Config) CanSign() bool { return c.PrivateKey != "" }

// FromEnv reads and validates the configuration.
func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		return nil, ErrMissingRPCEndpoint
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := getenv("LOG_FORMAT", "text")

	chainID, err := strconv.ParseUint(getenv("CHAIN_ID", "1"), 10, 64)
	if err != nil || chainID == 0 {
		return nil, ErrInvalidChainID
	}

	factory, err := parseAddress("FACTORY_ADDRESS", DefaultFactory)
	if err != nil {
		return nil, err
	}
	router, err := parseAddress("ROUTER_ADDRESS", DefaultRouter)
	if err != nil {
		return nil, err
	}

	rawHash := getenv("PAIR_INIT_CODE_HASH", DefaultInitCodeHash)
	if !isHash(rawHash) {
		return nil, ErrInvalidInitCodeHash
	}

	slippage, err := strconv.ParseInt(getenv("SLIPPAGE_BPS", "50"), 10, 64)
	if err != nil || slippage < 0 || slippage > 10_000 {
		return nil, ErrInvalidSlippage
	}

	gasLimit, err := strconv.ParseUint(getenv("GAS_LIMIT", "250000"), 10, 64)
	if err != nil || gasLimit == 0 {
		return nil, ErrInvalidGasLimit
	}

	var tokens []Token
	if path := os.Getenv("TOKENS_FILE"); path != "" {
		tokens, err = LoadTokens(path)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Addr:         addr,
		RPCEndpoint:  rpcURL,
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		ChainID:      chainID,
		Factory:      factory,
		InitCodeHash: common.HexToHash(rawHash),
		Router:       router,
		SlippageBps:  slippage,
		PrivateKey:   os.Getenv("PRIVATE_KEY"),
		GasLimit:     gasLimit,
		Tokens:       tokens,
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseAddress(key, fallback string) (common.Address, error) {
	v := getenv(key, fallback)
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("%w: %s=%q", ErrInvalidAddress, key, v)
	}
	return common.HexToAddress(v), nil
}

func isHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}
