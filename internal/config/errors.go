package config

import "errors"

// ErrMissingRPCEndpoint indicates that the required ETH_RPC_URL variable is
// not set in the environment.
var ErrMissingRPCEndpoint = errors.New("missing ETH_RPC_URL environment variable")

// ErrInvalidChainID is returned when CHAIN_ID is not a positive integer.
var ErrInvalidChainID = errors.New("invalid CHAIN_ID")

// ErrInvalidAddress is returned when an address variable is not a hex address.
var ErrInvalidAddress = errors.New("invalid address")

// ErrInvalidInitCodeHash is returned when PAIR_INIT_CODE_HASH is not 32 hex bytes.
var ErrInvalidInitCodeHash = errors.New("invalid PAIR_INIT_CODE_HASH")

// ErrInvalidSlippage is returned when SLIPPAGE_BPS is outside 0..10000.
var ErrInvalidSlippage = errors.New("invalid SLIPPAGE_BPS")

// ErrInvalidGasLimit is returned when GAS_LIMIT is not a positive integer.
var ErrInvalidGasLimit = errors.New("invalid GAS_LIMIT")

// ErrInvalidTokenList is returned when TOKENS_FILE cannot be read or holds an
// invalid entry.
var ErrInvalidTokenList = errors.New("invalid token list")
