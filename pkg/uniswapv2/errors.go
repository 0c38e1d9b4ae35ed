package uniswapv2

import "errors"

var (
	// ErrDivisionByZero is the panic value for a Fraction with a zero
	// denominator. It signals a corrupted reserve snapshot or a programming
	// error and is never recovered inside this package.
	ErrDivisionByZero = errors.New("division by zero")

	ErrInvalidAmount           = errors.New("amount must be a positive integer")
	ErrInsufficientLiquidity   = errors.New("insufficient liquidity for requested output")
	ErrInsufficientInputAmount = errors.New("input amount too small to produce output")
	ErrZeroReserve             = errors.New("pair has a zero reserve")
	ErrNegativeReserve         = errors.New("reserve must not be negative")
	ErrInvalidTolerance        = errors.New("slippage tolerance must be between 0 and 10000 bps")
	ErrIdenticalAssets         = errors.New("pair assets must differ")
	ErrChainMismatch           = errors.New("assets belong to different chains")
	ErrAssetNotInPair          = errors.New("asset is not part of the pair")
	ErrEmptyRoute              = errors.New("route has no pairs")
	ErrInvalidPath             = errors.New("route pairs do not connect")
	ErrInvalidTradeType        = errors.New("unknown trade type")
	ErrNilTrade                = errors.New("trade is nil")
)
