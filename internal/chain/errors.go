package chain

import "errors"

var (
	// ErrUnknownPair means no pair contract is deployed for the two tokens.
	ErrUnknownPair  = errors.New("unknown pair")
	// ErrPairMismatch means the pair stores tokens other than the requested two.
	ErrPairMismatch = errors.New("pair does not match src/dst")
	ErrSameToken    = errors.New("src and dst are equal")
	// ErrTxReverted is returned when a mined transaction has a failed status.
	ErrTxReverted    = errors.New("transaction reverted")
	// ErrInvalidKey means the configured key is not a secp256k1 hex key.
	ErrInvalidKey    = errors.New("invalid private key")
	ErrNotConfigured = errors.New("transaction signing is not configured")
)
