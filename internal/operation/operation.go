// Package operation classifies a swap into one of the router's three call
// shapes and assembles the descriptor handed to the settlement layer.
package operation

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// DeadlineWindow is how long a submitted swap stays valid on chain.
const DeadlineWindow = 20 * time.Minute

// Descriptor validation errors.
var (
	ErrNilTrade        = errors.New("trade is required")
	ErrVariantMismatch = errors.New("variant does not match trade assets")
	ErrUnknownVariant  = errors.New("unknown operation variant")
	ErrZeroRecipient   = errors.New("recipient is the zero address")
	ErrBoundsMismatch  = errors.New("slippage bounds do not match trade assets")
)

// Variant is the router call shape.
type Variant int

const (
	TokenToToken Variant = iota
	NativeIn
	NativeOut
)

func (v Variant) String() string {
	switch v {
	case NativeIn:
		return "NATIVE_IN"
	case NativeOut:
		return "NATIVE_OUT"
	case TokenToToken:
		return "TOKEN_TO_TOKEN"
	default:
		return "UNKNOWN"
	}
}

// Select picks the variant by comparing addresses with the chain's native
// sentinel. Symbols are never consulted.
func Select(source, target uniswapv2.Asset) Variant {
	switch {
	case uniswapv2.IsNative(source):
		return NativeIn
	case uniswapv2.IsNative(target):
		return NativeOut
	default:
		return TokenToToken
	}
}

// Descriptor is everything the settlement layer needs to submit one swap.
// For NativeIn and TokenToToken AmountIn is exact and AmountOut is the
// minimum accepted; for NativeOut AmountOut is exact and AmountIn is the
// maximum paid.
type Descriptor struct {
	Variant   Variant
	AmountIn  *big.Int
	AmountOut *big.Int
	// Value is the native amount attached to the call. Zero unless NativeIn.
	Value     *big.Int
	Path      []common.Address
	Recipient common.Address
	Deadline  time.Time
}

// Committed returns the input amount the signer must hold and have approved.
func (d *Descriptor) Committed() *big.Int {
	return new(big.Int).Set(d.AmountIn)
}

// BuildDescriptor assembles a descriptor for trade. now is the submission
// time; the deadline is now plus DeadlineWindow.
func BuildDescriptor(trade *uniswapv2.Trade, variant Variant, bounds uniswapv2.SlippageBounds, recipient common.Address, now time.Time) (*Descriptor, error) {
	if trade == nil {
		return nil, ErrNilTrade
	}
	if recipient == (common.Address{}) {
		return nil, ErrZeroRecipient
	}
	if Select(trade.InputAmount.Asset, trade.OutputAmount.Asset) != variant {
		return nil, ErrVariantMismatch
	}
	if !bounds.Min.Asset.Equal(trade.OutputAmount.Asset) || !bounds.Max.Asset.Equal(trade.InputAmount.Asset) {
		return nil, ErrBoundsMismatch
	}

	d := &Descriptor{
		Variant:   variant,
		Value:     new(big.Int),
		Path:      path(trade.Route),
		Recipient: recipient,
		Deadline:  now.Add(DeadlineWindow),
	}
	switch variant {
	case NativeIn, TokenToToken:
		d.AmountIn = new(big.Int).Set(trade.InputAmount.Raw)
		d.AmountOut = new(big.Int).Set(bounds.Min.Raw)
		if variant == NativeIn {
			d.Value.Set(d.AmountIn)
		}
	case NativeOut:
		d.AmountOut = new(big.Int).Set(trade.OutputAmount.Raw)
		d.AmountIn = new(big.Int).Set(bounds.Max.Raw)
	default:
		return nil, ErrUnknownVariant
	}
	return d, nil
}

func path(r *uniswapv2.Route) []common.Address {
	out := make([]common.Address, len(r.Path))
	for i, a := range r.Path {
		out[i] = a.Address
	}
	return out
}
