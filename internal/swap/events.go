package swap

import "github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"

// Event is a discrete input to Reduce.
type Event interface {
	// Kind is a short stable name used in logs and metrics.
	Kind() string
}

// PoolRequested records that reserves for Tag are being fetched. Any later
// PoolLoaded for a different pair is discarded.
type PoolRequested struct {
	Tag PairTag
}

// PoolLoaded delivers a reserve snapshot for Source and Target.
type PoolLoaded struct {
	Tag      PairTag
	Source   uniswapv2.Asset
	Target   uniswapv2.Asset
	Pair     *uniswapv2.Pair
	Balances *Balances
}

// AmountChanged is a keystroke in one of the amount fields.
type AmountChanged struct {
	Side Side
	Text string
}

// FlipDirection swaps source and target.
type FlipDirection struct{}

// Reset returns the form to Initial.
type Reset struct{}

func (PoolRequested) Kind() string { return "pool_requested" }
func (PoolLoaded) Kind() string    { return "pool_loaded" }
func (AmountChanged) Kind() string { return "amount_changed" }
func (FlipDirection) Kind() string { return "flip_direction" }
func (Reset) Kind() string         { return "reset" }
