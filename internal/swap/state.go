// Package swap holds the two-sided swap form as a pure reducer over
// immutable states.
package swap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// Side names one of the two amount fields.
type Side int

const (
	Source Side = iota
	Target
)

func (s Side) String() string {
	if s == Target {
		return "target"
	}
	return "source"
}

// Balances are the signer's raw balances of the two assets, if known.
type Balances struct {
	Source *big.Int
	Target *big.Int
}

func (b *Balances) flipped() *Balances {
	if b == nil {
		return nil
	}
	return &Balances{Source: b.Target, Target: b.Source}
}

// PairTag identifies an unordered asset pair. Pool loads carry the tag of
// the request they answer.
type PairTag struct {
	ChainID uint64
	Token0  common.Address
	Token1  common.Address
}

// NewPairTag identifies the ordered pair a/b.
func NewPairTag(a, b uniswapv2.Asset) PairTag {
	if !a.SortsBefore(b) {
		a, b = b, a
	}
	return PairTag{ChainID: a.ChainID, Token0: a.Address, Token1: b.Address}
}

// IsZero reports whether no pool has been requested.
func (t PairTag) IsZero() bool { return t == PairTag{} }

// State is one immutable snapshot of the form. Reduce never modifies a State
// it was given; a changed form is always a new *State, so callers can
// compare pointers to detect changes.
type State struct {
	Source *uniswapv2.Asset
	Target *uniswapv2.Asset
	Pair   *uniswapv2.Pair

	Trade *uniswapv2.Trade
	Fees  *uniswapv2.FeeDecomposition

	SourceAmount string
	TargetAmount string

	Balances *Balances

	// Requested is the pair of the most recent pool request.
	Requested PairTag
	// QuoteErr is the reason the typed amount could not be quoted, such as
	// uniswapv2.ErrInsufficientLiquidity. It is nil when a trade is present
	// or nothing calculable has been typed.
	QuoteErr error
}

// Initial returns the empty form.
func Initial() *State {
	return &State{}
}

func (s *State) clone() *State {
	c := *s
	return &c
}

// Loaded reports whether a pool has been loaded.
func (s *State) Loaded() bool {
	return s.Pair != nil && s.Source != nil && s.Target != nil
}

// Quoted reports whether a trade is present.
func (s *State) Quoted() bool {
	return s.Trade != nil
}

// Amount returns the text of a side.
func (s *State) Amount(side Side) string {
	if side == Target {
		return s.TargetAmount
	}
	return s.SourceAmount
}

func (s *State) setAmount(side Side, text string) {
	if side == Target {
		s.TargetAmount = text
		return
	}
	s.SourceAmount = text
}

func (s Side) other() Side {
	if s == Target {
		return Source
	}
	return Target
}
