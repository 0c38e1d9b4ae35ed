package swap

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// amountPattern accepts optional digits, at most one separator and optional
// trailing digits. "" and "." match but cannot be quoted.
var amountPattern = regexp.MustCompile(`^[0-9]*[.,]?[0-9]*$`)

// Reduce applies e to s and returns the resulting state. It never panics on
// user input and never fails: rejected events return s itself.
func Reduce(s *State, e Event) *State {
	if s == nil {
		s = Initial()
	}
	switch ev := e.(type) {
	case PoolRequested:
		return requestPool(s, ev)
	case PoolLoaded:
		return loadPool(s, ev)
	case AmountChanged:
		return changeAmount(s, ev.Side, ev.Text)
	case FlipDirection:
		return flip(s)
	case Reset:
		return Initial()
	default:
		return s
	}
}

func requestPool(s *State, ev PoolRequested) *State {
	if s.Requested == ev.Tag {
		return s
	}
	next := s.clone()
	next.Requested = ev.Tag
	return next
}

func loadPool(s *State, ev PoolLoaded) *State {
	if !s.Requested.IsZero() && ev.Tag != s.Requested {
		return s
	}
	if ev.Pair == nil || ev.Source.Equal(ev.Target) || !ev.Pair.Involves(ev.Source) || !ev.Pair.Involves(ev.Target) {
		return s
	}
	if NewPairTag(ev.Source, ev.Target) != ev.Tag {
		return s
	}

	next := s.clone()
	src, dst := ev.Source, ev.Target
	next.Source = &src
	next.Target = &dst
	next.Pair = ev.Pair
	next.Balances = ev.Balances
	if next.Trade != nil && !(next.Trade.Route.Input.Equal(src) && next.Trade.Route.Output.Equal(dst)) {
		next.Trade = nil
		next.Fees = nil
	}
	return next
}

func changeAmount(s *State, side Side, text string) *State {
	if !s.Loaded() {
		return s
	}
	if !amountPattern.MatchString(text) {
		return s
	}

	next := s.clone()
	next.setAmount(side, text)
	next.Trade = nil
	next.Fees = nil
	next.QuoteErr = nil

	edited := *next.Source
	if side == Target {
		edited = *next.Target
	}
	amount, ok := calculable(edited, text)
	if !ok {
		next.setAmount(side.other(), "")
		return next
	}

	route, err := uniswapv2.NewRoute([]*uniswapv2.Pair{next.Pair}, *next.Source)
	if err != nil {
		next.setAmount(side.other(), "")
		next.QuoteErr = err
		return next
	}

	var trade *uniswapv2.Trade
	if side == Source {
		trade, err = uniswapv2.QuoteExactIn(route, amount.Raw)
	} else {
		trade, err = uniswapv2.QuoteExactOut(route, amount.Raw)
	}
	if err != nil {
		next.setAmount(side.other(), "")
		next.QuoteErr = err
		return next
	}

	next.Trade = trade
	next.Fees = uniswapv2.Decompose(trade)
	if side == Source {
		next.TargetAmount = trade.OutputAmount.ToSignificant(uniswapv2.AmountSignificantDigits)
	} else {
		next.SourceAmount = trade.InputAmount.ToSignificant(uniswapv2.AmountSignificantDigits)
	}
	return next
}

// calculable parses text into a positive raw amount of asset.
func calculable(asset uniswapv2.Asset, text string) (uniswapv2.TokenAmount, bool) {
	normalized := strings.TrimSuffix(strings.Replace(text, ",", ".", 1), ".")
	if normalized == "" {
		return uniswapv2.TokenAmount{}, false
	}
	if normalized[0] == '.' {
		normalized = "0" + normalized
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil || d.Sign() <= 0 {
		return uniswapv2.TokenAmount{}, false
	}
	amount, err := uniswapv2.ParseTokenAmount(asset, normalized)
	if err != nil || amount.Raw.Sign() <= 0 {
		return uniswapv2.TokenAmount{}, false
	}
	return amount, true
}

func flip(s *State) *State {
	if !s.Loaded() {
		return s
	}
	next := s.clone()
	next.Source, next.Target = s.Target, s.Source
	next.Balances = s.Balances.flipped()

	if s.Trade == nil {
		next.SourceAmount, next.TargetAmount = s.TargetAmount, s.SourceAmount
		// The error belonged to the old orientation.
		next.QuoteErr = nil
		return next
	}
	// What was about to be received is now what is sent.
	next.Trade = nil
	next.Fees = nil
	return changeAmount(next, Source, s.TargetAmount)
}
