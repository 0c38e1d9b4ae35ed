package uniswapv2

import "math/big"

// TradeType says which side of a trade the user fixed.
type TradeType int

const (
	// ExactInput fixes the amount sold; ExactOutput fixes the amount bought.
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	switch t {
	case ExactInput:
		return "EXACT_INPUT"
	case ExactOutput:
		return "EXACT_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// Trade is a quote walked along a route. It is never mutated after Quote
// returns it.
type Trade struct {
	Route        *Route
	Type         TradeType
	InputAmount  TokenAmount
	OutputAmount TokenAmount
	// ExecutionPrice is output/input in raw units.
	ExecutionPrice Fraction
	// PriceImpact is (midPrice - executionPrice) / midPrice.
	PriceImpact Fraction
}

// Quote derives a trade from a route and one known amount: the exact input
// for ExactInput or the exact output for ExactOutput. Hops are walked
// forward for ExactInput and backward for ExactOutput.
func Quote(route *Route, tradeType TradeType, amount *big.Int) (*Trade, error) {
	if route == nil || len(route.Pairs) == 0 {
		return nil, ErrEmptyRoute
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	var input, output TokenAmount
	switch tradeType {
	case ExactInput:
		input = NewTokenAmount(route.Input, amount)
		current := input
		for _, p := range route.Pairs {
			next, err := p.OutputAmount(current)
			if err != nil {
				return nil, err
			}
			current = next
		}
		output = current
	case ExactOutput:
		output = NewTokenAmount(route.Output, amount)
		current := output
		for i := len(route.Pairs) - 1; i >= 0; i-- {
			prev, err := route.Pairs[i].InputAmount(current)
			if err != nil {
				return nil, err
			}
			current = prev
		}
		input = current
	default:
		return nil, ErrInvalidTradeType
	}

	mid, err := route.MidPrice()
	if err != nil {
		return nil, err
	}
	execution := NewFraction(output.Raw, input.Raw)
	// exactQuote is what the input would buy at the mid price.
	exactQuote := mid.MulInt(input.Raw)
	impact := exactQuote.Sub(FractionFromInt(output.Raw)).Div(exactQuote)

	return &Trade{
		Route:          route,
		Type:           tradeType,
		InputAmount:    input,
		OutputAmount:   output,
		ExecutionPrice: execution,
		PriceImpact:    impact,
	}, nil
}

// QuoteExactIn is Quote(route, ExactInput, amountIn).
func QuoteExactIn(route *Route, amountIn *big.Int) (*Trade, error) {
	return Quote(route, ExactInput, amountIn)
}

// QuoteExactOut is Quote(route, ExactOutput, amountOut).
func QuoteExactOut(route *Route, amountOut *big.Int) (*Trade, error) {
	return Quote(route, ExactOutput, amountOut)
}
