package uniswapv2

import "math/big"

// SlippageBounds holds the amounts handed to the router. Min is in the
// output asset, Max in the input asset.
type SlippageBounds struct {
	Min TokenAmount
	Max TokenAmount
}

// AdjustedAmounts applies a slippage tolerance to a trade.
//
// ExactInput: Min = floor(out * (10000 - bps) / 10000), Max = in.
// ExactOutput: Max = ceil(in * (10000 + bps) / 10000), Min = out.
// A nil trade yields ErrNilTrade.
func AdjustedAmounts(t *Trade, toleranceBps int64) (SlippageBounds, error) {
	if t == nil {
		return SlippageBounds{}, ErrNilTrade
	}
	if toleranceBps < 0 || toleranceBps > BpsDenominator {
		return SlippageBounds{}, ErrInvalidTolerance
	}
	switch t.Type {
	case ExactInput:
		minOut := NewFraction(big.NewInt(BpsDenominator-toleranceBps), big.NewInt(BpsDenominator)).
			MulInt(t.OutputAmount.Raw).Quotient()
		return SlippageBounds{
			Min: TokenAmount{Asset: t.OutputAmount.Asset, Raw: minOut},
			Max: NewTokenAmount(t.InputAmount.Asset, t.InputAmount.Raw),
		}, nil
	case ExactOutput:
		maxIn := NewFraction(big.NewInt(BpsDenominator+toleranceBps), big.NewInt(BpsDenominator)).
			MulInt(t.InputAmount.Raw).CeilQuotient()
		return SlippageBounds{
			Min: NewTokenAmount(t.OutputAmount.Asset, t.OutputAmount.Raw),
			Max: TokenAmount{Asset: t.InputAmount.Asset, Raw: maxIn},
		}, nil
	default:
		return SlippageBounds{}, ErrInvalidTradeType
	}
}

// MinimumAmountOut is the least output accepted for t at toleranceBps.
func (t *Trade) MinimumAmountOut(toleranceBps int64) (TokenAmount, error) {
	b, err := AdjustedAmounts(t, toleranceBps)
	if err != nil {
		return TokenAmount{}, err
	}
	return b.Min, nil
}

// MaximumAmountIn is the most input paid for t at toleranceBps.
func (t *Trade) MaximumAmountIn(toleranceBps int64) (TokenAmount, error) {
	b, err := AdjustedAmounts(t, toleranceBps)
	if err != nil {
		return TokenAmount{}, err
	}
	return b.Max, nil
}
