package uniswapv2

import "math/big"

// Display helpers. These are the only places exact fractions become text.

// Significant digits used when rendering amounts, slippage bounds and fees.
const (
	AmountSignificantDigits = 6
	BoundSignificantDigits  = 4
	FeeSignificantDigits    = 6
)

// FormatPriceImpact renders a price impact fraction as a percentage:
// "-" when absent, "<0.01%" below one basis point, otherwise two decimals.
// Negative values always keep their sign, so a negative impact smaller
// than one basis point renders as "-<0.01%".
func FormatPriceImpact(impact *Fraction) string {
	if impact == nil {
		return "-"
	}
	if impact.Abs().LessThan(oneBip) {
		if impact.Sign() < 0 {
			return "-<0.01%"
		}
		return "<0.01%"
	}
	return impact.MulInt(big100).ToFixed(2) + "%"
}

// TradeStats is the summary shown under the amount fields.
type TradeStats struct {
	BoundLabel  string `json:"bound_label"`
	Bound       string `json:"bound"`
	PriceImpact string `json:"price_impact"`
	LPFee       string `json:"lp_fee"`
}

// Stats formats a quoted trade with its fee decomposition and bounds.
func Stats(t *Trade, fees *FeeDecomposition, bounds SlippageBounds) TradeStats {
	var s TradeStats
	if t.Type == ExactInput {
		s.BoundLabel = "Minimum received"
		s.Bound = bounds.Min.ToSignificant(BoundSignificantDigits) + " " + t.OutputAmount.Asset.Symbol
	} else {
		s.BoundLabel = "Maximum sold"
		s.Bound = bounds.Max.ToSignificant(BoundSignificantDigits) + " " + t.InputAmount.Asset.Symbol
	}
	if fees == nil {
		s.PriceImpact = FormatPriceImpact(nil)
		s.LPFee = "-"
		return s
	}
	impact := fees.PriceImpactWithoutFee
	s.PriceImpact = FormatPriceImpact(&impact)
	s.LPFee = fees.RealizedLPFee.ToSignificant(FeeSignificantDigits) + " " + t.InputAmount.Asset.Symbol
	return s
}

// DisplayPrice is the execution price in whole units: how many output
// tokens one input token buys.
func (t *Trade) DisplayPrice() Fraction {
	scale := NewFraction(
		new(big.Int).Exp(bigTen, big.NewInt(int64(t.InputAmount.Asset.Decimals)), nil),
		new(big.Int).Exp(bigTen, big.NewInt(int64(t.OutputAmount.Asset.Decimals)), nil),
	)
	return t.ExecutionPrice.Mul(scale)
}
