package uniswapv2

// BpsDenominator is the basis-point scale.
const BpsDenominator = 10000

var (
	baseFee               = PercentFromBps(30)
	oneHundredPercent     = PercentFromBps(BpsDenominator)
	inputFractionAfterFee = oneHundredPercent.Sub(baseFee)
	oneBip                = PercentFromBps(1)
)

// FeeDecomposition splits a trade's price impact into the part paid to
// liquidity providers and the part caused by moving along the curve.
type FeeDecomposition struct {
	// RealizedLPFeeFraction is 1 - 0.997^hops.
	RealizedLPFeeFraction Fraction
	// PriceImpactWithoutFee may be slightly negative for multi-hop routes.
	// It is reported as computed.
	PriceImpactWithoutFee Fraction
	// RealizedLPFee is denominated in the trade's input asset.
	RealizedLPFee TokenAmount
}

// RealizedLPFee returns the fee fraction compounded over hops.
func RealizedLPFee(hops int64) Fraction {
	kept := oneHundredPercent
	for i := int64(0); i < hops; i++ {
		kept = kept.Mul(inputFractionAfterFee)
	}
	return oneHundredPercent.Sub(kept)
}

// Decompose returns nil for a nil trade: no quote yet is not an error.
func Decompose(t *Trade) *FeeDecomposition {
	if t == nil {
		return nil
	}
	fee := RealizedLPFee(t.Route.hopCount())
	return &FeeDecomposition{
		RealizedLPFeeFraction: fee,
		PriceImpactWithoutFee: t.PriceImpact.Sub(fee),
		RealizedLPFee:         TokenAmount{Asset: t.InputAmount.Asset, Raw: fee.MulInt(t.InputAmount.Raw).Quotient()},
	}
}
