package handler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/internal/operation"
	"github.com/eliobricenov/uniswap-swapper/internal/swap"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// AssetView describes a token in responses.
type AssetView struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Native   bool   `json:"native"`
}

func newAssetView(a uniswapv2.Asset) *AssetView {
	return &AssetView{Address: a.Address.Hex(), Symbol: a.Symbol, Decimals: a.Decimals, Native: uniswapv2.IsNative(a)}
}

// TradeView carries raw integer amounts as decimal strings plus the
// formatted stats.
type TradeView struct {
	Type                  string               `json:"type"`
	Variant               string               `json:"variant"`
	Path                  []string             `json:"path"`
	AmountIn              string               `json:"amount_in"`
	AmountOut             string               `json:"amount_out"`
	ExecutionPrice        string               `json:"execution_price"`
	PriceImpact           string               `json:"price_impact"`
	PriceImpactWithoutFee string               `json:"price_impact_without_fee,omitempty"`
	LPFeeFraction         string               `json:"lp_fee_fraction,omitempty"`
	LPFee                 string               `json:"lp_fee,omitempty"`
	SlippageBps           int64                `json:"slippage_bps"`
	MinimumOut            string               `json:"minimum_out"`
	MaximumIn             string               `json:"maximum_in"`
	Stats                 uniswapv2.TradeStats `json:"stats"`
}

func newTradeView(t *uniswapv2.Trade, fees *uniswapv2.FeeDecomposition, bounds uniswapv2.SlippageBounds, slippageBps int64) *TradeView {
	v := &TradeView{
		Type:           t.Type.String(),
		Variant:        operation.Select(t.InputAmount.Asset, t.OutputAmount.Asset).String(),
		Path:           t.Route.Addresses(),
		AmountIn:       t.InputAmount.Raw.String(),
		AmountOut:      t.OutputAmount.Raw.String(),
		ExecutionPrice: t.DisplayPrice().ToSignificant(uniswapv2.AmountSignificantDigits),
		PriceImpact:    uniswapv2.FormatPriceImpact(&t.PriceImpact),
		SlippageBps:    slippageBps,
		MinimumOut:     bounds.Min.Raw.String(),
		MaximumIn:      bounds.Max.Raw.String(),
		Stats:          uniswapv2.Stats(t, fees, bounds),
	}
	if fees != nil {
		v.PriceImpactWithoutFee = fees.PriceImpactWithoutFee.ToSignificant(uniswapv2.AmountSignificantDigits)
		v.LPFeeFraction = fees.RealizedLPFeeFraction.ToSignificant(uniswapv2.AmountSignificantDigits)
		v.LPFee = fees.RealizedLPFee.Raw.String()
	}
	return v
}

// PairView holds raw reserves oriented to the form.
type PairView struct {
	SourceReserve string `json:"source_reserve"`
	TargetReserve string `json:"target_reserve"`
}

// BalancesView holds raw owner balances oriented to the form.
type BalancesView struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// StateView is a session's form as returned by the session endpoints.
type StateView struct {
	ID           string        `json:"id,omitempty"`
	Source       *AssetView    `json:"source,omitempty"`
	Target       *AssetView    `json:"target,omitempty"`
	SourceAmount string        `json:"source_amount"`
	TargetAmount string        `json:"target_amount"`
	Pair         *PairView     `json:"pair,omitempty"`
	Balances     *BalancesView `json:"balances,omitempty"`
	Trade        *TradeView    `json:"trade,omitempty"`
	Error        string        `json:"error,omitempty"`
	CanSwap      bool          `json:"can_swap"`
}

func newStateView(id string, st *swap.State, slippageBps int64, canSwap bool) *StateView {
	v := &StateView{
		ID:           id,
		SourceAmount: st.SourceAmount,
		TargetAmount: st.TargetAmount,
	}
	if st.Source != nil {
		v.Source = newAssetView(*st.Source)
	}
	if st.Target != nil {
		v.Target = newAssetView(*st.Target)
	}
	if st.Loaded() {
		src, errSrc := st.Pair.ReserveOf(*st.Source)
		dst, errDst := st.Pair.ReserveOf(*st.Target)
		if errSrc == nil && errDst == nil {
			v.Pair = &PairView{SourceReserve: src.Raw.String(), TargetReserve: dst.Raw.String()}
		}
	}
	if st.Balances != nil {
		v.Balances = &BalancesView{Source: intString(st.Balances.Source), Target: intString(st.Balances.Target)}
	}
	if st.QuoteErr != nil {
		v.Error = st.QuoteErr.Error()
	}
	if st.Trade != nil {
		if bounds, err := uniswapv2.AdjustedAmounts(st.Trade, slippageBps); err == nil {
			v.Trade = newTradeView(st.Trade, st.Fees, bounds, slippageBps)
			v.CanSwap = canSwap
		}
	}
	return v
}

// SwapView is the response to a submitted swap.
type SwapView struct {
	TxHash         string   `json:"tx_hash"`
	ApprovalTxHash string   `json:"approval_tx_hash,omitempty"`
	Approved       bool     `json:"approved"`
	Variant        string   `json:"variant"`
	AmountIn       string   `json:"amount_in"`
	AmountOut      string   `json:"amount_out"`
	Value          string   `json:"value"`
	Path           []string `json:"path"`
	Recipient      string   `json:"recipient"`
	Deadline       int64    `json:"deadline"`
}

func newSwapView(d *operation.Descriptor, txHash, approvalHash common.Hash, approved bool) *SwapView {
	path := make([]string, len(d.Path))
	for i, a := range d.Path {
		path[i] = a.Hex()
	}
	v := &SwapView{
		TxHash:    txHash.Hex(),
		Approved:  approved,
		Variant:   d.Variant.String(),
		AmountIn:  d.AmountIn.String(),
		AmountOut: d.AmountOut.String(),
		Value:     d.Value.String(),
		Path:      path,
		Recipient: d.Recipient.Hex(),
		Deadline:  d.Deadline.Unix(),
	}
	if approved {
		v.ApprovalTxHash = approvalHash.Hex()
	}
	return v
}

func intString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
