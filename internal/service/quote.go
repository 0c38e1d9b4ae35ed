package service

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eliobricenov/uniswap-swapper/internal/metrics"
	"github.com/eliobricenov/uniswap-swapper/internal/operation"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// QuoteService prices one-off trades against freshly fetched reserves.
type QuoteService struct {
	BaseService
	reserves    ReserveProvider
	tokens      *TokenRegistry
	slippageBps int64
	metrics     *metrics.SwapMetrics
}

// NewQuoteService constructs a QuoteService. slippageBps is used when a
// request does not carry its own tolerance.
func NewQuoteService(logger *slog.Logger, reserves ReserveProvider, tokens *TokenRegistry, slippageBps int64, m *metrics.SwapMetrics) *QuoteService {
	return &QuoteService{
		BaseService: BaseService{logger: logger},
		reserves:    reserves,
		tokens:      tokens,
		slippageBps: slippageBps,
		metrics:     m,
	}
}

// QuoteRequest prices Amount of Src (ExactInput) or of Dst (ExactOutput).
// A nil SlippageBps uses the service default.
type QuoteRequest struct {
	Src    common.Address
	Dst    common.Address
	Amount *big.Int
	Type   uniswapv2.TradeType
	// SlippageBps overrides the service default when non-nil.
	SlippageBps *int64
}

// Quote is a priced trade with its fee breakdown and router bounds.
type Quote struct {
	Trade       *uniswapv2.Trade
	Fees        *uniswapv2.FeeDecomposition
	Bounds      uniswapv2.SlippageBounds
	Stats       uniswapv2.TradeStats
	Variant     operation.Variant
	SlippageBps int64
}

// Quote fetches reserves for src/dst and prices req at the latest block.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	q, err := s.quote(ctx, req)
	s.metrics.ObserveQuote(req.Type.String(), err)
	return q, err
}

func (s *QuoteService) quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	s.logger.Debug("quoting swap", "src", req.Src.Hex(), "dst", req.Dst.Hex(), "amount", req.Amount.String(), "type", req.Type.String())

	src, dst, err := resolvePair(s.tokens, req.Src, req.Dst)
	if err != nil {
		return nil, err
	}
	tolerance := s.slippageBps
	if req.SlippageBps != nil {
		tolerance = *req.SlippageBps
	}

	pair, err := s.reserves.FetchReserves(ctx, src, dst)
	if err != nil {
		return nil, err
	}
	route, err := uniswapv2.NewRoute([]*uniswapv2.Pair{pair}, src)
	if err != nil {
		return nil, err
	}
	trade, err := uniswapv2.Quote(route, req.Type, req.Amount)
	if err != nil {
		return nil, err
	}
	bounds, err := uniswapv2.AdjustedAmounts(trade, tolerance)
	if err != nil {
		return nil, err
	}
	fees := uniswapv2.Decompose(trade)

	s.logger.Debug("quote computed", "in", trade.InputAmount.Raw.String(), "out", trade.OutputAmount.Raw.String())
	return &Quote{
		Trade:       trade,
		Fees:        fees,
		Bounds:      bounds,
		Stats:       uniswapv2.Stats(trade, fees, bounds),
		Variant:     operation.Select(src, dst),
		SlippageBps: tolerance,
	}, nil
}
