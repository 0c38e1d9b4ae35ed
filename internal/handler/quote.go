package handler

import (
	"log/slog"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"

	"github.com/eliobricenov/uniswap-swapper/internal/service"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// QuoteHandler serves one-off quotes.
type QuoteHandler struct {
	BaseHandler
	service *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(logger *slog.Logger, svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// QuoteRequest holds the GET /quote query parameters.
type QuoteRequest struct {
	Src         string `query:"src" json:"src"`
	Dst         string `query:"dst" json:"dst"`
	Amount      string `query:"amount" json:"amount"`
	Side        string `query:"side" json:"side"`
	SlippageBps string `query:"slippage_bps" json:"slippage_bps"`
}

// Handle serves GET /quote. amount is a raw integer of src when side is
// input (the default) and of dst when side is output.
func (h *QuoteHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := h.parseAndValidateRequest(c)
		if err != nil {
			return err
		}

		amount, err := h.parseAmount(req.Amount)
		if err != nil {
			return err
		}
		tradeType, err := parseSide(req.Side)
		if err != nil {
			return err
		}
		slippage, err := parseSlippage(req.SlippageBps)
		if err != nil {
			return err
		}

		q, err := h.service.Quote(c, service.QuoteRequest{
			Src:         common.HexToAddress(req.Src),
			Dst:         common.HexToAddress(req.Dst),
			Amount:      amount,
			Type:        tradeType,
			SlippageBps: slippage,
		})
		if err != nil {
			return serviceError(h.logger, err)
		}

		h.logger.Debug("quote computed", "src", req.Src, "dst", req.Dst, "in", q.Trade.InputAmount.Raw.String(), "out", q.Trade.OutputAmount.Raw.String())
		return c.JSON(newTradeView(q.Trade, q.Fees, q.Bounds, q.SlippageBps))
	}
}

func (h *QuoteHandler) parseAndValidateRequest(c fiber.Ctx) (*QuoteRequest, error) {
	var req QuoteRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	if err := validateAddresses(req.Src, req.Dst); err != nil {
		return nil, err
	}

	return &req, nil
}

func (h *QuoteHandler) parseAmount(amountStr string) (*big.Int, error) {
	if amountStr == "" {
		return nil, ErrAmountRequired
	}

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, ErrInvalidAmountFormat
	}

	if amount.Sign() <= 0 {
		return nil, ErrAmountNonPositive
	}

	return amount, nil
}

func parseSide(side string) (uniswapv2.TradeType, error) {
	switch side {
	case "", "input", "in":
		return uniswapv2.ExactInput, nil
	case "output", "out":
		return uniswapv2.ExactOutput, nil
	default:
		return 0, ErrInvalidSide
	}
}

func parseSlippage(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 || v > uniswapv2.BpsDenominator {
		return nil, ErrInvalidSlippage
	}
	return &v, nil
}
