package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/eliobricenov/uniswap-swapper/internal/chain"
	"github.com/eliobricenov/uniswap-swapper/internal/executor"
	"github.com/eliobricenov/uniswap-swapper/internal/service"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrInvalidBody indicates that the request body is not valid JSON for the
// endpoint.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrSameAddresses is returned when src and dst addresses are identical.
var ErrSameAddresses = fiber.NewError(fiber.StatusBadRequest, "src and dst addresses cannot be the same")

// ErrAmountRequired is returned when the amount parameter is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when the amount cannot be parsed as a
// base-10 integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrAmountNonPositive is returned when the amount is zero or negative.
var ErrAmountNonPositive = fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")

// ErrInvalidSide is returned for a side other than input/output or source/target.
var ErrInvalidSide = fiber.NewError(fiber.StatusBadRequest, "invalid side")

// ErrInvalidSlippage is returned when slippage_bps is out of range.
var ErrInvalidSlippage = fiber.NewError(fiber.StatusBadRequest, "slippage_bps must be an integer between 0 and 10000")

// ErrInvalidSessionID is returned when :id is not a UUID.
var ErrInvalidSessionID = fiber.NewError(fiber.StatusBadRequest, "invalid session id")

// ErrSameTokenBadRequest maps a same-token validation failure to a 400 error.
var ErrSameTokenBadRequest = fiber.NewError(fiber.StatusBadRequest, "src and dst tokens cannot be the same")

// ErrUnknownTokenBadRequest maps a token missing from the registry to a 400 error.
var ErrUnknownTokenBadRequest = fiber.NewError(fiber.StatusBadRequest, "unknown token")

// ErrEmptyReservesBadRequest maps empty-reserve pool state to a 400 error.
var ErrEmptyReservesBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool has insufficient reserves")

// ErrPairNotFound is returned when no pair is deployed for src/dst.
var ErrPairNotFound = fiber.NewError(fiber.StatusNotFound, "no pair for src/dst")

// ErrPairMismatchBadGateway signals that the node returned a pair for other tokens.
var ErrPairMismatchBadGateway = fiber.NewError(fiber.StatusBadGateway, "pair does not match src/dst")

// ErrInsufficientLiquidity is returned when the pool cannot supply the requested output.
var ErrInsufficientLiquidity = fiber.NewError(fiber.StatusUnprocessableEntity, "insufficient liquidity for this trade")

// ErrInputTooSmall is returned when the input rounds down to zero output.
var ErrInputTooSmall = fiber.NewError(fiber.StatusUnprocessableEntity, "input amount too small to produce output")

// ErrSessionNotFound is returned for unknown or closed sessions.
var ErrSessionNotFound = fiber.NewError(fiber.StatusNotFound, "session not found")

// ErrUnknownCommand is returned for an unsupported event type.
var ErrUnknownCommand = fiber.NewError(fiber.StatusBadRequest, "unknown event type")

// ErrPoolNotLoaded is returned when an event needs a pool the session lacks.
var ErrPoolNotLoaded = fiber.NewError(fiber.StatusConflict, "no pool loaded")

// ErrNotQuoted is returned when swapping a session without a trade.
var ErrNotQuoted = fiber.NewError(fiber.StatusConflict, "no trade quoted")

// ErrSwapDisabled is returned when no signing key is configured.
var ErrSwapDisabled = fiber.NewError(fiber.StatusForbidden, "swap submission is disabled")

// ErrInsufficientBalance is returned when the account cannot cover the swap.
var ErrInsufficientBalance = fiber.NewError(fiber.StatusUnprocessableEntity, "insufficient balance")

// ErrApprovalFailed is returned when the approval transaction fails.
var ErrApprovalFailed = fiber.NewError(fiber.StatusBadGateway, "token approval failed")

// ErrInternal signals a generic server-side failure.
var ErrInternal = fiber.NewError(fiber.StatusInternalServerError, "internal error")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// serviceError maps service, chain and engine errors to HTTP errors.
func serviceError(logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrSameToken), errors.Is(err, chain.ErrSameToken):
		return ErrSameTokenBadRequest
	case errors.Is(err, service.ErrUnknownToken):
		return ErrUnknownTokenBadRequest
	case errors.Is(err, service.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, service.ErrUnknownCommand):
		return ErrUnknownCommand
	case errors.Is(err, service.ErrPoolNotLoaded):
		return ErrPoolNotLoaded
	case errors.Is(err, service.ErrNotQuoted):
		return ErrNotQuoted
	case errors.Is(err, service.ErrSwapDisabled):
		return ErrSwapDisabled
	case errors.Is(err, chain.ErrUnknownPair):
		return ErrPairNotFound
	case errors.Is(err, chain.ErrPairMismatch):
		return ErrPairMismatchBadGateway
	case errors.Is(err, uniswapv2.ErrZeroReserve):
		return ErrEmptyReservesBadRequest
	case errors.Is(err, uniswapv2.ErrInsufficientLiquidity):
		return ErrInsufficientLiquidity
	case errors.Is(err, uniswapv2.ErrInsufficientInputAmount):
		return ErrInputTooSmall
	case errors.Is(err, uniswapv2.ErrInvalidTolerance):
		return ErrInvalidSlippage
	case errors.Is(err, uniswapv2.ErrInvalidAmount):
		return ErrAmountNonPositive
	case errors.Is(err, executor.ErrInsufficientBalance):
		return ErrInsufficientBalance
	case errors.Is(err, executor.ErrApprovalFailed):
		return ErrApprovalFailed
	default:
		logger.Error("request failed", "err", err)
		return ErrInternal
	}
}
