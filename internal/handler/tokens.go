package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/eliobricenov/uniswap-swapper/internal/service"
)

// TokensHandler lists the tokens the service can quote.
type TokensHandler struct {
	BaseHandler
	registry *service.TokenRegistry
}

// NewTokensHandler creates a new TokensHandler.
func NewTokensHandler(logger *slog.Logger, registry *service.TokenRegistry) *TokensHandler {
	return &TokensHandler{BaseHandler: BaseHandler{logger: logger}, registry: registry}
}

// Handle serves GET /tokens.
func (h *TokensHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		assets := h.registry.All()
		out := make([]*AssetView, len(assets))
		for i, a := range assets {
			out[i] = newAssetView(a)
		}
		return c.JSON(fiber.Map{"chain_id": h.registry.ChainID(), "tokens": out})
	}
}
