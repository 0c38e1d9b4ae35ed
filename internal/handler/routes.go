package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"github.com/eliobricenov/uniswap-swapper/internal/metrics"
)

// Register mounts every endpoint on app.
func Register(app *fiber.App, quotes *QuoteHandler, sessions *SessionHandler, tokens *TokensHandler) {
	app.Get("/quote", quotes.Handle())
	app.Get("/tokens", tokens.Handle())

	app.Post("/sessions", sessions.Create())
	app.Get("/sessions/:id", sessions.Get())
	app.Delete("/sessions/:id", sessions.Close())
	app.Post("/sessions/:id/events", sessions.Event())
	app.Post("/sessions/:id/swap", sessions.Swap())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}
