package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/eliobricenov/uniswap-swapper/internal/chain"
	"github.com/eliobricenov/uniswap-swapper/internal/config"
	"github.com/eliobricenov/uniswap-swapper/internal/executor"
	"github.com/eliobricenov/uniswap-swapper/internal/handler"
	"github.com/eliobricenov/uniswap-swapper/internal/logging"
	"github.com/eliobricenov/uniswap-swapper/internal/metrics"
	"github.com/eliobricenov/uniswap-swapper/internal/service"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ethereumClient, err := chain.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}

	m := metrics.Swap()
	reserves := chain.NewReserveProvider(logging.Component(logger, "reserves"), ethereumClient, cfg.Factory, cfg.InitCodeHash)

	assets := make([]uniswapv2.Asset, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		assets = append(assets, t.Asset(cfg.ChainID))
	}
	registry := service.NewTokenRegistry(cfg.ChainID, assets...)

	quoteService := service.NewQuoteService(logging.Component(logger, "quote"), reserves, registry, cfg.SlippageBps, m)

	sessionOpts := []service.SessionOption{service.WithSessionMetrics(m)}
	if cfg.CanSign() {
		signer, err := chain.NewKeySigner(cfg.PrivateKey)
		if err != nil {
			ethereumClient.Close()
			return err
		}
		tx := chain.NewTransactor(logging.Component(logger, "transactor"), ethereumClient, signer, cfg.ChainID, cfg.GasLimit)
		tokens := chain.NewTokens(logging.Component(logger, "tokens"), ethereumClient, tx)
		router := chain.NewRouter(cfg.Router, tx)
		exec := executor.New(logging.Component(logger, "executor"), signer, tokens, tokens, tokens, router, router.Address(), executor.WithMetrics(m))
		sessionOpts = append(sessionOpts, service.WithExecutor(exec, tokens, signer.Address()))
		logger.Info("swap submission enabled", "account", signer.Address().Hex(), "router", cfg.Router.Hex())
	} else {
		logger.Info("swap submission disabled, PRIVATE_KEY not set")
	}
	sessionService := service.NewSessionService(logging.Component(logger, "sessions"), reserves, registry, cfg.SlippageBps, sessionOpts...)

	handler.Register(app,
		handler.NewQuoteHandler(logger, quoteService),
		handler.NewSessionHandler(logger, sessionService),
		handler.NewTokensHandler(logger, registry),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			ethereumClient.Close()
			return fmt.Errorf("server error: %w", err)
		}
		ethereumClient.Close()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = app.ShutdownWithContext(shutdownCtx)

	ethereumClient.Close()
	return nil
}
