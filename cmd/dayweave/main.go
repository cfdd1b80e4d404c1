// Command dayweave runs the itinerary-planning HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dayweave/dayweave/pkg/config"
	"github.com/dayweave/dayweave/pkg/model/anthropic"
	"github.com/dayweave/dayweave/pkg/planner"
	"github.com/dayweave/dayweave/pkg/server"
	"github.com/dayweave/dayweave/pkg/tool"
	toolbuiltin "github.com/dayweave/dayweave/pkg/tool/builtin"
)

func main() {
	configPath := flag.String("config", "dayweave.toml", "path to the TOML config file")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, "dayweave:", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting dayweave", "config", cfg.String())

	providerOpts := []anthropic.Option{
		anthropic.WithModel(cfg.Anthropic.Model),
		anthropic.WithMaxTokens(cfg.Anthropic.MaxTokens),
		anthropic.WithSystem(planner.SystemPrompt),
	}
	if cfg.Anthropic.BaseURL != "" {
		providerOpts = append(providerOpts, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
	}
	provider, err := anthropic.NewClient(cfg.Anthropic.APIKey, providerOpts...)
	if err != nil {
		return err
	}

	registry := tool.NewRegistry()
	builtins := []tool.Tool{
		toolbuiltin.NewRestaurantSearch(cfg.Tools.GoogleAPIKey, nil),
		toolbuiltin.NewMovieSearch(cfg.Tools.SerpAPIKey, nil),
		toolbuiltin.NewPlaceSearch(cfg.Tools.GoogleAPIKey, nil),
		toolbuiltin.NewTravelInfo(cfg.Tools.GoogleAPIKey, nil),
	}
	for _, t := range builtins {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	if cfg.Tools.GoogleAPIKey == "" {
		logger.Warn("google api key unset, place and travel lookups run in mock mode")
	}
	if cfg.Tools.SerpAPIKey == "" {
		logger.Warn("serpapi key unset, movie lookups run in mock mode")
	}

	executor := tool.NewExecutor(registry, cfg.ToolTimeout(), logger)
	p, err := planner.New(provider, registry, executor, planner.Options{
		MaxRounds:    cfg.Planner.MaxRounds,
		ModelTimeout: cfg.Planner.ModelTimeout.Duration,
		StreamBuffer: cfg.Planner.StreamBuffer,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(p, logger, server.WithAllowedOrigins(cfg.Server.AllowedOrigins)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
