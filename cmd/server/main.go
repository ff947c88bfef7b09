// Package main is the entry point for the stock-chat HTTP server.
// In Go, the `main` package with a `main()` function is what gets executed.
// Unlike Ruby/JS, Go compiles to a single static binary — no runtime needed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/chat"
	"github.com/fleveque/stock-chat/internal/classifier"
	"github.com/fleveque/stock-chat/internal/config"
	"github.com/fleveque/stock-chat/internal/llm"
	"github.com/fleveque/stock-chat/internal/marketdata"
	"github.com/fleveque/stock-chat/internal/server"
	"github.com/fleveque/stock-chat/internal/session"
	"github.com/fleveque/stock-chat/internal/storage"
)

func main() {
	// os.Exit ensures the process exits with a non-zero code on failure.
	// We call run() separately so deferred cleanup functions execute properly
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	configPath := os.Getenv("STOCKCHAT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Missing upstream credentials are fatal here, before anything listens.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Set up structured logging with zap.
	// zap is a high-performance structured logger — it outputs JSON in production
	// and human-readable format in development.
	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// defer runs when the enclosing function returns — like Ruby's ensure or
	// a finally block. Great for cleanup.
	// Sync flushes buffered log entries. We intentionally ignore the error here
	// because Sync commonly fails on stdout/stderr (not a real problem).
	defer func() { _ = logger.Sync() }()

	// Open the upstream-call log. SQLite creates the file on first use, but
	// not the directory.
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()
	callRepo := storage.NewCallRepository(db)

	clients, err := buildLLMClients(cfg, logger)
	if err != nil {
		return err
	}

	deps := server.Deps{
		ChatService: chat.NewService(
			classifier.New(clients, callRepo, logger),
			marketdata.NewClient(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey, callRepo, logger),
			logger,
		),
		Sessions: session.NewStore(),
		CallRepo: callRepo,
	}

	// Create and start the HTTP server
	srv := server.New(cfg, deps, logger)

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	// Channels are Go's primary concurrency primitive — goroutines communicate
	// through channels instead of sharing memory.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine (lightweight thread managed by Go runtime).
	// The `go` keyword spawns a goroutine — it's like starting a background task.
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or the server errors out.
	// select is like a switch for channels — it waits until one is ready.
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// buildLLMClients assembles the classifier's provider chain in the configured
// order, skipping providers with no API key. Config validation already
// guarantees at least one key is set.
func buildLLMClients(cfg *config.Config, logger *zap.Logger) ([]llm.Client, error) {
	var clients []llm.Client
	for _, name := range cfg.LLM.ProviderOrder {
		switch name {
		case "openai":
			if cfg.LLM.OpenAI.APIKey == "" {
				logger.Warn("skipping provider with no API key", zap.String("provider", name))
				continue
			}
			clients = append(clients, llm.NewOpenAIClient(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
		case "anthropic":
			if cfg.LLM.Anthropic.APIKey == "" {
				logger.Warn("skipping provider with no API key", zap.String("provider", name))
				continue
			}
			clients = append(clients, llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
		default:
			return nil, fmt.Errorf("unknown LLM provider %q in provider_order", name)
		}
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("no usable LLM providers configured")
	}
	return clients, nil
}
