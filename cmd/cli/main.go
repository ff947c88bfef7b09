// Package main provides the CLI tool for stock-chat.
// Uses Cobra for command parsing — Cobra is the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/cli chat
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/chat"
	"github.com/fleveque/stock-chat/internal/classifier"
	"github.com/fleveque/stock-chat/internal/config"
	"github.com/fleveque/stock-chat/internal/llm"
	"github.com/fleveque/stock-chat/internal/marketdata"
	"github.com/fleveque/stock-chat/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	youStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// stock-chat chat
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stock-chat",
		Short: "Stock price chatbot CLI",
	}

	root.AddCommand(chatCmd())
	return root
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat about stock prices in the terminal",
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func runChat() error {
	// Load config
	configPath := os.Getenv("STOCKCHAT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Set up logger (always use development mode for CLI)
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// The CLI shares the server's upstream-call log.
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	callRepo := storage.NewCallRepository(db)

	var clients []llm.Client
	if cfg.LLM.OpenAI.APIKey != "" {
		clients = append(clients, llm.NewOpenAIClient(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		clients = append(clients, llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
	}

	svc := chat.NewService(
		classifier.New(clients, callRepo, logger),
		marketdata.NewClient(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey, callRepo, logger),
		logger,
	)

	fmt.Println(titleStyle.Render("Smart Stock Price Checker"))
	fmt.Println(hintStyle.Render("Enter a ticker symbol or company name. Type 'exit' to quit."))
	fmt.Println()

	// One conversation for the whole terminal session — the same append-only
	// transcript the HTTP API keeps per session.
	conv := chat.NewConversation()
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(youStyle.Render("You: "))
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF (Ctrl+D) ends the session cleanly.
			fmt.Println()
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		reply := svc.HandleSubmit(context.Background(), conv, input)
		fmt.Printf("%s %s\n\n", botStyle.Render("Bot:"), reply)
	}
}
