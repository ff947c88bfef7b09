// Package classifier orchestrates LLM providers to label user input.
// It tries providers in configured order — first success wins, failures
// fall through to the next provider. Every upstream call is recorded in
// the call log for cost and failure monitoring.
package classifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/llm"
	"github.com/fleveque/stock-chat/internal/model"
	"github.com/fleveque/stock-chat/internal/storage"
)

// Classifier wraps an ordered list of LLM clients.
// The order is configurable: llm.provider_order: ["openai", "anthropic"].
// Swapping provider priority is a config change, not a code change.
type Classifier struct {
	clients  []llm.Client // Ordered list: first is primary, rest are fallbacks
	callRepo storage.CallRepository
	logger   *zap.Logger
}

// New creates a classifier with an ordered list of LLM clients.
// callRepo may be nil — the classifier then skips call recording.
func New(clients []llm.Client, callRepo storage.CallRepository, logger *zap.Logger) *Classifier {
	return &Classifier{
		clients:  clients,
		callRepo: callRepo,
		logger:   logger,
	}
}

// Classify labels text as a ticker, a company name, or unknown.
// Providers are tried in order; a provider error (network, API, or a
// payload failing the structured-output contract) falls through to the
// next one. Only when every provider fails does the caller see an error.
func (c *Classifier) Classify(ctx context.Context, text string) (*model.Classification, error) {
	if len(c.clients) == 0 {
		return nil, fmt.Errorf("no LLM providers configured")
	}

	var lastErr error

	for i, client := range c.clients {
		start := time.Now()
		result, err := client.Classify(ctx, text)
		c.recordCall(ctx, client, text, err, time.Since(start).Milliseconds())

		if err == nil {
			return result, nil
		}

		lastErr = err

		if i < len(c.clients)-1 {
			c.logger.Warn("LLM provider failed, trying next",
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("all LLM providers failed: %w", lastErr)
}

func (c *Classifier) recordCall(ctx context.Context, client llm.Client, text string, callErr error, durationMs int64) {
	if c.callRepo == nil {
		return
	}

	call := &model.APICall{
		Input:     text,
		Provider:  client.ProviderName(),
		Operation: "classify:" + client.ModelName(),
		Success:   callErr == nil,
	}
	call.DurationMs = &durationMs

	if err := c.callRepo.Create(ctx, call); err != nil {
		c.logger.Error("recording classifier call", zap.Error(err))
	}
}
