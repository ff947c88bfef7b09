package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/marketdata"
	"github.com/fleveque/stock-chat/internal/model"
)

// MsgApology is the fixed response for input that is neither a ticker nor a
// company name. Surfaced verbatim — tests assert the exact sentence.
const MsgApology = "I'm not sure if this is a company name or a ticker symbol. Please try again."

const msgFoundSymbol = "Found ticker symbol: %s for %s.\n\n%s"

// Classifier labels free-text input. Satisfied by *classifier.Classifier;
// declared here so the service can be tested with a hand-rolled fake.
type Classifier interface {
	Classify(ctx context.Context, text string) (*model.Classification, error)
}

// MarketData resolves company names and looks up prices.
// Satisfied by *marketdata.Client.
type MarketData interface {
	SearchSymbol(ctx context.Context, companyName string) (*model.SymbolMatch, error)
	GetPrice(ctx context.Context, ticker string) string
}

// Service is the conversation controller. One submission runs the full
// pipeline sequentially — classify, optionally search, look up the price —
// before anything is rendered. No parallelism between the upstream calls,
// and no retries.
type Service struct {
	classifier Classifier
	market     MarketData
	logger     *zap.Logger
}

// NewService wires the controller with its two upstream dependencies.
func NewService(classifier Classifier, market MarketData, logger *zap.Logger) *Service {
	return &Service{
		classifier: classifier,
		market:     market,
		logger:     logger,
	}
}

// HandleSubmit processes one user submission: the user message is appended
// immediately, the response is computed, and exactly one assistant message
// is appended. Returns the response text for callers that render it directly.
func (s *Service) HandleSubmit(ctx context.Context, conv *Conversation, text string) string {
	conv.Append(model.RoleUser, text)
	response := s.respond(ctx, text)
	conv.Append(model.RoleAssistant, response)
	return response
}

func (s *Service) respond(ctx context.Context, text string) string {
	result, err := s.classifier.Classify(ctx, text)
	if err != nil {
		// A classification failure (provider down, or a payload failing the
		// structured-output contract) reads the same as "unknown" to the
		// user; the log keeps the distinction for operators.
		s.logger.Warn("classification failed", zap.String("input", text), zap.Error(err))
		return MsgApology
	}

	switch result.Kind {
	case model.KindTicker:
		return s.market.GetPrice(ctx, result.Value)

	case model.KindCompany:
		match, err := s.market.SearchSymbol(ctx, result.Value)
		if err != nil {
			return searchErrorText(err)
		}
		price := s.market.GetPrice(ctx, match.Symbol)
		return fmt.Sprintf(msgFoundSymbol, match.Symbol, match.Name, price)

	default:
		return MsgApology
	}
}

// searchErrorText maps symbol-search errors to the sentences shown in the
// transcript. All upstream failures surface as plain text, never as errors.
func searchErrorText(err error) string {
	if errors.Is(err, marketdata.ErrNoMatches) {
		return marketdata.MsgNoMatches
	}
	return marketdata.MsgFetchFailed
}
