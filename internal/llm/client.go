// Package llm provides a provider-agnostic interface for classifying user
// input as a ticker symbol or a company name. The model must answer through
// a structured tool call — free-text answers parsed with substring searches
// are exactly the kind of brittleness this contract replaces.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fleveque/stock-chat/internal/model"
)

// ErrBadClassification is returned when a provider answers but the payload
// fails validation: an unknown kind, or a ticker/company label without a
// value. Callers check with errors.Is — this is the defined parse-failure
// error, not a panic deep in a string split.
var ErrBadClassification = errors.New("llm returned an unusable classification")

// Client is the interface for LLM providers that can classify input.
// Both OpenAI and Anthropic implement this interface, allowing the
// classifier to fall back from one to the other.
//
// Go interface design tip: keep interfaces small. This has one real method —
// that's ideal. Go proverb: "The bigger the interface, the weaker the abstraction."
type Client interface {
	Classify(ctx context.Context, text string) (*model.Classification, error)
	ProviderName() string
	ModelName() string
}

// submitClassification is the schema of the tool call every provider asks the
// model to make. Two fields, nothing else — the fixed contract.
type submitClassification struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// classificationSchema is the JSON schema for submit_classification, shared
// by both providers. Declared once so the contract cannot drift between them.
var classificationSchema = map[string]interface{}{
	"kind": map[string]interface{}{
		"type":        "string",
		"enum":        []string{"ticker", "company", "unknown"},
		"description": "Whether the input is a ticker symbol, a company name, or neither.",
	},
	"value": map[string]interface{}{
		"type":        "string",
		"description": "Best guess for the ticker symbol or company name. Empty when kind is unknown.",
	},
}

const submitToolName = "submit_classification"

const systemPrompt = "You are an intelligent assistant."

// buildPrompt creates the user prompt for the LLM.
func buildPrompt(text string) string {
	return fmt.Sprintf(`I am working on stock analysis. The user entered the following: %q.
Please determine if this is:
1. A ticker symbol (e.g., AAPL).
2. A company name (e.g., Apple Inc.).
Call the submit_classification tool with kind set to 'ticker' or 'company' and
value set to your best guess for the ticker symbol or company name.
If it is neither, call it with kind 'unknown'.`, text)
}

// validate turns a raw tool submission into a Classification, enforcing the
// contract. original is the user's input text — the data model says an
// unknown classification carries the original input as its value.
func validate(original string, sub submitClassification) (*model.Classification, error) {
	kind := strings.ToLower(strings.TrimSpace(sub.Kind))
	value := strings.ToLower(strings.TrimSpace(sub.Value))

	if !model.ValidKind(kind) {
		return nil, fmt.Errorf("%w: kind %q", ErrBadClassification, sub.Kind)
	}

	k := model.Kind(kind)
	if k == model.KindUnknown {
		return &model.Classification{Kind: k, Value: original}, nil
	}
	if value == "" {
		return nil, fmt.Errorf("%w: kind %q with empty value", ErrBadClassification, kind)
	}

	return &model.Classification{Kind: k, Value: value}, nil
}
