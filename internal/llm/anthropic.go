package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/fleveque/stock-chat/internal/model"
)

// AnthropicClient implements the Client interface using Claude.
// We define a tool so Claude returns structured data instead of free-form
// text — the same submit_classification contract the OpenAI client uses.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Claude-powered classifier.
func NewAnthropicClient(apiKey string, model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) Classify(ctx context.Context, text string) (*model.Classification, error) {
	submitTool := anthropic.ToolParam{
		Name:        submitToolName,
		Description: param.NewOpt("Submit the classification of the user's input."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: classificationSchema,
		},
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   256,
		Temperature: param.NewOpt(0.0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text))),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &submitTool},
		},
		// Force the tool call — Claude must answer through the contract.
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: submitToolName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range message.Content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok || toolUse.Name != submitToolName {
			continue
		}

		// toolUse.Input is raw JSON — round-trip it into our schema struct.
		inputBytes, err := json.Marshal(toolUse.Input)
		if err != nil {
			return nil, fmt.Errorf("marshaling tool input: %w", err)
		}

		var sub submitClassification
		if err := json.Unmarshal(inputBytes, &sub); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadClassification, err)
		}
		return validate(text, sub)
	}

	return nil, fmt.Errorf("%w: no %s call in response", ErrBadClassification, submitToolName)
}
