package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fleveque/stock-chat/internal/model"
)

// OpenAIClient implements the Client interface using OpenAI's API.
// Uses function calling to get a structured classification instead of
// free text.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI-powered classifier.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAIClient) ProviderName() string { return "openai" }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) Classify(ctx context.Context, text string) (*model.Classification, error) {
	// Define the submit_classification function for structured output.
	// OpenAI's Parameters field accepts `any` — we pass a raw JSON schema map.
	tool := openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        submitToolName,
			Description: "Submit the classification of the user's input.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": classificationSchema,
				"required":   []string{"kind", "value"},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		// The client omits a literal zero temperature (omitempty), which would
		// fall back to the API default. SmallestNonzeroFloat32 is sent and is
		// indistinguishable from 0 for sampling purposes.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(text)},
		},
		Tools: []openai.Tool{tool},
		// Force the model to call our tool — no prose answers.
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: submitToolName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	for _, toolCall := range resp.Choices[0].Message.ToolCalls {
		if toolCall.Function.Name != submitToolName {
			continue
		}

		var sub submitClassification
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &sub); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadClassification, err)
		}
		return validate(text, sub)
	}

	return nil, fmt.Errorf("%w: no %s call in response", ErrBadClassification, submitToolName)
}
