package openai

import (
	"context"
	"errors"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/brandlens/brandlens/internal/llm"
)

const (
	// DefaultModel is the model used when no override is supplied
	DefaultModel = "gpt-4o-mini"
	// Measurement runs want reproducible answers, not creative variance
	defaultTemperature = 0.3
	defaultMaxTokens   = 1000
)

// Provider implements the llm.Provider interface for OpenAI
type Provider struct {
	apiKey string
	client openaisdk.Client
}

// New creates a new OpenAI provider. The SDK client is constructed once and
// reused for every call.
func New(apiKey string, opts ...option.RequestOption) *Provider {
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Provider{
		apiKey: apiKey,
		client: openaisdk.NewClient(clientOpts...),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openai"
}

// Model returns the default model identifier
func (p *Provider) Model() string {
	return DefaultModel
}

// Send dispatches one chat completion to OpenAI and returns the response text
func (p *Provider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	if p.apiKey == "" {
		return "", &llm.ConfigurationError{Provider: "openai", Reason: "api key is required"}
	}

	model := DefaultModel
	if params.Model != "" {
		model = params.Model
	}

	temperature := defaultTemperature
	if params.Temperature > 0 {
		temperature = params.Temperature
	}

	maxTokens := defaultMaxTokens
	if params.MaxTokens > 0 {
		maxTokens = params.MaxTokens
	}

	messages := []openaisdk.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaisdk.UserMessage(prompt))

	resp, err := p.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(model),
		Messages:    messages,
		Temperature: openaisdk.Float(temperature),
		MaxTokens:   openaisdk.Int(int64(maxTokens)),
	})
	if err != nil {
		var apierr *openaisdk.Error
		if errors.As(err, &apierr) {
			return "", &llm.ProviderError{
				Provider: "openai",
				Status:   apierr.StatusCode,
				Body:     apierr.RawJSON(),
			}
		}
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &llm.EmptyResponseError{Provider: "openai"}
	}

	return resp.Choices[0].Message.Content, nil
}
