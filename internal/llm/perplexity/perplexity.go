package perplexity

import (
	"context"
	"time"

	pplx "github.com/sgaunet/perplexity-go/v2"

	"github.com/brandlens/brandlens/internal/llm"
)

const (
	// DefaultModel is the model used when no override is supplied
	DefaultModel = "sonar"
	// Measurement runs want reproducible answers, not creative variance
	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
)

// Provider implements the llm.Provider interface for Perplexity
type Provider struct {
	apiKey string
	client *pplx.Client
}

// New creates a new Perplexity provider. The SDK client is constructed once
// and reused for every call.
func New(apiKey string) *Provider {
	client := pplx.NewClient(apiKey)
	client.SetHTTPTimeout(60 * time.Second)
	return &Provider{
		apiKey: apiKey,
		client: client,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "perplexity"
}

// Model returns the default model identifier
func (p *Provider) Model() string {
	return DefaultModel
}

// Send dispatches one chat completion to Perplexity and returns the response text
func (p *Provider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	if p.apiKey == "" {
		return "", &llm.ConfigurationError{Provider: "perplexity", Reason: "api key is required"}
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

	messages := []pplx.Message{}
	if systemPrompt != "" {
		messages = append(messages, pplx.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, pplx.Message{Role: "user", Content: prompt})

	req := pplx.NewCompletionRequest(
		pplx.WithMessages(messages),
		pplx.WithModel(model),
		pplx.WithTemperature(temperature),
		pplx.WithMaxTokens(maxTokens),
	)
	if err := req.Validate(); err != nil {
		return "", &llm.ConfigurationError{Provider: "perplexity", Reason: err.Error()}
	}

	res, err := p.client.SendCompletionRequest(req)
	if err != nil {
		return "", &llm.ProviderError{Provider: "perplexity", Status: 0, Body: err.Error()}
	}

	content := res.GetLastContent()
	if content == "" {
		return "", &llm.EmptyResponseError{Provider: "perplexity"}
	}

	return content, nil
}
