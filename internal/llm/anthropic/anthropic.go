package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brandlens/brandlens/internal/llm"
)

const (
	// DefaultModel is the model used when no override is supplied
	DefaultModel = "claude-3-5-sonnet-20241022"
	// Measurement runs want reproducible answers, not creative variance
	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
)

// Provider implements the llm.Provider interface for Anthropic
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Anthropic provider
func New(apiKey, baseURL string) *Provider {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}

	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "anthropic"
}

// Model returns the default model identifier
func (p *Provider) Model() string {
	return DefaultModel
}

// Send dispatches one message to Anthropic and returns the response text
func (p *Provider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	if p.apiKey == "" {
		return "", &llm.ConfigurationError{Provider: "anthropic", Reason: "api key is required"}
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

	requestBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}
	if systemPrompt != "" {
		requestBody["system"] = systemPrompt
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &llm.ProviderError{
			Provider: "anthropic",
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	var anthropicResp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(anthropicResp.Content) == 0 || anthropicResp.Content[0].Text == "" {
		return "", &llm.EmptyResponseError{Provider: "anthropic"}
	}

	return anthropicResp.Content[0].Text, nil
}
