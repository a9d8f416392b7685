package llm

import (
	"context"
	"sync"
)

// Params holds the per-call generation parameters. Zero values fall back to
// the adapter's defaults.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is the uniform interface over a vendor chat-completion API.
// Send returns the generated text for one prompt invocation.
type Provider interface {
	// Name returns the provider key (openai, anthropic, perplexity)
	Name() string
	// Model returns the model identifier used when Params.Model is empty
	Model() string
	// Send dispatches one chat completion and returns the response text
	Send(ctx context.Context, prompt, systemPrompt string, params Params) (string, error)
}

// Registry holds the configured providers for a process, keyed by name.
// It is constructed once at startup and passed by injection; providers are
// registered before any measurement run starts.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry, replacing any previous
// provider with the same name
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the names of all registered providers
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
