package llm

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates the provider cannot run at all (missing API
// key or required setting). Not retried; surfaced to the operator.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: configuration error: %s", e.Provider, e.Reason)
}

// ProviderError indicates a non-2xx vendor response
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: API error (status %d): %s", e.Provider, e.Status, e.Body)
}

// EmptyResponseError indicates a successful vendor response with no content
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s: empty response from API", e.Provider)
}

// IsConfigurationError reports whether err is a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
