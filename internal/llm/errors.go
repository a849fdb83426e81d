package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable indicates the model endpoint is unreachable.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrEmptyOutput indicates the model answered without any text.
	ErrEmptyOutput = errors.New("llm returned no text")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted provider was selected without a key.
	ErrMissingAPIKey = errors.New("llm api key is not configured")
)

// StatusError is a non-2xx answer from the model endpoint.
type StatusError struct {
	Provider Provider
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}
