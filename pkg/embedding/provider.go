package embedding

import (
	"errors"
	"fmt"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations do not retry; retry policy belongs to callers.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

// ErrEmptyContent marks the non-error "nothing to embed" case. Callers must
// reject empty text before paying for a provider call.
var ErrEmptyContent = errors.New("embedding: empty content")

// ProviderError is a typed failure from the remote embedding API.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s embedding error: status %d, body %s", e.Provider, e.StatusCode, e.Body)
}

// IsProviderError reports whether err wraps a remote provider failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
