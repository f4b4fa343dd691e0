package embedding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingProvider struct {
	calls int
	fail  bool
}

func (p *countingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	if p.fail {
		return nil, &ProviderError{Provider: "test", StatusCode: 500, Body: "boom"}
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

func TestCachedProviderMemoizes(t *testing.T) {
	inner := &countingProvider{}
	provider := NewCachedProvider(inner, time.Minute)

	first, err := provider.Generate("same text", "RETRIEVAL_DOCUMENT")
	assert.NoError(t, err)

	second, err := provider.Generate("same text", "RETRIEVAL_DOCUMENT")
	assert.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Embedding.Values, second.Embedding.Values)
}

func TestCachedProviderKeyIncludesTaskType(t *testing.T) {
	inner := &countingProvider{}
	provider := NewCachedProvider(inner, time.Minute)

	_, _ = provider.Generate("same text", "RETRIEVAL_DOCUMENT")
	_, _ = provider.Generate("same text", "RETRIEVAL_QUERY")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{fail: true}
	provider := NewCachedProvider(inner, time.Minute)

	_, err := provider.Generate("text", "RETRIEVAL_DOCUMENT")
	assert.Error(t, err)
	assert.True(t, IsProviderError(err))

	inner.fail = false
	res, err := provider.Generate("text", "RETRIEVAL_DOCUMENT")
	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 2, inner.calls)
}
