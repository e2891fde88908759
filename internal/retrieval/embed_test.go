package retrieval

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedding_Normalized(t *testing.T) {
	embed := HashEmbedding(32)
	for _, text := range []string{"hello world", "", "!!!"} {
		vec, err := embed(context.Background(), text)
		require.NoError(t, err)
		require.Len(t, vec, 32)

		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5, text)
	}
}

func TestHashEmbedding_Deterministic(t *testing.T) {
	embed := HashEmbedding(0)
	a, err := embed(context.Background(), "Same Words")
	require.NoError(t, err)
	b, err := embed(context.Background(), "same words")
	require.NoError(t, err)
	assert.Len(t, a, DefaultHashDimensions)
	assert.Equal(t, a, b)
}

func TestNewEmbedding(t *testing.T) {
	f, err := NewEmbedding(EmbeddingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, f)

	f, err = NewEmbedding(EmbeddingConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = NewEmbedding(EmbeddingConfig{Provider: "openai"})
	assert.Error(t, err)

	f, err = NewEmbedding(EmbeddingConfig{Provider: "OpenAI", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = NewEmbedding(EmbeddingConfig{Provider: "word2vec"})
	assert.ErrorContains(t, err, "word2vec")
}
