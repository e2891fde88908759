package retrieval

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/philippgille/chromem-go"
)

// Embedder names accepted by NewEmbedding.
const (
	EmbedderHash   = "hash"
	EmbedderOpenAI = "openai"
	EmbedderOllama = "ollama"
)

// DefaultHashDimensions is the vector size of HashEmbedding.
const DefaultHashDimensions = 256

// EmbeddingConfig selects an embedding backend.
type EmbeddingConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewEmbedding returns the embedding function for cfg.Provider.
func NewEmbedding(cfg EmbeddingConfig) (chromem.EmbeddingFunc, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", EmbedderHash:
		return HashEmbedding(DefaultHashDimensions), nil
	case EmbedderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai embeddings require an API key")
		}
		model := chromem.EmbeddingModelOpenAI3Small
		if cfg.Model != "" {
			model = chromem.EmbeddingModelOpenAI(cfg.Model)
		}
		return chromem.NewEmbeddingFuncOpenAI(cfg.APIKey, model), nil
	case EmbedderOllama:
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return chromem.NewEmbeddingFuncOllama(model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// HashEmbedding returns an offline embedding that hashes lowercased word
// tokens into dims buckets and normalizes the result. Texts sharing words
// get similar vectors.
func HashEmbedding(dims int) chromem.EmbeddingFunc {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, dims)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%uint32(dims)]++
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm == 0 {
			// chromem rejects zero vectors; use a fixed unit vector instead.
			vec[0] = 1
			return vec, nil
		}
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
		return vec, nil
	}
}
