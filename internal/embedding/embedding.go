package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"agentic-rag/internal/config"
)

// Embedder maps text to fixed-dimension vectors, preserving input order.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewOpenAIEmbedder builds the process-wide embedder for the configured model.
// The API key comes from OPENAI_API_KEY via the client itself.
func NewOpenAIEmbedder(cfg config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	if cfg.Model == "" {
		return nil, config.MissingKey("embedding.model")
	}
	llm, err := openai.New(openai.WithEmbeddingModel(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("initializing embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}
