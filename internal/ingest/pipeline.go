package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"

	"agentic-rag/internal/config"
	"agentic-rag/internal/embedding"
	"agentic-rag/internal/store"
)

// Pipeline loads the document directory, splits everything into overlapping
// chunks, embeds them in one batch and writes one batch to the vector store.
type Pipeline struct {
	dir      string
	splitter textsplitter.RecursiveCharacter
	embedder embedding.Embedder
	store    store.Store
}

func NewPipeline(cfg *config.Config, embedder embedding.Embedder, st store.Store) (*Pipeline, error) {
	if cfg.Paths.Documents == "" {
		return nil, config.MissingKey("paths.documents")
	}
	if cfg.Embedding.Chunk.Size <= 0 {
		return nil, config.MissingKey("embedding.chunk.size")
	}
	return &Pipeline{
		dir:      cfg.Paths.Documents,
		splitter: newSplitter(cfg.Embedding.Chunk.Size, cfg.Embedding.Chunk.Overlap),
		embedder: embedder,
		store:    st,
	}, nil
}

func newSplitter(size, overlap int) textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	)
}

// Run executes one ingestion pass and returns the number of rows written.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	docs, err := LoadDir(p.dir)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		log.Warn().Str("dir", p.dir).Msg("No documents found")
		return 0, nil
	}

	chunks, err := textsplitter.SplitDocuments(p.splitter, docs)
	if err != nil {
		return 0, fmt.Errorf("splitting documents: %w", err)
	}
	log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("Split documents")

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.PageContent
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	rows := make([]store.Row, len(chunks))
	for i, c := range chunks {
		rows[i] = store.Row{
			ID:        uuid.NewString(),
			Content:   c.PageContent,
			Metadata:  c.Metadata,
			Embedding: vectors[i],
		}
	}
	if err := p.store.Upsert(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
