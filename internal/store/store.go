package store

import "context"

// Row is the persisted unit of similarity search: one chunk of text, its
// embedding, and the metadata needed to cite the source.
type Row struct {
	ID        string
	Content   string
	Metadata  map[string]any
	Embedding Vector
}

// Store is the vector store surface shared by the ingestion pipeline and the
// retrieve tool. Implementations: Supabase Postgres (internal/db) and the
// embedded chromem store (internal/chromemdb).
type Store interface {
	// Upsert writes all rows in a single batch.
	Upsert(ctx context.Context, rows []Row) error
	// Search returns at most k rows ordered nearest-first to the embedding.
	Search(ctx context.Context, embedding Vector, k int) ([]Row, error)
}
