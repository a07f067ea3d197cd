package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"agentic-rag/internal/config"
	"agentic-rag/internal/store"
)

// Store is the embedded chromem-go vector store. It keeps everything on local
// disk, which makes it the offline counterpart to the Supabase store.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func New(cfg config.LocalConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, config.MissingKey("database.local.path")
	}
	if cfg.Collection == "" {
		return nil, config.MissingKey("database.local.collection")
	}
	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("opening chromem db: %w", err)
	}
	return open(db, cfg.Collection)
}

// NewInMemory builds a store with no persistence.
func NewInMemory(collection string) (*Store, error) {
	return open(chromem.NewDB(), collection)
}

func open(db *chromem.DB, collection string) (*Store, error) {
	// The embedding func is only consulted for documents added without an
	// embedding; every row here carries one, so nil is never invoked.
	c, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", collection, err)
	}
	return &Store{db: db, collection: c}, nil
}

func (s *Store) Upsert(ctx context.Context, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(rows))
	for i, r := range rows {
		meta := make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = fmt.Sprint(v)
		}
		docs[i] = chromem.Document{
			ID:        r.ID,
			Content:   r.Content,
			Metadata:  meta,
			Embedding: r.Embedding,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding %d documents: %w", len(rows), err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, embedding store.Vector, k int) ([]store.Row, error) {
	// chromem rejects result counts above the collection size.
	if n := s.collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return nil, nil
	}
	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}
	rows := make([]store.Row, len(results))
	for i, res := range results {
		meta := make(map[string]any, len(res.Metadata))
		for mk, mv := range res.Metadata {
			meta[mk] = mv
		}
		rows[i] = store.Row{
			ID:        res.ID,
			Content:   res.Content,
			Metadata:  meta,
			Embedding: store.Vector(res.Embedding),
		}
	}
	return rows, nil
}
