package chromemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentic-rag/internal/config"
	"agentic-rag/internal/store"
)

func localConfig(t *testing.T) config.LocalConfig {
	t.Helper()
	return config.LocalConfig{Path: t.TempDir(), Collection: "documents"}
}

func seedRows() []store.Row {
	return []store.Row{
		{ID: "a", Content: "Refunds are processed within 14 days.", Metadata: map[string]any{"source": "policy.txt"}, Embedding: store.Vector{1, 0, 0}},
		{ID: "b", Content: "Shipping takes up to 5 business days.", Metadata: map[string]any{"source": "shipping.txt"}, Embedding: store.Vector{0, 1, 0}},
		{ID: "c", Content: "Support is available around the clock.", Metadata: map[string]any{"source": "support.txt"}, Embedding: store.Vector{0, 0, 1}},
	}
}

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory("documents")
	require.NoError(t, err)
	require.NoError(t, s.Upsert(context.Background(), seedRows()))
	return s
}

func TestSearchNearestFirst(t *testing.T) {
	s := newSeededStore(t)

	rows, err := s.Search(context.Background(), store.Vector{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Contains(t, rows[0].Content, "14 days")
	assert.Equal(t, "policy.txt", rows[0].Metadata["source"])
}

func TestSearchClampsToCollectionSize(t *testing.T) {
	s := newSeededStore(t)

	rows, err := s.Search(context.Background(), store.Vector{0, 1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].ID)
}

func TestSearchEmptyCollection(t *testing.T) {
	s, err := NewInMemory("documents")
	require.NoError(t, err)

	rows, err := s.Search(context.Background(), store.Vector{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpsertEmptyBatch(t *testing.T) {
	s, err := NewInMemory("documents")
	require.NoError(t, err)
	assert.NoError(t, s.Upsert(context.Background(), nil))
}

func TestPersistentStore(t *testing.T) {
	s, err := New(localConfig(t))
	require.NoError(t, err)
	require.NoError(t, s.Upsert(context.Background(), seedRows()))

	rows, err := s.Search(context.Background(), store.Vector{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].ID)
}

func TestNewMissingKeys(t *testing.T) {
	cfg := localConfig(t)
	cfg.Path = ""
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = localConfig(t)
	cfg.Collection = ""
	_, err = New(cfg)
	assert.Error(t, err)
}
