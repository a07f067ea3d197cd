package retriever

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentic-rag/internal/store"
)

type fakeEmbedder struct {
	vector   []float32
	lastText string
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.lastText = text
	return f.vector, nil
}

type fakeStore struct {
	rows    []store.Row
	gotK    int
	gotVec  store.Vector
	upserts int
}

func (f *fakeStore) Upsert(_ context.Context, rows []store.Row) error {
	f.upserts++
	return nil
}

func (f *fakeStore) Search(_ context.Context, v store.Vector, k int) ([]store.Row, error) {
	f.gotVec = v
	f.gotK = k
	return f.rows, nil
}

func TestRetrieveTopTwo(t *testing.T) {
	emb := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	st := &fakeStore{rows: []store.Row{
		{ID: "a", Content: "Refunds are processed within 14 days.", Metadata: map[string]any{"source": "policy.txt", "page": 1}},
		{ID: "b", Content: "Contact support for edge cases.", Metadata: map[string]any{"source": "policy.txt", "page": 2}},
	}}

	serialized, rows, err := NewTool(emb, st).Retrieve(context.Background(), "refund policy")
	require.NoError(t, err)

	assert.Equal(t, "refund policy", emb.lastText)
	assert.Equal(t, 2, st.gotK)
	assert.Equal(t, store.Vector{0.1, 0.2}, st.gotVec)
	assert.Equal(t, st.rows, rows)

	// one Source/Content block per row, in row order, blank-line separated
	blocks := strings.Split(serialized, "\n\n")
	require.Len(t, blocks, 2)
	for i, block := range blocks {
		assert.True(t, strings.HasPrefix(block, "Source: "), "block %d: %q", i, block)
		assert.Contains(t, block, "\nContent: "+rows[i].Content)
	}
	assert.Contains(t, blocks[0], `"page":1`)
	assert.Contains(t, blocks[0], `"source":"policy.txt"`)
}

func TestSerializeEmpty(t *testing.T) {
	assert.Equal(t, "", Serialize(nil))
}

func TestDefinition(t *testing.T) {
	def := NewTool(&fakeEmbedder{}, &fakeStore{}).Definition()
	assert.Equal(t, "function", def.Type)
	require.NotNil(t, def.Function)
	assert.Equal(t, Name, def.Function.Name)
	assert.NotEmpty(t, def.Function.Description)
}
