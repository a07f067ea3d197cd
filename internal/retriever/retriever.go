package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"agentic-rag/internal/embedding"
	"agentic-rag/internal/store"
)

// Name is the function name the model calls to retrieve context.
const Name = "retrieve"

// topK is fixed: the two nearest chunks per retrieval.
const topK = 2

// Tool embeds a query and looks up its nearest chunks in the vector store.
type Tool struct {
	embedder embedding.Embedder
	store    store.Store
}

func NewTool(embedder embedding.Embedder, st store.Store) *Tool {
	return &Tool{embedder: embedder, store: st}
}

// Retrieve returns both payloads of a tool invocation: the serialized text
// the model reads, and the raw rows for programmatic citation use.
func (t *Tool) Retrieve(ctx context.Context, query string) (string, []store.Row, error) {
	vector, err := t.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("embedding query: %w", err)
	}
	rows, err := t.store.Search(ctx, vector, topK)
	if err != nil {
		return "", nil, err
	}
	return Serialize(rows), rows, nil
}

// Serialize renders one "Source:/Content:" block per row, in row order,
// joined by blank lines.
func Serialize(rows []store.Row) string {
	blocks := make([]string, len(rows))
	for i, row := range rows {
		meta, err := json.Marshal(row.Metadata)
		if err != nil {
			meta = []byte("{}")
		}
		blocks[i] = fmt.Sprintf("Source: %s\nContent: %s", meta, row.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// Definition is the function schema handed to the model.
func (t *Tool) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        Name,
			Description: "Retrieve information related to a query.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query to look up.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}
