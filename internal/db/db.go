package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"agentic-rag/internal/config"
	"agentic-rag/internal/store"
)

const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_SERVICE_KEY"
)

// record mirrors the Supabase table the match function reads:
// id, content, metadata jsonb, embedding vector.
type record struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            string         `bun:"id,pk"`
	Content       string         `bun:"content,notnull"`
	Metadata      map[string]any `bun:"metadata,type:jsonb"`
	Embedding     store.Vector   `bun:"embedding"`
}

// matchResult is one row returned by the server-side similarity function.
type matchResult struct {
	ID         string         `bun:"id"`
	Content    string         `bun:"content"`
	Metadata   map[string]any `bun:"metadata,type:jsonb"`
	Similarity float64        `bun:"similarity"`
}

// Connect opens the Supabase Postgres connection from SUPABASE_URL and
// SUPABASE_SERVICE_KEY. Query logging toggles via the BUNDEBUG env var.
func Connect() (*bun.DB, error) {
	url := os.Getenv(EnvSupabaseURL)
	if url == "" {
		return nil, fmt.Errorf("%s is not set", EnvSupabaseURL)
	}
	key := os.Getenv(EnvSupabaseKey)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", EnvSupabaseKey)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url), pgdriver.WithPassword(key)))
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.FromEnv("BUNDEBUG")))
	return db, nil
}

// Store is the Supabase-backed vector store.
type Store struct {
	db      *bun.DB
	table   string
	queryFn string
}

func New(db *bun.DB, cfg config.SupabaseConfig) (*Store, error) {
	if cfg.Table == "" {
		return nil, config.MissingKey("database.supabase.table")
	}
	if cfg.QueryFunction == "" {
		return nil, config.MissingKey("database.supabase.query_function")
	}
	return &Store{db: db, table: cfg.Table, queryFn: cfg.QueryFunction}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the documents table if it does not exist. The match
// function itself lives in sql/schema.sql and is applied on the Supabase side.
func (s *Store) EnsureSchema(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return config.MissingKey("embedding.dimension")
	}
	_, err := s.db.NewRaw(
		"CREATE TABLE IF NOT EXISTS ? (id uuid PRIMARY KEY, content text NOT NULL, metadata jsonb, embedding vector(?))",
		bun.Ident(s.table), bun.Safe(strconv.Itoa(dimension)),
	).Exec(ctx)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]record, len(rows))
	for i, r := range rows {
		recs[i] = record{
			ID:        r.ID,
			Content:   r.Content,
			Metadata:  r.Metadata,
			Embedding: r.Embedding,
		}
	}
	_, err := s.db.NewInsert().
		Model(&recs).
		ModelTableExpr("? AS d", bun.Ident(s.table)).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upserting %d rows: %w", len(rows), err)
	}
	return nil
}

// Search calls the configured server-side similarity function and returns the
// matches nearest-first, as the function orders them.
func (s *Store) Search(ctx context.Context, embedding store.Vector, k int) ([]store.Row, error) {
	var matches []matchResult
	err := s.db.NewRaw(
		"SELECT id, content, metadata, similarity FROM ?(?::vector, ?)",
		bun.Ident(s.queryFn), embedding.String(), k,
	).Scan(ctx, &matches)
	if err != nil {
		return nil, fmt.Errorf("searching via %s: %w", s.queryFn, err)
	}
	rows := make([]store.Row, len(matches))
	for i, m := range matches {
		rows[i] = store.Row{ID: m.ID, Content: m.Content, Metadata: m.Metadata}
	}
	return rows, nil
}
