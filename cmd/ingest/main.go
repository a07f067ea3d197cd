package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"agentic-rag/internal/chromemdb"
	"agentic-rag/internal/config"
	"agentic-rag/internal/db"
	"agentic-rag/internal/embedding"
	"agentic-rag/internal/ingest"
	"agentic-rag/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

	embedder, err := embedding.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	defer closeStore()

	pipeline, err := ingest.NewPipeline(cfg, embedder, st)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building ingestion pipeline")
	}

	n, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting documents")
	}
	log.Info().Int("rows", n).Str("dir", cfg.Paths.Documents).Msg("Ingestion complete")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Database.Provider {
	case "supabase":
		conn, err := db.Connect()
		if err != nil {
			return nil, nil, err
		}
		s, err := db.New(conn, cfg.Database.Supabase)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		if err := s.EnsureSchema(ctx, cfg.Embedding.Dimension); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "local":
		s, err := chromemdb.New(cfg.Database.Local)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "":
		return nil, nil, config.MissingKey("database.provider")
	default:
		return nil, nil, fmt.Errorf("unknown database provider %q", cfg.Database.Provider)
	}
}
