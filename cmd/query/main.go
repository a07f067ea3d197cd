package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"agentic-rag/internal/agent"
	"agentic-rag/internal/chromemdb"
	"agentic-rag/internal/config"
	"agentic-rag/internal/db"
	"agentic-rag/internal/embedding"
	"agentic-rag/internal/llmservice"
	"agentic-rag/internal/prompt"
	"agentic-rag/internal/retriever"
	"agentic-rag/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.Query.Default == "" {
		log.Fatal().Err(config.MissingKey("query.default")).Msg("Error reading query")
	}

	ag, closeStore, err := buildAgent(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building agent")
	}
	defer closeStore()

	res, err := ag.Run(context.Background(), agent.Input{Input: cfg.Query.Default})
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering query")
	}
	fmt.Println(res.Output)
}

func buildAgent(cfg *config.Config) (*agent.Agent, func(), error) {
	embedder, err := embedding.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	llm, err := llmservice.New(cfg.LLM)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	template, err := prompt.Compile(cfg.Prompt)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	ag, err := agent.New(llm, retriever.NewTool(embedder, st), template, cfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return ag, closeStore, nil
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
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
