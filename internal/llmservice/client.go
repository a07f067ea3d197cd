package llmservice

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"agentic-rag/internal/config"
)

// New builds the completion client once at startup; the agent reuses it for
// every reasoning step. Temperature is applied per call, not here.
func New(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.Model == "" {
		return nil, config.MissingKey("llm.model")
	}
	llm, err := openai.New(openai.WithModel(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}
	return llm, nil
}
