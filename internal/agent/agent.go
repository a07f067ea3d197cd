package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"agentic-rag/internal/config"
	"agentic-rag/internal/prompt"
	"agentic-rag/internal/store"
)

// Retriever is the tool surface the agent can call mid-reasoning.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, []store.Row, error)
	Definition() llms.Tool
}

// Input is one agent invocation: the user's question plus the optional
// session history (empty in the one-shot CLI).
type Input struct {
	Input       string
	ChatHistory []llms.MessageContent
}

// Result pairs the final answer with the rows retrieved by the last tool
// call, kept as a structured artifact for citation use.
type Result struct {
	Output    string
	Retrieved []store.Row
}

// Agent drives the tool-calling loop: render the prompt, ask the model,
// execute any requested retrievals, feed the results back, repeat until the
// model answers directly or the iteration cap is hit.
type Agent struct {
	llm           llms.Model
	tool          Retriever
	template      *prompt.Template
	temperature   float64
	maxIterations int
}

func New(llm llms.Model, tool Retriever, template *prompt.Template, cfg *config.Config) (*Agent, error) {
	if cfg.Agent.MaxIterations <= 0 {
		return nil, config.MissingKey("agent.max_iterations")
	}
	return &Agent{
		llm:           llm,
		tool:          tool,
		template:      template,
		temperature:   cfg.LLM.Temperature,
		maxIterations: cfg.Agent.MaxIterations,
	}, nil
}

func (a *Agent) Run(ctx context.Context, in Input) (Result, error) {
	messages, err := a.template.Render(
		map[string]string{"input": in.Input},
		map[string][]llms.MessageContent{"chat_history": in.ChatHistory},
	)
	if err != nil {
		return Result{}, err
	}

	var retrieved []store.Row
	tools := []llms.Tool{a.tool.Definition()}

	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.llm.GenerateContent(ctx, messages,
			llms.WithTools(tools),
			llms.WithTemperature(a.temperature),
		)
		if err != nil {
			return Result{}, fmt.Errorf("generating completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return Result{}, fmt.Errorf("empty completion response")
		}
		choice := resp.Choices[0]

		if len(choice.ToolCalls) == 0 {
			return Result{Output: choice.Content, Retrieved: retrieved}, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		messages = append(messages, assistant)

		for _, tc := range choice.ToolCalls {
			content, rows, err := a.execute(ctx, tc)
			if err != nil {
				return Result{}, err
			}
			retrieved = rows
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    content,
				}},
			})
		}
	}
	return Result{}, fmt.Errorf("no final answer after %d tool-calling iterations", a.maxIterations)
}

func (a *Agent) execute(ctx context.Context, tc llms.ToolCall) (string, []store.Row, error) {
	if tc.FunctionCall == nil {
		return "", nil, fmt.Errorf("tool call %s has no function payload", tc.ID)
	}
	if tc.FunctionCall.Name != a.tool.Definition().Function.Name {
		return "", nil, fmt.Errorf("model requested unknown tool %q", tc.FunctionCall.Name)
	}
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		return "", nil, fmt.Errorf("parsing tool arguments: %w", err)
	}
	log.Debug().Str("query", args.Query).Msg("Executing retrieve tool")
	return a.tool.Retrieve(ctx, args.Query)
}
