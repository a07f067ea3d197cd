package prompt

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"agentic-rag/internal/config"
)

// Template is the compiled form of the declarative prompt list: an ordered
// mix of literal messages and named placeholders. Compiled once at startup,
// rendered per invocation.
type Template struct {
	steps []step
}

type step struct {
	role     llms.ChatMessageType
	content  string
	variable string
	optional bool
}

// Compile converts the configured prompt entries into a template, preserving
// entry order exactly.
func Compile(entries []config.PromptEntry) (*Template, error) {
	if len(entries) == 0 {
		return nil, config.MissingKey("prompt")
	}
	steps := make([]step, 0, len(entries))
	for i, e := range entries {
		if e.Type == "placeholder" {
			if e.VariableName == "" {
				return nil, fmt.Errorf("prompt entry %d: placeholder without variable_name", i)
			}
			steps = append(steps, step{variable: e.VariableName, optional: e.Optional})
			continue
		}
		role, err := roleFor(e.Type)
		if err != nil {
			return nil, fmt.Errorf("prompt entry %d: %w", i, err)
		}
		steps = append(steps, step{role: role, content: e.Content})
	}
	return &Template{steps: steps}, nil
}

func roleFor(entryType string) (llms.ChatMessageType, error) {
	switch entryType {
	case "system":
		return llms.ChatMessageTypeSystem, nil
	case "human", "user":
		return llms.ChatMessageTypeHuman, nil
	case "ai", "assistant":
		return llms.ChatMessageTypeAI, nil
	default:
		return "", fmt.Errorf("unknown prompt entry type %q", entryType)
	}
}

// Render produces the ordered message list. Text variables substitute into
// literal content as {name}; message variables fill placeholders. A missing
// required placeholder is an error, a missing optional one renders empty.
func (t *Template) Render(text map[string]string, messages map[string][]llms.MessageContent) ([]llms.MessageContent, error) {
	pairs := make([]string, 0, len(text)*2)
	for k, v := range text {
		pairs = append(pairs, "{"+k+"}", v)
	}
	replacer := strings.NewReplacer(pairs...)

	var out []llms.MessageContent
	for _, s := range t.steps {
		if s.variable != "" {
			msgs, ok := messages[s.variable]
			if !ok && !s.optional {
				return nil, fmt.Errorf("prompt placeholder %q has no value", s.variable)
			}
			out = append(out, msgs...)
			continue
		}
		out = append(out, llms.TextParts(s.role, replacer.Replace(s.content)))
	}
	return out, nil
}
