package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "CONFIG_FILE_PATH"

var (
	ErrPathNotSet = errors.New("CONFIG_FILE_PATH is not set")
	ErrMissingKey = errors.New("missing config key")
)

type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Agent     AgentConfig     `yaml:"agent"`
	Paths     PathsConfig     `yaml:"paths"`
	Query     QueryConfig     `yaml:"query"`
	Prompt    []PromptEntry   `yaml:"prompt"`
}

type EmbeddingConfig struct {
	Model     string      `yaml:"model"`
	Dimension int         `yaml:"dimension"`
	Chunk     ChunkConfig `yaml:"chunk"`
}

type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type DatabaseConfig struct {
	Provider string         `yaml:"provider"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Local    LocalConfig    `yaml:"local"`
}

type SupabaseConfig struct {
	Table         string `yaml:"table"`
	QueryFunction string `yaml:"query_function"`
}

type LocalConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

type LLMConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type AgentConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

type PathsConfig struct {
	Documents string `yaml:"documents"`
}

type QueryConfig struct {
	Default string `yaml:"default"`
}

// PromptEntry is one element of the ordered prompt list: either a literal
// role/content message or a named placeholder substituted at render time.
type PromptEntry struct {
	Type         string `yaml:"type"`
	Content      string `yaml:"content"`
	VariableName string `yaml:"variable_name"`
	Optional     bool   `yaml:"optional"`
}

// Load reads the config file named by CONFIG_FILE_PATH.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return nil, ErrPathNotSet
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// MissingKey reports a required key that has no value. Consumers call this at
// first use of a key; no component substitutes defaults on their behalf.
func MissingKey(key string) error {
	return fmt.Errorf("%w: %s", ErrMissingKey, key)
}
