package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	APIKeyEnv = "OPENAI_API_KEY"

	ProviderLangchain = "langchaingo"
	ProviderOpenAI    = "openai"

	defaultAddr           = ":5000"
	defaultMaxUploadMB    = 32
	defaultChunkSize      = 2000
	defaultChunkOverlap   = 200
	defaultTopK           = 3
	defaultInferenceModel = "gpt-3.5-turbo"
	defaultEmbeddingModel = "text-embedding-ada-002"
	defaultLogLevel       = "debug"
)

type Config struct {
	LogLevel string       `yaml:"log_level"`
	Server   ServerConfig `yaml:"server"`
	LLM      LLMConfig    `yaml:"llm"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	RAG      RAGConfig    `yaml:"rag"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// UploadsDir archives raw uploads when set. Indexing never reads it back.
	UploadsDir  string   `yaml:"uploads_dir"`
	MaxUploadMB int64    `yaml:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LLMConfig describes one OpenAI-compatible endpoint.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

// LoadConfig reads the YAML file at path. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills zero values and pulls the API key from the environment.
func ApplyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = defaultMaxUploadMB
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	applyLLMDefaults(&cfg.LLM, defaultInferenceModel)
	applyLLMDefaults(&cfg.EmbedLLM, defaultEmbeddingModel)

	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap < 0 || cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		cfg.RAG.ChunkOverlap = min(defaultChunkOverlap, cfg.RAG.ChunkSize/2)
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = defaultTopK
	}
}

func applyLLMDefaults(c *LLMConfig, model string) {
	if c.Provider == "" {
		c.Provider = ProviderLangchain
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.Key == "" {
		c.Key = os.Getenv(APIKeyEnv)
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.LLM.Key == "" || c.EmbedLLM.Key == "" {
		return fmt.Errorf("%s is not set", APIKeyEnv)
	}
	for _, p := range []string{c.LLM.Provider, c.EmbedLLM.Provider} {
		if p != ProviderLangchain && p != ProviderOpenAI {
			return fmt.Errorf("unsupported provider: %s", p)
		}
	}
	return nil
}
