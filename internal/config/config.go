package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultFormat       = "json"
	defaultStride       = 10
	defaultStartOffset  = 8
	defaultChunkSize    = 1000 // bytes
	defaultChunkOverlap = 500  // bytes
)

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

type GeneratorConfig struct {
	Format       string `yaml:"format"`
	Stride       int    `yaml:"stride"`
	StartOffset  *int   `yaml:"start_offset"` // pointer so an explicit 0 survives defaulting
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// Offset returns the configured start offset or the default.
func (g GeneratorConfig) Offset() int {
	if g.StartOffset == nil {
		return defaultStartOffset
	}
	return *g.StartOffset
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Debug bool   `yaml:"debug"`
}

type DatasetDBConfig struct {
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	InMemory      bool   `yaml:"in_memory"`
	EncryptionKey string `yaml:"encryption_key"`
}

type OutputConfig struct {
	JSONPath string `yaml:"json_path"`
	CSVPath  string `yaml:"csv_path"`
	XLSXPath string `yaml:"xlsx_path"`
}

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	EmbedLLM  LLMConfig       `yaml:"embed_llm"`
	Generator GeneratorConfig `yaml:"generator"`
	Database  DatabaseConfig  `yaml:"database"`
	DatasetDB DatasetDBConfig `yaml:"dataset_db"`
	Output    OutputConfig    `yaml:"output"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Generator.Format == "" {
		c.Generator.Format = defaultFormat
	}
	if c.Generator.Stride == 0 {
		c.Generator.Stride = defaultStride
	}
	if c.Generator.ChunkSize == 0 {
		c.Generator.ChunkSize = defaultChunkSize
	}
	if c.Generator.ChunkOverlap == 0 {
		c.Generator.ChunkOverlap = defaultChunkOverlap
	}
}
