// Package config provides configuration for the server, the corpus pipeline
// and the bulk loader, plus the fixed schema of the search index.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration. Zero values are filled in by
// ApplyDefaults; environment variables override file values.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Index    IndexConfig    `yaml:"index"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ServerConfig configures the query API process.
type ServerConfig struct {
	Port    string `yaml:"port"`
	DataDir string `yaml:"data_dir"`
}

// BackendConfig configures how the pipeline side reaches the search backend.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// IndexConfig names the target index.
type IndexConfig struct {
	Name string `yaml:"name"`
}

// PipelineConfig configures corpus building and bulk loading.
type PipelineConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	CorpusPath   string `yaml:"corpus_path"`
	BatchSize    int    `yaml:"batch_size"`
	MaxRetries   int    `yaml:"max_retries"`
	Workers      int    `yaml:"workers"`
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides and defaults. An empty path skips the file step.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SEARCH_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("SEARCH_INDEX"); v != "" {
		c.Index.Name = v
	}
	if v := os.Getenv("CORPUS_PATH"); v != "" {
		c.Pipeline.CorpusPath = v
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Pipeline.BatchSize = n
		}
	}
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "./search_data"
	}
	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:8080"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 30 * time.Second
	}
	if c.Index.Name == "" {
		c.Index.Name = "debate_docs"
	}
	if c.Pipeline.RawDir == "" {
		c.Pipeline.RawDir = "data/raw"
	}
	if c.Pipeline.ProcessedDir == "" {
		c.Pipeline.ProcessedDir = "data/processed"
	}
	if c.Pipeline.CorpusPath == "" {
		c.Pipeline.CorpusPath = c.Pipeline.ProcessedDir + "/corpus.jsonl"
	}
	if c.Pipeline.BatchSize == 0 {
		c.Pipeline.BatchSize = 1000
	}
	if c.Pipeline.MaxRetries == 0 {
		c.Pipeline.MaxRetries = 3
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 4
	}
}
