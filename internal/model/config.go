package model

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/commitmood/internal/logging"
)

// Config is the complete commitmood configuration.
// Field tags serve both yaml.v3 (config show/init) and viper's mapstructure decoding.
type Config struct {
	Analyzer    AnalyzerConfig    `yaml:"analyzer" mapstructure:"analyzer"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         logging.Config    `yaml:"log" mapstructure:"log"`
}

// AnalyzerConfig selects and tunes the sentiment analyzer
type AnalyzerConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"`                 // lexicon, openai, ollama
	LexiconPath     string `yaml:"lexicon_path" mapstructure:"lexicon_path"`         // extra word: score YAML file
	Negation        bool   `yaml:"negation" mapstructure:"negation"`                 // flip scores after negators
	AttributionKind string `yaml:"attribution_kind" mapstructure:"attribution_kind"` // map, list
}

// LLMConfig configures the OpenAI and Ollama analyzers
type LLMConfig struct {
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures the analysis cache and the compiled-pattern cache
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir        string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL  time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL    time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	PatternTTL time.Duration `yaml:"pattern_ttl" mapstructure:"pattern_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, markdown, html, json
	Color   bool   `yaml:"color" mapstructure:"color"`
	Summary bool   `yaml:"summary" mapstructure:"summary"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			Provider:        "lexicon",
			Negation:        true,
			AttributionKind: string(AttributionMap),
		},
		LLM: LLMConfig{
			Model:             "gpt-4o-mini",
			Timeout:           30,
			MaxTokens:         500,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        defaultCacheDir(),
			MemoryTTL:  30 * time.Minute,
			DiskTTL:    7 * 24 * time.Hour,
			PatternTTL: 10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Summary: true,
		},
		Log: logging.Config{
			Level:  "warn",
			Format: "console",
		},
	}
}

// defaultCacheDir resolves the per-user cache dir, falling back to the temp dir
func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "commitmood")
	}
	return filepath.Join(os.TempDir(), "commitmood-cache")
}
