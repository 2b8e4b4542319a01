// Package config loads emailgen settings from a YAML file and EMAILGEN_*
// environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"emailgen/internal/adapters/llm/gemini"
	"emailgen/internal/adapters/llm/httpclient"
	"emailgen/internal/adapters/llm/ollama"
	"emailgen/internal/adapters/llm/openaicompat"
	"emailgen/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config/emailgen.yaml"

type Config struct {
	DBPath     string   `yaml:"db_path"`
	ListenAddr string   `yaml:"listen_addr"`
	LogLevel   string   `yaml:"log_level"`
	Provider   Provider `yaml:"provider"`
}

// Provider seeds the provider store on first start. Fields left unset are
// filled from the defaults of the chosen type.
type Provider struct {
	Type        string        `yaml:"type"`
	Name        string        `yaml:"name"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Temperature *float64      `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default leaves the provider block empty; WithDefaults turns that into
// llama3.1:8b on a local Ollama at temperature 0.7.
func Default() Config {
	return Config{
		DBPath:     "data/emailgen.db",
		ListenAddr: ":8090",
		LogLevel:   "info",
	}
}

// WithDefaults fills the fields p leaves unset with those of its type.
// An empty type means ollama.
func (p Provider) WithDefaults() Provider {
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	if p.Type == "" {
		p.Type = domain.ProviderOllama
	}
	var (
		baseURL, model string
		temperature    = 0.7
		maxTokens      int
	)
	switch p.Type {
	case domain.ProviderOllama:
		baseURL, model = ollama.DefaultBaseURL, ollama.DefaultModel
		temperature = ollama.DefaultTemperature
	case domain.ProviderLlamaCpp:
		baseURL = openaicompat.DefaultLlamaCppURL
		temperature, maxTokens = 0.01, 512
	case domain.ProviderOpenRouter:
		baseURL = openaicompat.DefaultOpenRouterURL
	case domain.ProviderGemini:
		model = gemini.DefaultModel
	}
	if p.Name == "" {
		p.Name = p.Type
	}
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.Temperature == nil {
		p.Temperature = &temperature
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = maxTokens
	}
	if p.Timeout == 0 {
		p.Timeout = httpclient.DefaultTimeout
	}
	return p
}

// Load reads path (DefaultPath when empty) over the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Provider = cfg.Provider.WithDefaults()
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"EMAILGEN_DB_PATH":          &cfg.DBPath,
		"EMAILGEN_LISTEN_ADDR":      &cfg.ListenAddr,
		"EMAILGEN_LOG_LEVEL":        &cfg.LogLevel,
		"EMAILGEN_PROVIDER_TYPE":    &cfg.Provider.Type,
		"EMAILGEN_PROVIDER_NAME":    &cfg.Provider.Name,
		"EMAILGEN_PROVIDER_URL":     &cfg.Provider.BaseURL,
		"EMAILGEN_PROVIDER_MODEL":   &cfg.Provider.Model,
		"EMAILGEN_PROVIDER_API_KEY": &cfg.Provider.APIKey,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("EMAILGEN_PROVIDER_TEMPERATURE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("EMAILGEN_PROVIDER_TEMPERATURE: %w", err)
		}
		cfg.Provider.Temperature = &f
	}
	if v, ok := lookup("EMAILGEN_PROVIDER_MAX_TOKENS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EMAILGEN_PROVIDER_MAX_TOKENS: %w", err)
		}
		cfg.Provider.MaxTokens = n
	}
	if v, ok := lookup("EMAILGEN_PROVIDER_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EMAILGEN_PROVIDER_TIMEOUT: %w", err)
		}
		cfg.Provider.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Provider.Type) {
	case "", domain.ProviderOllama, domain.ProviderLlamaCpp, domain.ProviderOpenRouter, domain.ProviderGemini:
	default:
		return fmt.Errorf("unsupported provider type %q", c.Provider.Type)
	}
	if t := c.Provider.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("provider temperature %v out of range [0, 2]", *t)
	}
	if c.Provider.MaxTokens < 0 {
		return fmt.Errorf("provider max_tokens %d is negative", c.Provider.MaxTokens)
	}
	// Timeouts are stored in whole seconds.
	if d := c.Provider.Timeout; d != 0 && d < time.Second {
		return fmt.Errorf("provider timeout %v is below 1s", d)
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	return nil
}

// ProviderRecord converts the provider block into a storable record.
func (c Config) ProviderRecord() *domain.Provider {
	p := c.Provider.WithDefaults()
	return &domain.Provider{
		Type:           p.Type,
		Name:           p.Name,
		BaseURL:        p.BaseURL,
		Model:          p.Model,
		APIKey:         p.APIKey,
		Temperature:    *p.Temperature,
		MaxTokens:      p.MaxTokens,
		TimeoutSeconds: int(p.Timeout / time.Second),
	}
}

// Logger builds the process logger at the configured level.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
