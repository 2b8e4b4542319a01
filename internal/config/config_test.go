package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"emailgen/internal/domain"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.Type != domain.ProviderOllama || cfg.Provider.Model != "llama3.1:8b" || *cfg.Provider.Temperature != 0.7 {
		t.Errorf("Load() = %+v, want defaults", cfg.Provider)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailgen.yaml")
	body := `db_path: /tmp/x.db
log_level: debug
provider:
  type: llamacpp
  base_url: http://localhost:8080
  model: llama-2-7b-chat
  temperature: 0.01
  max_tokens: 512
  timeout: 90s
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.LogLevel != "debug" {
		t.Errorf("top-level = %+v", cfg)
	}
	p := cfg.Provider
	if p.Type != domain.ProviderLlamaCpp || p.MaxTokens != 512 || *p.Temperature != 0.01 || p.Timeout != 90*time.Second {
		t.Errorf("provider = %+v", p)
	}
	if cfg.ListenAddr != ":8090" {
		t.Errorf("ListenAddr = %q, want default kept", cfg.ListenAddr)
	}
	rec := cfg.ProviderRecord()
	if rec.TimeoutSeconds != 90 || rec.Name != domain.ProviderLlamaCpp {
		t.Errorf("ProviderRecord() = %+v", rec)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailgen.yaml")
	if err := os.WriteFile(path, []byte("provider:\n  type: ctransformers\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an unsupported provider type")
	}
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"EMAILGEN_PROVIDER_MODEL":       "qwen2.5",
		"EMAILGEN_PROVIDER_TEMPERATURE": "0.2",
		"EMAILGEN_PROVIDER_TIMEOUT":     "10s",
		"EMAILGEN_LISTEN_ADDR":          "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Provider.Model != "qwen2.5" || *cfg.Provider.Temperature != 0.2 || cfg.Provider.Timeout != 10*time.Second {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.ListenAddr != ":8090" {
		t.Errorf("empty env value overwrote ListenAddr: %q", cfg.ListenAddr)
	}

	env["EMAILGEN_PROVIDER_TEMPERATURE"] = "warm"
	if err := applyEnv(&cfg, lookup); err == nil {
		t.Error("applyEnv() accepted a non-numeric temperature")
	}
}

func TestLoadFillsDefaultsPerType(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		baseURL     string
		model       string
		temperature float64
		maxTokens   int
	}{
		{
			name:        "empty file",
			body:        "",
			baseURL:     "http://localhost:11434",
			model:       "llama3.1:8b",
			temperature: 0.7,
		},
		{
			name:        "ollama",
			body:        "provider:\n  type: ollama\n",
			baseURL:     "http://localhost:11434",
			model:       "llama3.1:8b",
			temperature: 0.7,
		},
		{
			name:        "llamacpp",
			body:        "provider:\n  type: llamacpp\n",
			baseURL:     "http://localhost:8080",
			temperature: 0.01,
			maxTokens:   512,
		},
		{
			name:        "openrouter",
			body:        "provider:\n  type: openrouter\n  model: meta-llama/llama-3.1-8b-instruct\n  api_key: k\n",
			baseURL:     "https://openrouter.ai",
			model:       "meta-llama/llama-3.1-8b-instruct",
			temperature: 0.7,
		},
		{
			name:        "gemini",
			body:        "provider:\n  type: gemini\n  api_key: k\n",
			model:       "gemini-2.5-flash",
			temperature: 0.7,
		},
		{
			name:        "explicit zero temperature is kept",
			body:        "provider:\n  type: llamacpp\n  temperature: 0\n  max_tokens: 128\n",
			baseURL:     "http://localhost:8080",
			temperature: 0,
			maxTokens:   128,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "emailgen.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			rec := cfg.ProviderRecord()
			if rec.BaseURL != tt.baseURL || rec.Model != tt.model || rec.Temperature != tt.temperature || rec.MaxTokens != tt.maxTokens {
				t.Errorf("ProviderRecord() = %+v", rec)
			}
			if rec.Name != rec.Type {
				t.Errorf("Name = %q, want type %q", rec.Name, rec.Type)
			}
			if rec.TimeoutSeconds != 300 {
				t.Errorf("TimeoutSeconds = %d, want 300", rec.TimeoutSeconds)
			}
		})
	}
}

func TestProviderRecordFromDefault(t *testing.T) {
	rec := Default().ProviderRecord()
	if rec.Type != domain.ProviderOllama || rec.BaseURL != "http://localhost:11434" || rec.Model != "llama3.1:8b" || rec.Temperature != 0.7 {
		t.Errorf("ProviderRecord() = %+v", rec)
	}
}

func TestLoadRejectsSubSecondTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailgen.yaml")
	if err := os.WriteFile(path, []byte("provider:\n  timeout: 500ms\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted a 500ms timeout")
	}
}
