package domain

import "time"

// Provider types understood by the backend registry.
const (
	ProviderOllama     = "ollama"
	ProviderLlamaCpp   = "llamacpp"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Provider struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type"` // ollama, llamacpp, openrouter, gemini
	Name           string    `json:"name"`
	BaseURL        string    `json:"base_url"`
	Model          string    `json:"model"`
	APIKey         string    `json:"api_key"`
	Temperature    float64   `json:"temperature"`
	MaxTokens      int       `json:"max_tokens"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Timeout returns the transport timeout; zero means the adapter default.
func (p *Provider) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}
