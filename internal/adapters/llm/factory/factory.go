package factory

import (
	"emailgen/internal/adapters/llm/gemini"
	"emailgen/internal/adapters/llm/ollama"
	"emailgen/internal/adapters/llm/openaicompat"
	"emailgen/internal/adapters/llm/registry"
	"emailgen/internal/domain"
	"emailgen/internal/ports"
)

// Default is the registry of every built-in backend.
var Default = NewRegistry()

// NewRegistry returns a registry with the built-in backends registered.
func NewRegistry() *registry.Registry {
	r := registry.New()
	r.Register(domain.ProviderOllama, func(p *domain.Provider) ports.Provider {
		return ollama.New(p.BaseURL, p.Model, p.Timeout())
	})
	r.Register(domain.ProviderLlamaCpp, func(p *domain.Provider) ports.Provider {
		return openaicompat.New(p.Type, p.APIKey, p.BaseURL, p.Model, p.Timeout())
	})
	r.Register(domain.ProviderOpenRouter, func(p *domain.Provider) ports.Provider {
		return openaicompat.New(p.Type, p.APIKey, p.BaseURL, p.Model, p.Timeout())
	})
	r.Register(domain.ProviderGemini, func(p *domain.Provider) ports.Provider {
		return gemini.New(p.APIKey, p.BaseURL, p.Model, p.Timeout())
	})
	return r
}

// FromProvider returns the backend for the given record.
func FromProvider(p *domain.Provider) (ports.Provider, bool) {
	return Default.Build(p)
}
