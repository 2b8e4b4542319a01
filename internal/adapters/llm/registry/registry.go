package registry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"emailgen/internal/domain"
	"emailgen/internal/ports"
)

// Builder constructs a Provider from a stored provider record.
type Builder func(p *domain.Provider) ports.Provider

// Registry holds Provider builders keyed by provider type.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

func New() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

func (r *Registry) Register(typ string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[strings.ToLower(typ)] = b
}

func (r *Registry) Get(typ string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[strings.ToLower(typ)]
	return b, ok
}

// Build returns the Provider for p, or false when its type is unknown.
func (r *Registry) Build(p *domain.Provider) (ports.Provider, bool) {
	if p == nil {
		return nil, false
	}
	b, ok := r.Get(p.Type)
	if !ok {
		return nil, false
	}
	return b(p), true
}

// Types returns the registered provider types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for t := range r.builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HealthCheck tests every given provider record (used by the settings screen).
func (r *Registry) HealthCheck(ctx context.Context, providers []*domain.Provider) map[int64]error {
	out := make(map[int64]error, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		prov, ok := r.Build(p)
		if !ok {
			out[p.ID] = errors.New("unsupported provider: " + p.Type)
			continue
		}
		out[p.ID] = prov.Test(ctx)
	}
	return out
}
