package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"emailgen/internal/adapters/llm/registry"
	"emailgen/internal/domain"
	"emailgen/internal/ports"
	"emailgen/internal/usecase/composer"
)

type ProviderAPI struct {
	repo     ports.ProviderRepository
	svc      *composer.Service
	backends *registry.Registry
}

func NewProviderAPI(repo ports.ProviderRepository, svc *composer.Service, backends *registry.Registry) *ProviderAPI {
	return &ProviderAPI{repo: repo, svc: svc, backends: backends}
}

// Types lists the backend types that can be configured.
func (a *ProviderAPI) Types() []string { return a.backends.Types() }

func (a *ProviderAPI) Create(p domain.Provider) (*domain.Provider, error) {
	ctx := context.Background()
	if p.Type == "" || p.Name == "" {
		return nil, errors.New("type and name are required")
	}
	p.Type = strings.ToLower(p.Type)
	if _, ok := a.backends.Get(p.Type); !ok {
		return nil, errors.New("unsupported provider type: " + p.Type)
	}
	if err := a.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	// mask API key when returning
	p.APIKey = mask(p.APIKey)
	return &p, nil
}

func (a *ProviderAPI) Update(p domain.Provider) (*domain.Provider, error) {
	ctx := context.Background()
	if p.ID == 0 {
		return nil, errors.New("id is required")
	}
	// Preserve existing API key if masked or empty provided from UI
	if strings.HasPrefix(p.APIKey, "****") || p.APIKey == "" {
		existing, err := a.repo.Get(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.APIKey = existing.APIKey
	}
	p.Type = strings.ToLower(p.Type)
	if _, ok := a.backends.Get(p.Type); !ok {
		return nil, errors.New("unsupported provider type: " + p.Type)
	}
	if err := a.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	p.APIKey = mask(p.APIKey)
	return &p, nil
}

func (a *ProviderAPI) List() ([]*domain.Provider, error) {
	ctx := context.Background()
	list, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.APIKey = mask(p.APIKey)
	}
	return list, nil
}

func (a *ProviderAPI) Delete(id int64) (bool, error) {
	ctx := context.Background()
	active, err := a.svc.ActiveProvider(ctx)
	switch {
	case errors.Is(err, domain.ErrNoActiveProvider):
	case err != nil:
		return false, err
	case active.ID == id:
		return false, errors.New("cannot delete the active provider")
	}
	if err := a.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("provider %d not found", id)
		}
		return false, err
	}
	return true, nil
}

func (a *ProviderAPI) SetActive(id int64) (bool, error) {
	if err := a.svc.SetActive(context.Background(), id); err != nil {
		return false, err
	}
	return true, nil
}

func (a *ProviderAPI) Active() (*domain.Provider, error) {
	p, err := a.svc.ActiveProvider(context.Background())
	if err != nil {
		return nil, err
	}
	p.APIKey = mask(p.APIKey)
	return p, nil
}

type ModelInfo struct {
	Name, Description string
	ContextTokens     int
}

func (a *ProviderAPI) ListModels(id int64) ([]ModelInfo, error) {
	ctx := context.Background()
	p, err := a.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.listModels(ctx, p)
}

// ListModelsPreview returns models for a transient provider configuration
// without persisting it. Useful for configuring a provider before saving.
func (a *ProviderAPI) ListModelsPreview(p domain.Provider) ([]ModelInfo, error) {
	return a.listModels(context.Background(), &p)
}

func (a *ProviderAPI) listModels(ctx context.Context, p *domain.Provider) ([]ModelInfo, error) {
	prov, ok := a.backends.Build(p)
	if !ok {
		return nil, errors.New("unsupported provider type")
	}
	models, err := prov.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, ModelInfo{
			Name:          m.Name,
			Description:   m.Description,
			ContextTokens: m.ContextTokens,
		})
	}
	return out, nil
}

// ProviderTestResult contains details of a connectivity test.
type ProviderTestResult struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Test checks that the provider's runtime answers. A failed check is reported
// in the result rather than as an error.
func (a *ProviderAPI) Test(id int64) (ProviderTestResult, error) {
	ctx := context.Background()
	p, err := a.repo.Get(ctx, id)
	if err != nil {
		return ProviderTestResult{}, err
	}
	res := a.backends.HealthCheck(ctx, []*domain.Provider{p})
	if err := res[p.ID]; err != nil {
		return ProviderTestResult{Ok: false, Error: err.Error()}, nil
	}
	return ProviderTestResult{Ok: true}, nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}
