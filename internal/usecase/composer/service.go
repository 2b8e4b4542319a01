package composer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"emailgen/internal/domain"
	"emailgen/internal/ports"
)

type Deps struct {
	Providers ports.ProviderRepository
	Settings  ports.SettingsRepository
	Prompt    ports.PromptBuilder
	// BuildProvider should return a concrete ports.Provider for a given provider record
	BuildProvider func(*domain.Provider) (ports.Provider, error)
	Logger        *slog.Logger
}

type Service struct{ d Deps }

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{d: d}
}

// Result is one generated email.
type Result struct {
	Email    string
	Prompt   string
	Provider string
	Model    string
	Elapsed  time.Duration
}

// Compose validates r, renders its prompt and blocks on a single call to the
// active backend. Validation failures never reach the backend, and backend
// failures are returned as they are, without retry.
func (s *Service) Compose(ctx context.Context, r domain.Request) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	prompt, err := s.d.Prompt.Build(r)
	if err != nil {
		return Result{}, fmt.Errorf("build prompt: %w", err)
	}
	prov, err := s.ActiveProvider(ctx)
	if err != nil {
		return Result{}, err
	}
	if s.d.BuildProvider == nil {
		return Result{}, errors.New("compose: provider builder missing")
	}
	adapter, err := s.d.BuildProvider(prov)
	if err != nil {
		return Result{}, err
	}

	log := s.d.Logger.With("provider", prov.Type, "model", prov.Model, "language", string(r.Language))
	log.Debug("generate", "prompt", prompt)
	start := time.Now()
	res, err := adapter.Generate(ctx, ports.GenerateParams{
		Model:       prov.Model,
		Temperature: prov.Temperature,
		MaxTokens:   prov.MaxTokens,
		Prompt:      prompt,
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Error("generate", "duration", elapsed, "err", err)
		return Result{}, err
	}
	log.Info("generate", "duration", elapsed, "chars", len(res.Text))
	log.Debug("generate", "response", res.Text)

	model := res.Model
	if model == "" {
		model = prov.Model
	}
	return Result{Email: res.Text, Prompt: prompt, Provider: prov.Name, Model: model, Elapsed: elapsed}, nil
}

// Preview renders the prompt for r without contacting any backend.
func (s *Service) Preview(r domain.Request) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return s.d.Prompt.Build(r)
}

// ActiveProvider returns the provider selected in settings.
func (s *Service) ActiveProvider(ctx context.Context) (*domain.Provider, error) {
	v, err := s.d.Settings.Get(ctx, domain.SettingActiveProvider)
	if err != nil {
		return nil, fmt.Errorf("read active provider: %w", err)
	}
	if v == "" {
		return nil, domain.ErrNoActiveProvider
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("active provider id %q: %w", v, err)
	}
	p, err := s.d.Providers.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoActiveProvider
	}
	return p, err
}

// SetActive makes the provider with the given id the one used by Compose.
func (s *Service) SetActive(ctx context.Context, id int64) error {
	if _, err := s.d.Providers.Get(ctx, id); err != nil {
		return fmt.Errorf("provider %d: %w", id, err)
	}
	return s.d.Settings.Set(ctx, domain.SettingActiveProvider, strconv.FormatInt(id, 10))
}

// EnsureDefault stores seed and makes it active when the store holds no
// providers yet. It returns the active provider either way.
func (s *Service) EnsureDefault(ctx context.Context, seed *domain.Provider) (*domain.Provider, error) {
	list, err := s.d.Providers.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		if err := s.d.Providers.Create(ctx, seed); err != nil {
			return nil, fmt.Errorf("seed provider: %w", err)
		}
		s.d.Logger.Info("seeded provider", "type", seed.Type, "model", seed.Model, "base_url", seed.BaseURL)
		if err := s.SetActive(ctx, seed.ID); err != nil {
			return nil, err
		}
		return seed, nil
	}
	p, err := s.ActiveProvider(ctx)
	if errors.Is(err, domain.ErrNoActiveProvider) {
		// Providers exist but none is selected: pick the newest.
		if err := s.SetActive(ctx, list[0].ID); err != nil {
			return nil, err
		}
		return list[0], nil
	}
	return p, err
}
