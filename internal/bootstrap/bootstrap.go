// Package bootstrap wires the store, the backends and the services shared by
// the desktop app and the form server.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	dbsqlite "emailgen/internal/adapters/db/sqlite"
	llmfactory "emailgen/internal/adapters/llm/factory"
	"emailgen/internal/adapters/llm/registry"
	promptbuilder "emailgen/internal/adapters/prompt"
	"emailgen/internal/config"
	"emailgen/internal/domain"
	"emailgen/internal/ports"
	"emailgen/internal/usecase/composer"
)

type Services struct {
	DB        *sql.DB
	Providers *dbsqlite.ProviderRepo
	Settings  *dbsqlite.SettingsRepo
	Backends  *registry.Registry
	Composer  *composer.Service
	Log       *slog.Logger
}

// New opens the database, seeds the configured provider on first start and
// builds the composer around the active one.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*Services, error) {
	db, err := dbsqlite.Init(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	providerRepo := dbsqlite.NewProviderRepo(db)
	settingsRepo := dbsqlite.NewSettingsRepo(db)
	backends := llmfactory.Default

	svc := composer.New(composer.Deps{
		Providers: providerRepo,
		Settings:  settingsRepo,
		Prompt:    promptbuilder.New(),
		BuildProvider: func(p *domain.Provider) (ports.Provider, error) {
			prov, ok := llmfactory.FromProvider(p)
			if !ok {
				return nil, fmt.Errorf("unsupported provider: %s", p.Type)
			}
			return prov, nil
		},
		Logger: log,
	})

	active, err := svc.EnsureDefault(ctx, cfg.ProviderRecord())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed provider: %w", err)
	}
	log.Info("active provider", "id", active.ID, "type", active.Type, "model", active.Model, "base_url", active.BaseURL)

	return &Services{
		DB:        db,
		Providers: providerRepo,
		Settings:  settingsRepo,
		Backends:  backends,
		Composer:  svc,
		Log:       log,
	}, nil
}

func (s *Services) Close() error { return s.DB.Close() }
