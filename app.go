package main

import (
	"context"

	"emailgen/internal/bootstrap"
)

// App struct
type App struct {
	ctx context.Context
	svc *bootstrap.Services
}

// NewApp creates a new App application struct
func NewApp(svc *bootstrap.Services) *App {
	return &App{svc: svc}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) shutdown(ctx context.Context) {
	if err := a.svc.Close(); err != nil {
		a.svc.Log.Error("close db", "err", err)
	}
}

// ActiveModel reports the backend the next submit will use, for the header line.
func (a *App) ActiveModel() string {
	p, err := a.svc.Composer.ActiveProvider(a.ctx)
	if err != nil {
		return ""
	}
	return p.Type + " · " + p.Model
}
