package main

import (
	"context"
	"embed"
	"flag"

	apiapp "emailgen/internal/api/app"
	"emailgen/internal/bootstrap"
	"emailgen/internal/config"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		println("Config Error:", err.Error())
		return
	}
	log := cfg.Logger()

	// Database, provider seeding and the composer service
	svc, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		println("DB Error:", err.Error())
		return
	}

	app := NewApp(svc)

	// API bindings
	emailAPI := apiapp.NewEmailAPI(svc.Composer)
	providerAPI := apiapp.NewProviderAPI(svc.Providers, svc.Composer, svc.Backends)

	err = wails.Run(&options.App{
		Title:  "emailgen",
		Width:  900,
		Height: 760,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
			emailAPI,
			providerAPI,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
