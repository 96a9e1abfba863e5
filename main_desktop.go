//go:build desktop

package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/chazu/airsketch/pkg/config"
	"github.com/chazu/airsketch/pkg/engine"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg := config.Default()
	if path := os.Getenv("AIRSKETCH_CONFIG"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	app := NewApp(engine.WithConfig(cfg))

	err := wails.Run(&options.App{
		Title:  "airsketch",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
