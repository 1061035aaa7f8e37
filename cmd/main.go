package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "err", err)
		}
	}

	var headers *shared.CurlHeaders
	if config.Server.CurlHeadersPath != "" {
		h, err := shared.ParseCurlFile(config.Server.CurlHeadersPath)
		if err != nil {
			logger.Warn("failed to parse curl headers, continuing without", "err", err)
		} else {
			headers = h
		}
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL: config.Server.BaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(config.Server.TimeoutSeconds) * time.Second,
		},
		RequestsPerSecond: config.Client.RequestsPerSecond,
		Headers:           headers,
	})

	translator, err := shared.LoadTranslator(config.Client.Locale)
	if err != nil {
		logger.Warn("failed to load locale, using English", "err", err)
		translator = shared.NewTranslator(nil)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Client:     client,
		Library:    services.NewLibraryService(client),
		Jobs:       services.NewSystemService(client),
		System:     services.NewSystemService(client),
		Translator: translator,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "myfoil",
		Usage:    "Browse and manage a MyFoil game library from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
