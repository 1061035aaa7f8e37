package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fernandodimas/myfoil-tui/internal/repositories"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if missing and initializes the local
// state database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if loaded, err := shared.LoadConfig(configPath); err == nil {
				config = loaded
			}
		}
	}
	r.config = config

	r.logger.Info("initializing state database", "path", config.State.Path)
	db, err := r.openState()
	if err != nil {
		return fmt.Errorf("failed to initialize state: %w", err)
	}

	// A reachable server lets us pin the build version right away, so
	// preferences survive until the next server upgrade. Offline is fine.
	if r.system != nil {
		if info, err := r.system.SystemInfo(ctx); err == nil {
			store := repositories.NewPrefsStore(db)
			if _, err := store.CheckBuildVersion(info.BuildVersion); err != nil {
				r.logger.Warn("failed to record build version", "error", err)
			}
			r.logger.Info("server reachable", "build", info.BuildVersion)
		} else {
			r.logger.Warn("server not reachable, continuing", "error", err)
		}
	}

	r.logger.Infof("setup complete for state database: %v", config.State.Path)
	return nil
}
