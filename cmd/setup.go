package main

import (
	"context"
	"os"

	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if missing, opens the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.writePlain("✓ Created %s; add your Spotify client_id\n", configPath)

		if loaded, err := shared.LoadConfig(configPath); err == nil {
			r.config = loaded
		}
	} else {
		r.writePlain("Config file %s already exists\n", configPath)
	}

	if _, err := r.database(); err != nil {
		return err
	}

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return r.writePlain("✓ Database initialized at %s\n", r.config.Database.Path)
}
