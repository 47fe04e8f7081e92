package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "plb",
		Usage:    "Turn pasted song lists into Spotify playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrInvalidToken) {
			logger.Fatalf("%v: run 'plb auth login' first", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
