// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config file, initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles login, status and logout.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify in the browser (PKCE) and store the token",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Probe the stored token against the identity endpoint",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored token",
				Action: r.AuthLogout,
			},
		},
	}
}

// resolveCommand resolves a text file of song descriptions without creating a playlist.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a song list against the Spotify catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to the song list ('-' for stdin)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Write the outcome list as JSON to this path",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the outcome list as JSON instead of text",
			},
		},
		Action: r.Resolve,
	}
}

// runCommand resolves a song list and materializes the matches as a playlist.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Resolve a song list and create a Spotify playlist from the matches",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to the song list ('-' for stdin)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (default: PlaylistBridge - <date>)",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Also write the outcome list as JSON to this path",
			},
		},
		Action: r.Run,
	}
}

// historyCommand lists past resolution runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past resolution runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
		},
		Action: r.History,
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive paste-and-go interface",
		Action: r.TUI,
	}
}
