package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/desertthunder/playlistbridge/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive paste-and-go terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/plb-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, identity, err := r.session(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine, identity)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
