package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/playlistbridge/internal/formatter"
	"github.com/desertthunder/playlistbridge/internal/models"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/desertthunder/playlistbridge/internal/tasks"
	"github.com/urfave/cli/v3"
)

// readInput reads the song list from a file path or stdin ("-").
func (r *Runner) readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return string(data), nil
}

// resolveText runs the pipeline over rawText with progress echoed to output.
func (r *Runner) resolveText(ctx context.Context, engine *tasks.Engine, rawText string) (*models.ResultSet, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.SearchTracks && update.Step > 0 {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	results, err := engine.Resolve(ctx, progressCh, rawText)
	close(progressCh)
	<-done

	return results, err
}

// Resolve resolves a song list and prints (or exports) the outcome list.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	rawText, err := r.readInput(cmd.String("input"))
	if err != nil {
		return err
	}

	if len(tasks.ParseWorkList(rawText)) == 0 {
		return shared.ErrEmptyWorkList
	}

	engine, _, err := r.session(ctx)
	if err != nil {
		return err
	}

	r.writePlain("🔍 Searching Spotify...\n")
	results, err := r.resolveText(ctx, engine, rawText)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(formatter.ExportEntries(results), true); err != nil {
			return err
		}
	} else {
		r.writePlain("\n")
		for i, o := range results.Outcomes {
			r.writePlain("%s\n", formatter.FormatOutcome(i+1, o))
		}
		r.writePlain("\n%s\n", formatter.FormatSummary(results))
	}

	if exportPath := cmd.String("export"); exportPath != "" {
		if err := formatter.WriteExport(results, exportPath); err != nil {
			return err
		}
		r.writePlain("✓ Exported results to %s\n", exportPath)
	}

	return nil
}
