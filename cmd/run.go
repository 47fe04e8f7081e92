package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/playlistbridge/internal/formatter"
	"github.com/desertthunder/playlistbridge/internal/repositories"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/desertthunder/playlistbridge/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Run resolves a song list and creates a playlist from the matched tracks.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	rawText, err := r.readInput(cmd.String("input"))
	if err != nil {
		return err
	}

	if len(tasks.ParseWorkList(rawText)) == 0 {
		return shared.ErrEmptyWorkList
	}

	name := cmd.String("name")
	if name == "" {
		name = fmt.Sprintf("PlaylistBridge - %s", time.Now().Format("2006-01-02"))
	}

	engine, identity, err := r.session(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("starting run", "name", name)
	r.writePlain("🔍 Searching Spotify...\n")

	results, err := r.resolveText(ctx, engine, rawText)
	if err != nil {
		return err
	}

	r.writePlain("\n%s\n\n", formatter.FormatSummary(results))

	if exportPath := cmd.String("export"); exportPath != "" {
		if err := formatter.WriteExport(results, exportPath); err != nil {
			return err
		}
		r.writePlain("✓ Exported results to %s\n", exportPath)
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("📝 %s\n", update.Message)
		}
	}()

	assembly, err := engine.Assemble(ctx, progressCh, identity, results, name)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.recordRun(results.RunID, results.Len(), results.MatchedCount(), assembly)

	r.writePlain("\n")
	switch assembly.Outcome {
	case tasks.Created:
		r.writePlainHeader("Playlist Created!")
		r.writePlain("Name: %s\n", assembly.Playlist.Name)
		r.writePlain("Tracks added: %d\n", assembly.AddedCount)
	case tasks.NoValidTracks:
		r.writePlain("No valid tracks found to add to a playlist.\n")
	case tasks.PlaylistCreationFailed:
		return fmt.Errorf("%w: failed to create playlist: %v", shared.ErrAPIRequest, assembly.Err)
	case tasks.TrackAppendFailed:
		// The playlist exists remotely even though the appends failed,
		// so this is not reported as a creation failure.
		r.writePlain("⚠ Playlist %q was created, but adding tracks failed: %v\n", assembly.Playlist.Name, assembly.Err)
		r.writePlain("It exists on Spotify and may be incomplete.\n")
	}

	if unmatched := results.Len() - results.MatchedCount(); unmatched > 0 {
		r.writePlain("\nUnmatched lines:\n")
		for _, o := range results.Outcomes {
			if !o.Matched() {
				r.writePlain("  - %s\n", o.Original)
			}
		}
	}

	return nil
}

// recordRun persists the run summary; failures are logged, not fatal.
func (r *Runner) recordRun(runID string, total, matched int, assembly *tasks.AssemblyResult) {
	db, err := r.database()
	if err != nil {
		r.logger.Warn("failed to open database for run history", "err", err)
		return
	}

	summary := repositories.RunSummary{
		ID:           runID,
		TotalLines:   total,
		MatchedLines: matched,
	}
	if assembly.Playlist != nil {
		summary.PlaylistID = assembly.Playlist.ID
		summary.PlaylistName = assembly.Playlist.Name
	}

	if err := repositories.NewRunRepository(db).Create(&summary); err != nil {
		r.logger.Warn("failed to record run", "err", err)
	}
}
