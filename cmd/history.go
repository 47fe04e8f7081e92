package main

import (
	"context"

	"github.com/desertthunder/playlistbridge/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History lists past resolution runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	runs, err := repositories.NewRunRepository(db).List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded yet.\n")
	}

	r.writePlainHeader("Resolution Runs")
	for _, run := range runs {
		r.writePlain("%s  %d/%d matched", run.CreatedAt.Format("2006-01-02 15:04"), run.MatchedLines, run.TotalLines)
		if run.PlaylistName != "" {
			r.writePlain("  → %s", run.PlaylistName)
		}
		r.writePlain("\n")
	}

	return nil
}
