package tasks

import (
	"fmt"
	"math"

	"github.com/desertthunder/playlistbridge/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Percent int    // round(100 * Step / Total)
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SearchTracks Phase = iota
	CreatePlaylist
	AppendTracks
	ExportResults
)

func (p Phase) String() string {
	switch p {
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AppendTracks:
		return "append_tracks"
	case ExportResults:
		return "export_results"
	default:
		return ""
	}
}

func percentOf(step, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(step) / float64(total) * 100))
}

func searchStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d lines...", total),
	}
}

func lineResolvedUpdate(step, total int, outcome models.Outcome) ProgressUpdate {
	var message string
	if outcome.Matched() {
		message = fmt.Sprintf("[%d/%d] ✓ %s", step, total, outcome.Track.Name)
	} else {
		message = fmt.Sprintf("[%d/%d] ✗ %s", step, total, outcome.Original)
	}

	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Percent: percentOf(step, total),
		Message: message,
		Data:    outcome,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func playlistCreatedUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Percent: 100,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func appendingTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks...", count),
	}
}

func tracksAppendedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    1,
		Total:   1,
		Percent: 100,
		Message: fmt.Sprintf("Added %d tracks", count),
	}
}
