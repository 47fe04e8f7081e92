package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistbridge/internal/models"
	"github.com/desertthunder/playlistbridge/internal/services"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"golang.org/x/time/rate"
)

// Engine orchestrates resolution runs and playlist assembly against a
// [services.Catalog].
type Engine struct {
	catalog services.Catalog
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewEngine creates an Engine. rateLimit is the maximum number of catalog
// searches per second; zero or negative falls back to 5.
func NewEngine(catalog services.Catalog, rateLimit float64, logger *log.Logger) *Engine {
	if rateLimit <= 0 {
		rateLimit = 5.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Engine{
		catalog: catalog,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// ParseWorkList splits raw text on line boundaries, trims each line, and
// drops blanks. The surviving order is significant: it is the index
// correlating each query to its outcome.
func ParseWorkList(rawText string) []string {
	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Resolve turns rawText into an ordered [models.ResultSet], one outcome per
// non-blank line, searching the catalog strictly sequentially.
//
// Search failures collapse to nil-track outcomes and are never retried; a
// nil track is a terminal state for its line. Cancellation is cooperative:
// the context is checked between lines and a cancelled run returns the
// partial ResultSet alongside ctx.Err().
func (e *Engine) Resolve(ctx context.Context, progress chan<- ProgressUpdate, rawText string) (*models.ResultSet, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	workList := ParseWorkList(rawText)
	results := &models.ResultSet{RunID: shared.GenerateID()}
	if len(workList) == 0 {
		return results, nil
	}

	runLog := shared.WithLogger(e.logger, "run", results.RunID)
	runLog.Info("starting resolution", "lines", len(workList))

	total := len(workList)
	e.sendProgress(progress, searchStartedUpdate(total))

	for i, line := range workList {
		select {
		case <-ctx.Done():
			runLog.Warn("resolution cancelled", "completed", i, "total", total)
			return results, ctx.Err()
		default:
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return results, err
		}

		track, err := e.catalog.SearchTrack(ctx, line)
		if err != nil {
			// Transport failure and no-match are the same terminal outcome
			// for the line; only the log distinguishes them.
			runLog.Warn("search failed", "line", line, "err", err)
			track = nil
		}

		outcome := models.Outcome{Original: line, Track: track}
		results.Append(outcome)
		e.sendProgress(progress, lineResolvedUpdate(i+1, total, outcome))
	}

	runLog.Info("resolution complete", "matched", results.MatchedCount(), "total", total)
	return results, nil
}

// AssemblyOutcome classifies the result of a playlist assembly invocation.
type AssemblyOutcome int

const (
	// Created: playlist exists remotely with all matched tracks appended.
	Created AssemblyOutcome = iota
	// NoValidTracks: nothing to add; no network call was made.
	NoValidTracks
	// PlaylistCreationFailed: no playlist exists remotely.
	PlaylistCreationFailed
	// TrackAppendFailed: the playlist exists but may be partially populated.
	TrackAppendFailed
)

func (o AssemblyOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case NoValidTracks:
		return "no_valid_tracks"
	case PlaylistCreationFailed:
		return "playlist_creation_failed"
	case TrackAppendFailed:
		return "track_append_failed"
	default:
		return ""
	}
}

// AssemblyResult describes what a playlist assembly invocation did.
//
// Playlist is non-nil for Created and TrackAppendFailed: in the latter case
// the playlist exists remotely but may be incomplete, and callers must
// surface that distinction rather than treating it as a total failure.
type AssemblyResult struct {
	Outcome    AssemblyOutcome
	Playlist   *models.Playlist
	AddedCount int
	Err        error // underlying catalog error for the failure outcomes
}

// Assemble filters results to matched tracks and materializes them as a new
// private playlist named name. Exactly one remote playlist is created per
// Created or TrackAppendFailed invocation; none for the other outcomes.
//
// The returned error reports precondition violations only (blank name,
// missing identity); remote failures are encoded in the result's Outcome.
func (e *Engine) Assemble(ctx context.Context, progress chan<- ProgressUpdate, identity *models.Identity, results *models.ResultSet, name string) (*AssemblyResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if identity == nil || identity.ID == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.ErrBlankName
	}

	uris := results.TrackURIs()
	if len(uris) == 0 {
		return &AssemblyResult{Outcome: NoValidTracks}, nil
	}

	e.sendProgress(progress, creatingPlaylistUpdate(name))

	playlist, err := e.catalog.CreatePlaylist(ctx, identity.ID, name)
	if err != nil {
		e.logger.Error("playlist creation failed", "name", name, "err", err)
		return &AssemblyResult{Outcome: PlaylistCreationFailed, Err: err}, nil
	}

	e.sendProgress(progress, playlistCreatedUpdate(playlist))
	e.sendProgress(progress, appendingTracksUpdate(len(uris)))

	if err := e.catalog.AddTracks(ctx, playlist.ID, uris); err != nil {
		// The playlist now exists remotely, possibly partially populated.
		e.logger.Error("track append failed", "playlist", playlist.ID, "err", err)
		return &AssemblyResult{Outcome: TrackAppendFailed, Playlist: playlist, Err: err}, nil
	}

	e.sendProgress(progress, tracksAppendedUpdate(len(uris)))

	return &AssemblyResult{Outcome: Created, Playlist: playlist, AddedCount: len(uris)}, nil
}
