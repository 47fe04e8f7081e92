package services

import (
	"context"

	"github.com/desertthunder/playlistbridge/internal/models"
)

// Catalog defines the four remote operations the pipeline needs from a
// music catalog. Implementations make one network call per operation
// (AddTracks makes one per chunk) and never retry.
type Catalog interface {
	// CurrentUser fetches the authenticated user's profile. It is also the
	// only mechanism for validating a stored credential: a decodable
	// identity means "valid", any error means "invalid, discard".
	CurrentUser(ctx context.Context) (*models.Identity, error)

	// SearchTrack returns the catalog's top hit for a free-text query, or
	// (nil, nil) when the query is blank or the catalog has no match. The
	// remote relevance ranking is authoritative; no local re-scoring.
	SearchTrack(ctx context.Context, query string) (*models.Track, error)

	// CreatePlaylist creates a new private playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name string) (*models.Playlist, error)

	// AddTracks appends URIs to a playlist in order, chunked to the remote
	// per-call cap. A failure partway through is returned as-is: chunks
	// already sent are not rolled back.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the catalog's display name.
	Name() string
}
