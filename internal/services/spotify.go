// Spotify Web API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistbridge/internal/models"
	"github.com/desertthunder/playlistbridge/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// Spotify caps a single playlist append at 100 track URIs.
	maxTracksPerAppend = 100

	// Fixed origin tag on every playlist the tool creates.
	playlistDescription = "Created with PlaylistBridge"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	URI          string          `json:"uri"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyService implements [Catalog] against the Spotify Web API using a
// bearer token supplied at construction. The token is borrowed, never
// refreshed or mutated here.
type SpotifyService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify catalog client with the given bearer
// token. Every request carries the timeout; zero means 15 seconds.
func NewSpotifyService(token string, timeout time.Duration, logger *log.Logger) *SpotifyService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyService{
		baseURL:    spotifyBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     shared.WithLogger(logger, "service", "spotify"),
	}
}

// Name returns the catalog's display name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated HTTP request against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == "" {
		return shared.ErrNotAuthenticated
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("request failed", "method", method, "endpoint", endpoint, "err", err)
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("non-2xx response", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			s.logger.Warn("failed to decode response", "endpoint", endpoint, "err", err)
			return fmt.Errorf("%w: decode: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.Identity, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}

	return &models.Identity{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// SearchTrack returns the top search hit for query, or (nil, nil) when the
// query is blank or nothing matched. Blank queries never reach the network.
func (s *SpotifyService) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")

	var response searchResponse
	endpoint := "/search?" + params.Encode()
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	return trackFromSpotify(response.Tracks.Items[0]), nil
}

// CreatePlaylist creates a new private playlist for userID tagged with the
// tool's fixed description.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name string) (*models.Playlist, error) {
	createReq := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
	}{
		Name:        name,
		Description: playlistDescription,
		Public:      false,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, createReq, &playlist); err != nil {
		return nil, err
	}

	return &models.Playlist{ID: playlist.ID, Name: playlist.Name}, nil
}

// AddTracks appends uris to the playlist in chunks of at most 100, in order.
// On a mid-sequence failure the error is returned immediately: earlier
// chunks have already landed remotely and are not rolled back.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += maxTracksPerAppend {
		end := min(start+maxTracksPerAppend, len(uris))

		appendReq := struct {
			URIs []string `json:"uris"`
		}{URIs: uris[start:end]}

		if err := s.doRequest(ctx, http.MethodPost, endpoint, appendReq, nil); err != nil {
			s.logger.Warn("append chunk failed", "playlist", playlistID, "chunk_start", start, "err", err)
			return err
		}
	}

	return nil
}

// trackFromSpotify maps a raw search hit to the domain model. Album art
// prefers the smallest rendition, matching the thumbnail the UI shows.
func trackFromSpotify(st SpotifyTrack) *models.Track {
	track := &models.Track{
		URI:         st.URI,
		Name:        st.Name,
		ExternalURL: st.ExternalURLs.Spotify,
	}

	for _, a := range st.Artists {
		track.Artists = append(track.Artists, models.Artist{Name: a.Name})
	}

	if n := len(st.Album.Images); n > 0 {
		track.AlbumArtURL = st.Album.Images[n-1].URL
	}

	return track
}
