package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/playlistbridge/internal/shared"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*SpotifyService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv := NewSpotifyService("test_token", time.Second, nil)
	srv.baseURL = server.URL
	return srv, server
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		srv := NewSpotifyService("token", 0, nil)
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
		if srv.httpClient.Timeout != 15*time.Second {
			t.Errorf("expected 15s default timeout, got %v", srv.httpClient.Timeout)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		srv := NewSpotifyService("", time.Second, nil)
		_, err := srv.CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSpotifyService_CurrentUser(t *testing.T) {
	t.Run("decodes the profile", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("expected path /me, got %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test_token" {
				t.Errorf("expected bearer auth header, got %q", auth)
			}
			fmt.Fprint(w, `{"id": "user42", "display_name": "Jess"}`)
		})

		identity, err := srv.CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if identity.ID != "user42" || identity.DisplayName != "Jess" {
			t.Errorf("unexpected identity: %+v", identity)
		}
	})

	t.Run("rejected token surfaces as API error", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := srv.CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSpotifyService_SearchTrack(t *testing.T) {
	t.Run("blank query never reaches the network", func(t *testing.T) {
		requests := 0
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			requests++
		})

		for _, query := range []string{"", "   ", "\t\n"} {
			track, err := srv.SearchTrack(context.Background(), query)
			if err != nil {
				t.Errorf("blank query %q: expected no error, got %v", query, err)
			}
			if track != nil {
				t.Errorf("blank query %q: expected nil track, got %+v", query, track)
			}
		}

		if requests != 0 {
			t.Errorf("expected zero requests for blank queries, got %d", requests)
		}
	})

	t.Run("returns the top hit", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("q") != "Bohemian Rhapsody Queen" {
				t.Errorf("unexpected query: %q", q.Get("q"))
			}
			if q.Get("type") != "track" || q.Get("limit") != "1" {
				t.Errorf("expected type=track limit=1, got type=%s limit=%s", q.Get("type"), q.Get("limit"))
			}

			fmt.Fprint(w, `{"tracks": {"items": [{
				"id": "t1",
				"name": "Bohemian Rhapsody",
				"uri": "spotify:track:t1",
				"artists": [{"id": "a1", "name": "Queen"}],
				"album": {"id": "al1", "name": "A Night at the Opera", "images": [
					{"url": "https://img/large", "height": 640, "width": 640},
					{"url": "https://img/small", "height": 64, "width": 64}
				]},
				"external_urls": {"spotify": "https://open.spotify.com/track/t1"}
			}]}}`)
		})

		track, err := srv.SearchTrack(context.Background(), "Bohemian Rhapsody Queen")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track == nil {
			t.Fatal("expected a track")
		}
		if track.URI != "spotify:track:t1" {
			t.Errorf("expected URI spotify:track:t1, got %s", track.URI)
		}
		if len(track.Artists) != 1 || track.Artists[0].Name != "Queen" {
			t.Errorf("unexpected artists: %+v", track.Artists)
		}
		if track.AlbumArtURL != "https://img/small" {
			t.Errorf("expected smallest album image, got %s", track.AlbumArtURL)
		}
		if track.ExternalURL != "https://open.spotify.com/track/t1" {
			t.Errorf("unexpected external URL: %s", track.ExternalURL)
		}
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"tracks": {"items": []}}`)
		})

		track, err := srv.SearchTrack(context.Background(), "gibberish zzxxyy")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track != nil {
			t.Errorf("expected nil track for no match, got %+v", track)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := srv.SearchTrack(context.Background(), "anything")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSpotifyService_CreatePlaylist(t *testing.T) {
	t.Run("creates a private tagged playlist", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/users/user42/playlists" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			var body struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Public      bool   `json:"public"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request body: %v", err)
			}

			if body.Name != "Road Trip" {
				t.Errorf("expected name 'Road Trip', got %q", body.Name)
			}
			if body.Public {
				t.Error("playlist must be created private")
			}
			if body.Description != "Created with PlaylistBridge" {
				t.Errorf("unexpected description: %q", body.Description)
			}

			fmt.Fprint(w, `{"id": "pl9", "name": "Road Trip", "public": false}`)
		})

		playlist, err := srv.CreatePlaylist(context.Background(), "user42", "Road Trip")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "pl9" || playlist.Name != "Road Trip" {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
	})

	t.Run("creation failure", func(t *testing.T) {
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := srv.CreatePlaylist(context.Background(), "user42", "Road Trip")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSpotifyService_AddTracks(t *testing.T) {
	makeURIs := func(n int) []string {
		uris := make([]string, n)
		for i := range uris {
			uris[i] = fmt.Sprintf("spotify:track:%d", i)
		}
		return uris
	}

	t.Run("chunks appends at 100 URIs", func(t *testing.T) {
		var chunks [][]string
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl9/tracks" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			var body struct {
				URIs []string `json:"uris"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request body: %v", err)
			}
			chunks = append(chunks, body.URIs)
			fmt.Fprint(w, `{"snapshot_id": "snap"}`)
		})

		if err := srv.AddTracks(context.Background(), "pl9", makeURIs(250)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks for 250 URIs, got %d", len(chunks))
		}
		for i, want := range []int{100, 100, 50} {
			if len(chunks[i]) != want {
				t.Errorf("chunk %d: expected %d URIs, got %d", i, want, len(chunks[i]))
			}
		}
		if chunks[0][0] != "spotify:track:0" || chunks[2][49] != "spotify:track:249" {
			t.Error("chunks must preserve the original URI order")
		}
	})

	t.Run("exactly one chunk at the cap", func(t *testing.T) {
		calls := 0
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, `{"snapshot_id": "snap"}`)
		})

		if err := srv.AddTracks(context.Background(), "pl9", makeURIs(100)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected a single append for 100 URIs, got %d", calls)
		}
	})

	t.Run("no requests for an empty list", func(t *testing.T) {
		calls := 0
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
		})

		if err := srv.AddTracks(context.Background(), "pl9", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected zero requests, got %d", calls)
		}
	})

	t.Run("mid-sequence failure stops immediately", func(t *testing.T) {
		calls := 0
		srv, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `{"snapshot_id": "snap"}`)
		})

		err := srv.AddTracks(context.Background(), "pl9", makeURIs(250))
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected the third chunk to never be sent, got %d calls", calls)
		}
	})
}
