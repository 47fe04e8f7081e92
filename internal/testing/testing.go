// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/playlistbridge/internal/models"
)

// MockCatalog is a configurable test double for [services.Catalog]. Each
// function field overrides the corresponding method; nil fields return
// zero values. Call counters track how many network calls would have
// been made.
type MockCatalog struct {
	CurrentUserFunc    func(ctx context.Context) (*models.Identity, error)
	SearchTrackFunc    func(ctx context.Context, query string) (*models.Track, error)
	CreatePlaylistFunc func(ctx context.Context, userID, name string) (*models.Playlist, error)
	AddTracksFunc      func(ctx context.Context, playlistID string, uris []string) error

	SearchCalls   int
	CreateCalls   int
	AddTrackCalls int
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.Identity, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &models.Identity{ID: "mock_user", DisplayName: "Mock User"}, nil
}

func (m *MockCatalog) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	m.SearchCalls++
	if m.SearchTrackFunc != nil {
		return m.SearchTrackFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, userID, name string) (*models.Playlist, error) {
	m.CreateCalls++
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, userID, name)
	}
	return &models.Playlist{ID: "mock_playlist", Name: name}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	m.AddTrackCalls++
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
