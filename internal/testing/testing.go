// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mixweek/internal/services"
)

// MockCatalog is a test double for [services.Catalog]. Unset func
// fields return empty results.
type MockCatalog struct {
	SearchTracksFunc func(ctx context.Context, query string, limit int) ([]services.TrackSummary, error)

	// Queries records every search query in call order
	Queries []string
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]services.TrackSummary, error) {
	m.Queries = append(m.Queries, query)
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, query, limit)
	}
	return nil, nil
}

// MockPlaylistService is a test double for [services.PlaylistService]
type MockPlaylistService struct {
	ProfileFunc        func(ctx context.Context) (*services.Profile, error)
	CreatePlaylistFunc func(ctx context.Context, userID, name, description string, public bool) (*services.CreatedPlaylist, error)
	ReplaceTracksFunc  func(ctx context.Context, playlistID string, uris []string) error
	AddTracksFunc      func(ctx context.Context, playlistID string, uris []string) error
	PlaylistFunc       func(ctx context.Context, playlistID string) (*services.PlaylistDetail, error)
}

func (m *MockPlaylistService) Profile(ctx context.Context) (*services.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return &services.Profile{ID: "mock_user"}, nil
}

func (m *MockPlaylistService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*services.CreatedPlaylist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, userID, name, description, public)
	}
	return &services.CreatedPlaylist{ID: "mock_playlist", URL: "https://open.spotify.com/playlist/mock_playlist"}, nil
}

func (m *MockPlaylistService) ReplaceTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.ReplaceTracksFunc != nil {
		return m.ReplaceTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockPlaylistService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockPlaylistService) Playlist(ctx context.Context, playlistID string) (*services.PlaylistDetail, error) {
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, playlistID)
	}
	return &services.PlaylistDetail{ID: playlistID}, nil
}

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

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}
