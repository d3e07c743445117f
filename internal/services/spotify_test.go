package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mixweek/internal/shared"
)

func testCredentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"redirect_uri":  "http://localhost:8080/callback",
	}
}

// newTestService points a SpotifyService at an [httptest.Server] with a
// credential valid far into the future
func newTestService(t *testing.T, handler http.Handler) (*SpotifyService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := NewSpotifyService(testCredentials())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	srv.baseURL = server.URL
	srv.SetCredential(Credential{
		AccessToken: "test_access_token",
		Expiry:      time.Now().Add(time.Hour),
	})

	return srv, server
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "x"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "x"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.config.RedirectURL != "http://localhost:8080/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("Get AuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
		if !strings.Contains(authURL, "playlist-modify-private") {
			t.Error("auth URL should request playlist modification scope")
		}
	})

	t.Run("SearchTracks", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != `artist:"Queen"` {
				t.Errorf("unexpected query %q", got)
			}
			if got := r.URL.Query().Get("type"); got != "track" {
				t.Errorf("unexpected type %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test_access_token" {
				t.Errorf("unexpected authorization header %q", got)
			}

			json.NewEncoder(w).Encode(searchResponse{
				Tracks: searchTracks{
					Items: []SpotifyTrack{
						{
							ID:      "track1",
							Name:    "Bohemian Rhapsody",
							URI:     "spotify:track:track1",
							Artists: []SpotifyArtist{{Name: "Queen"}},
							Album: SpotifyAlbum{
								Name:   "A Night at the Opera",
								Images: []SpotifyImage{{URL: "https://img.example/1"}},
							},
						},
					},
					Total: 1,
				},
			})
		}))

		tracks, err := srv.SearchTracks(context.Background(), `artist:"Queen"`, 10)
		if err != nil {
			t.Fatalf("failed to search tracks: %v", err)
		}

		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		if tracks[0].Artist() != "Queen" {
			t.Errorf("expected primary artist Queen, got %s", tracks[0].Artist())
		}
		if tracks[0].Image() != "https://img.example/1" {
			t.Errorf("expected album image, got %s", tracks[0].Image())
		}
	})

	t.Run("Profile", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(SpotifyUser{
				ID:          "spotify_user",
				DisplayName: "Test User",
				Email:       "test@example.com",
			})
		}))

		profile, err := srv.Profile(context.Background())
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if profile.ID != "spotify_user" {
			t.Errorf("expected ID spotify_user, got %s", profile.ID)
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" || r.URL.Path != "/users/spotify_user/playlists" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}

			var req createPlaylistRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Name != "Mixweek - Jan 6, 2025 - Jan 12, 2025" {
				t.Errorf("unexpected playlist name %q", req.Name)
			}
			if req.Public {
				t.Error("playlist should be private")
			}

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(SpotifyPlaylist{
				ID:           "pl_1",
				Name:         req.Name,
				ExternalURLs: externalURLs{Spotify: "https://open.spotify.com/playlist/pl_1"},
			})
		}))

		created, err := srv.CreatePlaylist(context.Background(), "spotify_user", "Mixweek - Jan 6, 2025 - Jan 12, 2025", "desc", false)
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if created.ID != "pl_1" {
			t.Errorf("expected playlist ID pl_1, got %s", created.ID)
		}
		if created.URL != "https://open.spotify.com/playlist/pl_1" {
			t.Errorf("unexpected playlist URL %s", created.URL)
		}
	})

	t.Run("ReplaceTracks", func(t *testing.T) {
		var bodies []trackURIsRequest
		var methods []string

		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl_1/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req trackURIsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			bodies = append(bodies, req)
			methods = append(methods, r.Method)
			w.WriteHeader(http.StatusOK)
		}))

		// Clearing the playlist sends an empty uris array
		if err := srv.ReplaceTracks(context.Background(), "pl_1", []string{}); err != nil {
			t.Fatalf("failed to clear playlist: %v", err)
		}
		if methods[0] != "PUT" {
			t.Errorf("expected PUT, got %s", methods[0])
		}
		if bodies[0].URIs == nil || len(bodies[0].URIs) != 0 {
			t.Errorf("expected empty uris array, got %v", bodies[0].URIs)
		}
	})

	t.Run("AddTracksBatches", func(t *testing.T) {
		var batchSizes []int

		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req trackURIsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			batchSizes = append(batchSizes, len(req.URIs))
			w.WriteHeader(http.StatusCreated)
		}))

		uris := make([]string, 150)
		for i := range uris {
			uris[i] = "spotify:track:x"
		}

		if err := srv.AddTracks(context.Background(), "pl_1", uris); err != nil {
			t.Fatalf("failed to add tracks: %v", err)
		}
		if len(batchSizes) != 2 || batchSizes[0] != 100 || batchSizes[1] != 50 {
			t.Errorf("expected batches [100 50], got %v", batchSizes)
		}
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			status int
			want   error
		}{
			{http.StatusUnauthorized, shared.ErrTokenExpired},
			{http.StatusNotFound, shared.ErrPlaylistNotFound},
			{http.StatusTooManyRequests, shared.ErrServiceUnavailable},
			{http.StatusInternalServerError, shared.ErrServiceUnavailable},
			{http.StatusForbidden, shared.ErrExternalService},
		}

		for _, tc := range cases {
			srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			_, err := srv.Profile(context.Background())
			if !errors.Is(err, tc.want) {
				t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
		}
	})

	t.Run("Expired Credential Fails Fast", func(t *testing.T) {
		called := false
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		srv.SetCredential(Credential{
			AccessToken: "stale",
			Expiry:      time.Now().Add(-time.Hour),
		})

		_, err := srv.Profile(context.Background())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
		if called {
			t.Error("expired credential should never reach the network")
		}
	})

	t.Run("Missing Credential", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		_, err = srv.Profile(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Interfaces", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		var _ Catalog = srv
		var _ PlaylistService = srv
	})
}

func TestTrackSummary(t *testing.T) {
	t.Run("Primary Artist", func(t *testing.T) {
		track := TrackSummary{Artists: []string{"Queen", "David Bowie"}}
		if got := track.Artist(); got != "Queen" {
			t.Errorf("expected primary artist Queen, got %s", got)
		}
	})

	t.Run("No Artist Credit", func(t *testing.T) {
		track := TrackSummary{}
		if got := track.Artist(); got != "Unknown" {
			t.Errorf("expected Unknown for a track without artists, got %s", got)
		}
	})
}
