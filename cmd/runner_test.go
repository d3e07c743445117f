package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/services"
	"github.com/desertthunder/mixweek/internal/shared"
	tu "github.com/desertthunder/mixweek/internal/testing"
)

var testNow = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

// runnerFixture wires a Runner against an in-memory database with mocked
// external services and a fixed clock.
type runnerFixture struct {
	runner   *Runner
	config   *shared.Config
	output   *bytes.Buffer
	catalog  *tu.MockCatalog
	external *tu.MockPlaylistService
	user     *models.User
}

func setupRunner(t *testing.T) *runnerFixture {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "test_client_id"
	config.Credentials.Spotify.ClientSecret = "test_client_secret"
	config.Credentials.Spotify.AccessToken = "test_access_token"
	config.Credentials.Spotify.TokenExpiry = testNow.Add(time.Hour)

	spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		t.Fatalf("failed to create spotify service: %v", err)
	}

	output := &bytes.Buffer{}
	catalog := &tu.MockCatalog{}
	external := &tu.MockPlaylistService{}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Spotify:    spotify,
		Catalog:    catalog,
		External:   external,
		DB:         db,
		Logger:     shared.NewLogger(io.Discard),
		Output:     output,
		Now:        func() time.Time { return testNow },
	})

	user := models.NewUser(0, "sp_me", "me@example.com", "Me", "")
	if err := runner.users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	config.App.UserID = user.ID()

	return &runnerFixture{
		runner:   runner,
		config:   config,
		output:   output,
		catalog:  catalog,
		external: external,
		user:     user,
	}
}

func (f *runnerFixture) addFriend(t *testing.T, spotifyID, displayName string) *models.User {
	t.Helper()
	friend := models.NewUser(0, spotifyID, spotifyID+"@example.com", displayName, "")
	if err := f.runner.users.Create(friend); err != nil {
		t.Fatalf("failed to create friend %s: %v", displayName, err)
	}
	if err := f.runner.friends.Add(f.user.ID(), friend.ID()); err != nil {
		t.Fatalf("failed to connect friend %s: %v", displayName, err)
	}
	return friend
}

func (f *runnerFixture) pick(t *testing.T, userID, artist string, ids ...string) {
	t.Helper()
	tracks := make([]models.TrackSelection, 0, len(ids))
	for _, id := range ids {
		tracks = append(tracks, models.TrackSelection{
			SpotifyTrackID: id,
			Title:          "Track " + id,
			Artist:         artist,
			URI:            "spotify:track:" + id,
		})
	}
	if _, err := f.runner.picks.Save(userID, shared.WeekStart(testNow), tracks); err != nil {
		t.Fatalf("failed to save picks: %v", err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}
			external := &tu.MockPlaylistService{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Catalog:  catalog,
				External: external,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.external != external {
				t.Error("expected external service to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("spotify service backs catalog and external by default", func(t *testing.T) {
			spotify, err := services.NewSpotifyService(map[string]string{
				"client_id":     "id",
				"client_secret": "secret",
			})
			if err != nil {
				t.Fatalf("failed to create spotify service: %v", err)
			}

			runner := NewRunner(RunnerOpts{Spotify: spotify})

			if runner.catalog != services.Catalog(spotify) {
				t.Error("expected catalog to default to spotify service")
			}
			if runner.external != services.PlaylistService(spotify) {
				t.Error("expected external service to default to spotify service")
			}
		})

		t.Run("with DB attaches stores", func(t *testing.T) {
			fx := setupRunner(t)

			if fx.runner.users == nil || fx.runner.friends == nil || fx.runner.picks == nil || fx.runner.playlists == nil {
				t.Error("expected repositories to be attached")
			}
			if fx.runner.engine == nil {
				t.Error("expected engine to be attached")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 8 {
			t.Errorf("expected 8 registered commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("currentUser", func(t *testing.T) {
		t.Run("resolves the configured user", func(t *testing.T) {
			fx := setupRunner(t)

			user, err := fx.runner.currentUser()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID() != fx.user.ID() {
				t.Errorf("expected user %s, got %s", fx.user.ID(), user.ID())
			}
		})

		t.Run("fails when no user is recorded", func(t *testing.T) {
			fx := setupRunner(t)
			fx.config.App.UserID = ""

			if _, err := fx.runner.currentUser(); !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})

		t.Run("fails when the recorded user is gone", func(t *testing.T) {
			fx := setupRunner(t)
			fx.config.App.UserID = "missing"

			if _, err := fx.runner.currentUser(); !errors.Is(err, shared.ErrUserNotFound) {
				t.Errorf("expected ErrUserNotFound, got %v", err)
			}
		})
	})

	t.Run("ensureAuthenticated", func(t *testing.T) {
		t.Run("passes through a valid stored token", func(t *testing.T) {
			fx := setupRunner(t)

			if err := fx.runner.ensureAuthenticated(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if fx.runner.spotify.Credential().AccessToken != "test_access_token" {
				t.Error("expected stored credential to be loaded onto the service")
			}
		})

		t.Run("fails without stored tokens", func(t *testing.T) {
			fx := setupRunner(t)
			fx.config.Credentials.Spotify.AccessToken = ""
			fx.config.Credentials.Spotify.RefreshToken = ""

			err := fx.runner.ensureAuthenticated(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("fails with nil spotify service", func(t *testing.T) {
			fx := setupRunner(t)
			fx.runner.spotify = nil

			err := fx.runner.ensureAuthenticated(context.Background())
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})
}

func TestCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("Feed", func(t *testing.T) {
		t.Run("shows friend picks for the week", func(t *testing.T) {
			fx := setupRunner(t)
			friend := fx.addFriend(t, "sp_alice", "Alice")
			fx.pick(t, friend.ID(), "Queen", "q1", "q2")

			if err := feedCommand(fx.runner).Run(ctx, []string{"feed"}); err != nil {
				t.Fatalf("feed failed: %v", err)
			}

			output := fx.output.String()
			if !strings.Contains(output, "Track q1 - Queen") {
				t.Errorf("expected track in output, got %s", output)
			}
			if !strings.Contains(output, "Shared by: Alice") {
				t.Errorf("expected attribution in output, got %s", output)
			}
		})

		t.Run("exports to a file", func(t *testing.T) {
			fx := setupRunner(t)
			friend := fx.addFriend(t, "sp_alice", "Alice")
			fx.pick(t, friend.ID(), "Queen", "q1")

			exportPath := filepath.Join(t.TempDir(), "feed.csv")
			err := feedCommand(fx.runner).Run(ctx, []string{"feed", "--export", "csv", "--output", exportPath})
			if err != nil {
				t.Fatalf("feed export failed: %v", err)
			}

			data, err := os.ReadFile(exportPath)
			if err != nil {
				t.Fatalf("expected export file: %v", err)
			}
			if !strings.Contains(string(data), "Track q1") {
				t.Errorf("expected track in export, got %s", data)
			}
		})

		t.Run("requires a signed-in user", func(t *testing.T) {
			fx := setupRunner(t)
			fx.config.App.UserID = ""

			err := feedCommand(fx.runner).Run(ctx, []string{"feed"})
			if !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	})

	t.Run("FriendsList", func(t *testing.T) {
		t.Run("counts picks this week", func(t *testing.T) {
			fx := setupRunner(t)
			alice := fx.addFriend(t, "sp_alice", "Alice")
			fx.addFriend(t, "sp_bob", "Bob")
			fx.pick(t, alice.ID(), "Queen", "q1", "q2", "q3")

			if err := friendsCommand(fx.runner).Run(ctx, []string{"friends", "list"}); err != nil {
				t.Fatalf("friends list failed: %v", err)
			}

			output := fx.output.String()
			if !strings.Contains(output, "Alice") || !strings.Contains(output, "Bob") {
				t.Errorf("expected both friends listed, got %s", output)
			}
			if !strings.Contains(output, "Picks this week: 3") {
				t.Errorf("expected pick count for Alice, got %s", output)
			}
			if !strings.Contains(output, "Picks this week: 0") {
				t.Errorf("expected zero pick count for Bob, got %s", output)
			}
		})

		t.Run("suggests finding friends when empty", func(t *testing.T) {
			fx := setupRunner(t)

			if err := friendsCommand(fx.runner).Run(ctx, []string{"friends", "list"}); err != nil {
				t.Fatalf("friends list failed: %v", err)
			}

			if !strings.Contains(fx.output.String(), "No friends yet") {
				t.Errorf("expected empty-circle hint, got %s", fx.output.String())
			}
		})
	})

	t.Run("FriendsAdd", func(t *testing.T) {
		t.Run("connects two users", func(t *testing.T) {
			fx := setupRunner(t)
			other := models.NewUser(0, "sp_carol", "carol@example.com", "Carol", "")
			if err := fx.runner.users.Create(other); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}

			err := friendsCommand(fx.runner).Run(ctx, []string{"friends", "add", other.ID()})
			if err != nil {
				t.Fatalf("friends add failed: %v", err)
			}

			connected, err := fx.runner.friends.AreFriends(fx.user.ID(), other.ID())
			if err != nil {
				t.Fatalf("failed to check friendship: %v", err)
			}
			if !connected {
				t.Error("expected users to be connected")
			}
			if !strings.Contains(fx.output.String(), "Connected with Carol") {
				t.Errorf("expected confirmation, got %s", fx.output.String())
			}
		})

		t.Run("fails for unknown users", func(t *testing.T) {
			fx := setupRunner(t)

			err := friendsCommand(fx.runner).Run(ctx, []string{"friends", "add", "missing"})
			if !errors.Is(err, shared.ErrUserNotFound) {
				t.Errorf("expected ErrUserNotFound, got %v", err)
			}
		})
	})

	t.Run("PicksSet", func(t *testing.T) {
		t.Run("resolves queries and saves picks", func(t *testing.T) {
			fx := setupRunner(t)
			fx.catalog.SearchTracksFunc = func(ctx context.Context, query string, limit int) ([]services.TrackSummary, error) {
				return []services.TrackSummary{{
					ID:      "found_1",
					URI:     "spotify:track:found_1",
					Name:    "Found Song",
					Artists: []string{"Found Artist"},
					Album:   "Found Album",
				}}, nil
			}

			err := picksCommand(fx.runner).Run(ctx, []string{"picks", "set", "--track", "found song"})
			if err != nil {
				t.Fatalf("picks set failed: %v", err)
			}

			selection, err := fx.runner.picks.GetForWeek(fx.user.ID(), shared.WeekStart(testNow))
			if err != nil {
				t.Fatalf("failed to load selection: %v", err)
			}
			if selection == nil || len(selection.Tracks) != 1 {
				t.Fatal("expected one saved pick")
			}
			if selection.Tracks[0].SpotifyTrackID != "found_1" {
				t.Errorf("expected resolved track id, got %s", selection.Tracks[0].SpotifyTrackID)
			}
			if !strings.Contains(fx.output.String(), "Found Song - Found Artist") {
				t.Errorf("expected saved pick in output, got %s", fx.output.String())
			}
		})

		t.Run("rejects more than three tracks", func(t *testing.T) {
			fx := setupRunner(t)

			err := picksCommand(fx.runner).Run(ctx, []string{
				"picks", "set", "--track", "a", "--track", "b", "--track", "c", "--track", "d",
			})
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("fails when no track matches", func(t *testing.T) {
			fx := setupRunner(t)
			fx.catalog.SearchTracksFunc = func(ctx context.Context, query string, limit int) ([]services.TrackSummary, error) {
				return nil, nil
			}

			err := picksCommand(fx.runner).Run(ctx, []string{"picks", "set", "--track", "nothing"})
			if !errors.Is(err, shared.ErrTrackNotFound) {
				t.Errorf("expected ErrTrackNotFound, got %v", err)
			}
		})
	})

	t.Run("PicksShow", func(t *testing.T) {
		t.Run("shows an empty week", func(t *testing.T) {
			fx := setupRunner(t)

			if err := picksCommand(fx.runner).Run(ctx, []string{"picks", "show"}); err != nil {
				t.Fatalf("picks show failed: %v", err)
			}

			if !strings.Contains(fx.output.String(), "No picks yet") {
				t.Errorf("expected empty-week hint, got %s", fx.output.String())
			}
		})

		t.Run("shows saved picks", func(t *testing.T) {
			fx := setupRunner(t)
			fx.pick(t, fx.user.ID(), "Queen", "q1", "q2")

			if err := picksCommand(fx.runner).Run(ctx, []string{"picks", "show"}); err != nil {
				t.Fatalf("picks show failed: %v", err)
			}

			output := fx.output.String()
			if !strings.Contains(output, "Track q1 - Queen") || !strings.Contains(output, "Track q2 - Queen") {
				t.Errorf("expected both picks in output, got %s", output)
			}
		})
	})

	t.Run("Recommend", func(t *testing.T) {
		t.Run("exports to a file", func(t *testing.T) {
			fx := setupRunner(t)
			friend := fx.addFriend(t, "sp_alice", "Alice")
			fx.pick(t, friend.ID(), "Queen", "q1", "q2")
			fx.catalog.SearchTracksFunc = func(ctx context.Context, query string, limit int) ([]services.TrackSummary, error) {
				return []services.TrackSummary{
					{
						ID:      "rec_1",
						URI:     "spotify:track:rec_1",
						Name:    "Rec One",
						Artists: []string{"Queen"},
					},
				}, nil
			}

			exportPath := filepath.Join(t.TempDir(), "recommendations.csv")
			err := recommendCommand(fx.runner).Run(ctx, []string{"recommend", "--export", "csv", "--output", exportPath})
			if err != nil {
				t.Fatalf("recommend export failed: %v", err)
			}

			data, err := os.ReadFile(exportPath)
			if err != nil {
				t.Fatalf("expected export file: %v", err)
			}
			if !strings.Contains(string(data), "Rec One") {
				t.Errorf("expected recommendation in export, got %s", data)
			}
			if !strings.Contains(fx.output.String(), "Recommendations exported to") {
				t.Errorf("expected confirmation message, got %s", fx.output.String())
			}
		})
	})

	t.Run("Sync", func(t *testing.T) {
		t.Run("creates the weekly playlist", func(t *testing.T) {
			fx := setupRunner(t)
			friend := fx.addFriend(t, "sp_alice", "Alice")
			fx.pick(t, friend.ID(), "Queen", "q1", "q2")
			fx.catalog.SearchTracksFunc = func(ctx context.Context, query string, limit int) ([]services.TrackSummary, error) {
				tracks := make([]services.TrackSummary, 0, 10)
				for i := range 10 {
					id := fmt.Sprintf("rec_%d", i)
					tracks = append(tracks, services.TrackSummary{
						ID:      id,
						URI:     "spotify:track:" + id,
						Name:    "Rec " + id,
						Artists: []string{"Queen"},
					})
				}
				return tracks, nil
			}

			err := syncCommand(fx.runner).Run(ctx, []string{"sync", "--json", "--pretty"})
			if err != nil {
				t.Fatalf("sync failed: %v", err)
			}

			output := fx.output.String()
			if !strings.Contains(output, `"track_count": 12`) {
				t.Errorf("expected 12 synced tracks, got %s", output)
			}
			if !strings.Contains(output, `"friend_track_count": 2`) {
				t.Errorf("expected 2 friend tracks, got %s", output)
			}

			record, err := fx.runner.playlists.GetForWeek(fx.user.ID(), shared.WeekStart(testNow))
			if err != nil {
				t.Fatalf("failed to load playlist record: %v", err)
			}
			if record == nil {
				t.Fatal("expected playlist record to be persisted")
			}
		})

		t.Run("fails when the week has no tracks", func(t *testing.T) {
			fx := setupRunner(t)

			err := syncCommand(fx.runner).Run(ctx, []string{"sync", "--quiet"})
			if !errors.Is(err, shared.ErrNoTracks) {
				t.Errorf("expected ErrNoTracks, got %v", err)
			}
		})
	})

	t.Run("Playlist", func(t *testing.T) {
		t.Run("reports a missing record", func(t *testing.T) {
			fx := setupRunner(t)

			if err := playlistCommand(fx.runner).Run(ctx, []string{"playlist"}); err != nil {
				t.Fatalf("playlist failed: %v", err)
			}

			if !strings.Contains(fx.output.String(), "No playlist synced") {
				t.Errorf("expected missing-record hint, got %s", fx.output.String())
			}
		})

		t.Run("shows the synced record", func(t *testing.T) {
			fx := setupRunner(t)
			record := models.NewWeeklyPlaylist(0, fx.user.ID(), shared.WeekStart(testNow))
			record.SetName("Mixweek - Jan 6, 2025 - Jan 12, 2025")
			record.SetSpotifyPlaylistID("pl_1")
			record.SetURL("https://open.spotify.com/playlist/pl_1")
			record.SetTrackCount(12)
			if err := fx.runner.playlists.Upsert(record); err != nil {
				t.Fatalf("failed to persist record: %v", err)
			}

			if err := playlistCommand(fx.runner).Run(ctx, []string{"playlist"}); err != nil {
				t.Fatalf("playlist failed: %v", err)
			}

			output := fx.output.String()
			if !strings.Contains(output, "Mixweek - Jan 6, 2025 - Jan 12, 2025") {
				t.Errorf("expected playlist name, got %s", output)
			}
			if !strings.Contains(output, "Tracks: 12") {
				t.Errorf("expected track count, got %s", output)
			}
		})
	})

	t.Run("AuthStatus", func(t *testing.T) {
		t.Run("reports stored tokens and user", func(t *testing.T) {
			fx := setupRunner(t)

			if err := authCommand(fx.runner).Run(ctx, []string{"auth", "status"}); err != nil {
				t.Fatalf("auth status failed: %v", err)
			}

			output := fx.output.String()
			if !strings.Contains(output, "✓ Authenticated") {
				t.Errorf("expected authenticated state, got %s", output)
			}
			if !strings.Contains(output, "Me <me@example.com>") {
				t.Errorf("expected user identity, got %s", output)
			}
		})

		t.Run("reports missing tokens", func(t *testing.T) {
			fx := setupRunner(t)
			fx.config.Credentials.Spotify.AccessToken = ""
			fx.config.Credentials.Spotify.RefreshToken = ""

			if err := authCommand(fx.runner).Run(ctx, []string{"auth", "status"}); err != nil {
				t.Fatalf("auth status failed: %v", err)
			}

			if !strings.Contains(fx.output.String(), "✗ Not authenticated") {
				t.Errorf("expected unauthenticated state, got %s", fx.output.String())
			}
		})
	})
}
