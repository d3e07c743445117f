package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

// PlaylistRepository caches synthesized weekly playlists, unique per
// (owner, weekStart).
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// GetForWeek retrieves the playlist record for (owner, weekStart), or
// nil when none exists. Absence is not an error.
func (r *PlaylistRepository) GetForWeek(ownerUserID string, weekStart time.Time) (*models.WeeklyPlaylist, error) {
	query := `
		SELECT id, sequence, owner_user_id, week_start, spotify_playlist_id, url, track_count, name, description, image, created_at, updated_at
		FROM weekly_playlists
		WHERE owner_user_id = ? AND week_start = ?
	`

	playlist, err := r.scanOne(r.db.QueryRow(query, ownerUserID, weekStart))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return playlist, nil
}

// Upsert creates the playlist record for (owner, weekStart) or updates
// it in place, so at most one record ever exists per pair.
//
// The write is a single INSERT ... ON CONFLICT statement, so concurrent
// upserts for the same pair never race a read against a write: one
// inserts, the other updates the same row. On conflict the stored id,
// sequence, and created_at are kept, and the model is synced to them.
func (r *PlaylistRepository) Upsert(playlist *models.WeeklyPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	sequence, err := NextSequence(r.db, "weekly_playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)
	playlist.SetUpdatedAt(now)

	_, err = r.db.Exec(`
		INSERT INTO weekly_playlists (id, sequence, owner_user_id, week_start, spotify_playlist_id, url, track_count, name, description, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_user_id, week_start) DO UPDATE
		SET spotify_playlist_id = excluded.spotify_playlist_id,
			url = excluded.url,
			track_count = excluded.track_count,
			name = excluded.name,
			description = excluded.description,
			image = excluded.image,
			updated_at = excluded.updated_at
	`, playlist.ID(), sequence, playlist.OwnerUserID(), playlist.WeekStart(), playlist.SpotifyPlaylistID(), playlist.URL(), playlist.TrackCount(), playlist.Name(), playlist.Description(), playlist.Image(), playlist.CreatedAt(), now)
	if err != nil {
		return fmt.Errorf("failed to upsert playlist: %w", err)
	}

	var storedID string
	var storedSequence int
	err = r.db.QueryRow(
		"SELECT id, sequence FROM weekly_playlists WHERE owner_user_id = ? AND week_start = ?",
		playlist.OwnerUserID(), playlist.WeekStart(),
	).Scan(&storedID, &storedSequence)
	if err != nil {
		return fmt.Errorf("failed to read back playlist: %w", err)
	}
	playlist.SetID(storedID)
	playlist.SetSequence(storedSequence)

	return nil
}

// scanOne scans a single row into a [models.WeeklyPlaylist]
func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.WeeklyPlaylist, error) {
	var (
		id                string
		sequence          int
		ownerUserID       string
		weekStart         time.Time
		spotifyPlaylistID string
		url               string
		trackCount        int
		name              string
		description       string
		image             sql.NullString
		createdAt         time.Time
		updatedAt         time.Time
	)

	err := row.Scan(&id, &sequence, &ownerUserID, &weekStart, &spotifyPlaylistID, &url, &trackCount, &name, &description, &image, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	playlist := models.NewWeeklyPlaylist(sequence, ownerUserID, weekStart)
	playlist.SetID(id)
	playlist.SetSpotifyPlaylistID(spotifyPlaylistID)
	playlist.SetURL(url)
	playlist.SetTrackCount(trackCount)
	playlist.SetName(name)
	playlist.SetDescription(description)
	playlist.SetImage(image.String)
	playlist.SetUpdatedAt(updatedAt)

	return playlist, nil
}
