package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

// SelectionRepository persists weekly track selections.
//
// A selection is always replaced wholesale: Save deletes any existing
// selection (and its tracks) for the (user, weekStart) pair and inserts
// the new one inside a single transaction, so readers never see partial
// state.
type SelectionRepository struct {
	db *sql.DB
}

// NewSelectionRepository creates a new [SelectionRepository] with the given database connection
func NewSelectionRepository(db *sql.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Save replaces the user's selection for the given week with the given tracks.
//
// Fails with [shared.ErrValidation] unless 1-3 tracks are provided. Track
// order is preserved by assigning strictly increasing added_at timestamps
// in input order alongside an explicit position.
func (r *SelectionRepository) Save(userID string, weekStart time.Time, tracks []models.TrackSelection) (*models.WeeklySelection, error) {
	if len(tracks) < models.MinWeeklyTracks || len(tracks) > models.MaxWeeklyTracks {
		return nil, fmt.Errorf("%w: must select %d-%d tracks", shared.ErrValidation, models.MinWeeklyTracks, models.MaxWeeklyTracks)
	}

	sequence, err := NextSequence(r.db, "weekly_selections")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	selection := models.NewWeeklySelection(sequence, userID, weekStart)
	selection.SetID(shared.GenerateID())

	base := time.Now()
	selection.Tracks = make([]models.TrackSelection, len(tracks))
	for i, track := range tracks {
		track.ID = shared.GenerateID()
		track.Position = i
		track.AddedAt = base.Add(time.Duration(i) * time.Millisecond)
		selection.Tracks[i] = track
	}

	if err := selection.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Child rows cascade with the selection row
	_, err = tx.Exec("DELETE FROM weekly_selections WHERE user_id = ? AND week_start = ?", userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to delete existing selection: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO weekly_selections (id, sequence, user_id, week_start, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, selection.ID(), sequence, userID, weekStart, selection.CreatedAt(), selection.UpdatedAt())
	if err != nil {
		return nil, fmt.Errorf("failed to insert selection: %w", err)
	}

	for _, track := range selection.Tracks {
		_, err = tx.Exec(`
			INSERT INTO track_selections (id, weekly_selection_id, spotify_track_id, title, artist, album, image, uri, position, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, track.ID, selection.ID(), track.SpotifyTrackID, track.Title, track.Artist, track.Album, track.Image, track.URI, track.Position, track.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert track selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit selection: %w", err)
	}

	return selection, nil
}

// GetForWeek returns the user's selection for the given week with its
// tracks loaded, or nil when none exists. Absence is not an error.
func (r *SelectionRepository) GetForWeek(userID string, weekStart time.Time) (*models.WeeklySelection, error) {
	selections, err := r.querySelections(`
		SELECT s.id, s.sequence, s.user_id, s.week_start, s.created_at, s.updated_at, u.display_name
		FROM weekly_selections s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = ? AND s.week_start = ?
	`, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, nil
	}
	return selections[0], nil
}

// ListForUsers returns every selection belonging to the given users with
// week_start >= since, newest week first, tracks loaded. Used for the
// current-week feed (since = weekStart) and the recommendation lookback
// (since = now - 28d).
func (r *SelectionRepository) ListForUsers(userIDs []string, since time.Time) ([]*models.WeeklySelection, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.sequence, s.user_id, s.week_start, s.created_at, s.updated_at, u.display_name
		FROM weekly_selections s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id IN (%s) AND s.week_start >= ?
		ORDER BY s.week_start DESC
	`, placeholders(len(userIDs)))

	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, since)

	return r.querySelections(query, args...)
}

// CountTracksSince returns the total number of tracks the given users
// selected in weeks starting at or after since.
func (r *SelectionRepository) CountTracksSince(userIDs []string, since time.Time) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM track_selections t
		JOIN weekly_selections s ON s.id = t.weekly_selection_id
		WHERE s.user_id IN (%s) AND s.week_start >= ?
	`, placeholders(len(userIDs)))

	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, since)

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	return count, nil
}

// querySelections runs a selection query and loads each result's tracks.
func (r *SelectionRepository) querySelections(query string, args ...any) ([]*models.WeeklySelection, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	var selections []*models.WeeklySelection
	for rows.Next() {
		var (
			id          string
			sequence    int
			userID      string
			weekStart   time.Time
			createdAt   time.Time
			updatedAt   time.Time
			displayName string
		)

		if err := rows.Scan(&id, &sequence, &userID, &weekStart, &createdAt, &updatedAt, &displayName); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}

		selection := models.NewWeeklySelection(sequence, userID, weekStart)
		selection.SetID(id)
		selection.SetUpdatedAt(updatedAt)
		selection.UserDisplayName = displayName

		selections = append(selections, selection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, selection := range selections {
		tracks, err := r.loadTracks(selection.ID())
		if err != nil {
			return nil, err
		}
		selection.Tracks = tracks
	}

	return selections, nil
}

// loadTracks loads the tracks of one selection ordered by position.
func (r *SelectionRepository) loadTracks(selectionID string) ([]models.TrackSelection, error) {
	rows, err := r.db.Query(`
		SELECT id, spotify_track_id, title, artist, album, image, uri, position, added_at
		FROM track_selections
		WHERE weekly_selection_id = ?
		ORDER BY position ASC
	`, selectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.TrackSelection
	for rows.Next() {
		var (
			track models.TrackSelection
			album sql.NullString
			image sql.NullString
			uri   sql.NullString
		)

		if err := rows.Scan(&track.ID, &track.SpotifyTrackID, &track.Title, &track.Artist, &album, &image, &uri, &track.Position, &track.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		track.Album = album.String
		track.Image = image.String
		track.URI = uri.String
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}
