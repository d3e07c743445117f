package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

// Synchronize synthesizes the user's weekly playlist on the external
// provider and upserts the local record for it.
//
// Friend tracks come first, then recommendations top the list up to
// twenty. Recommendation and cover-image failures degrade: the result
// marks them skipped and the playlist still ships. Any failure before
// the upsert leaves the previously persisted record untouched, so the
// next invocation retries from scratch.
func (e *Engine) Synchronize(ctx context.Context, userID string, now time.Time, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrValidation)
	}

	weekStart := shared.WeekStart(now)
	weekRange := shared.FormatWeekRange(weekStart)

	existing, err := e.playlists.GetForWeek(userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist record: %w", err)
	}

	e.sendProgress(progress, loadFeedUpdate(1, 6))

	feed, err := e.CurrentWeekFeed(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly feed: %w", err)
	}

	friendTracks := make([]models.FeedTrack, 0, len(feed))
	for _, track := range feed {
		if track.Playable() {
			friendTracks = append(friendTracks, track)
		}
	}

	result := &SyncResult{FriendTrackCount: len(friendTracks)}

	allTracks := friendTracks
	if len(friendTracks) < playlistTarget {
		needed := playlistTarget - len(friendTracks)
		e.sendProgress(progress, recommendationsUpdate(2, 6, needed))

		recommended, err := e.Recommend(ctx, userID, now)
		if err != nil {
			// Degraded step: ship the friend tracks alone
			e.logger.Warn("recommendations unavailable, continuing without them", "error", err)
			result.RecommendationsSkipped = true
		} else {
			present := map[string]struct{}{}
			for _, track := range friendTracks {
				present[track.URI] = struct{}{}
			}

			for _, rec := range recommended {
				if len(allTracks) >= playlistTarget {
					break
				}
				if !rec.Playable() {
					continue
				}
				if _, ok := present[rec.URI]; ok {
					continue
				}
				present[rec.URI] = struct{}{}

				allTracks = append(allTracks, models.FeedTrack{
					ID:               rec.ID,
					SpotifyTrackID:   rec.ID,
					Title:            rec.Title,
					Artist:           rec.Artist,
					Album:            rec.Album,
					Image:            rec.Image,
					URI:              rec.URI,
					Friend:           "Recommendation",
					IsRecommendation: true,
				})
			}
		}
	}

	uris := make([]string, 0, len(allTracks))
	for _, track := range allTracks {
		uris = append(uris, track.URI)
	}
	if len(uris) == 0 {
		return nil, shared.ErrNoTracks
	}

	result.TrackCount = len(uris)
	result.RecommendedTrackCount = len(allTracks) - len(friendTracks)

	name := fmt.Sprintf("%s - %s", e.appName, weekRange)
	description := fmt.Sprintf("Weekly collaborative playlist from your music circle for %s.", weekRange)
	if result.RecommendedTrackCount > 0 {
		description += fmt.Sprintf(" Includes %d auto-recommended songs.", result.RecommendedTrackCount)
	}

	var playlistID, playlistURL string

	if existing != nil && existing.SpotifyPlaylistID() != "" {
		playlistID = existing.SpotifyPlaylistID()
		playlistURL = existing.URL()
		if playlistURL == "" {
			playlistURL = "https://open.spotify.com/playlist/" + playlistID
		}

		// Clear then set; no atomicity at the external boundary
		e.sendProgress(progress, updatePlaylistUpdate(3, 6, len(uris)))
		if err := e.external.ReplaceTracks(ctx, playlistID, nil); err != nil {
			return nil, fmt.Errorf("failed to clear playlist: %w", err)
		}
		if err := e.external.AddTracks(ctx, playlistID, uris); err != nil {
			return nil, fmt.Errorf("failed to add tracks: %w", err)
		}
	} else {
		profile, err := e.external.Profile(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user profile: %w", err)
		}

		e.sendProgress(progress, createPlaylistUpdate(3, 6, name))
		created, err := e.external.CreatePlaylist(ctx, profile.ID, name, description, false)
		if err != nil {
			return nil, fmt.Errorf("failed to create playlist: %w", err)
		}
		playlistID = created.ID
		playlistURL = created.URL

		e.sendProgress(progress, updatePlaylistUpdate(4, 6, len(uris)))
		if err := e.external.AddTracks(ctx, playlistID, uris); err != nil {
			return nil, fmt.Errorf("failed to add tracks: %w", err)
		}
	}

	e.sendProgress(progress, fetchImageUpdate(5, 6))

	var image string
	if detail, err := e.external.Playlist(ctx, playlistID); err != nil {
		// Cover image is cosmetic
		e.logger.Warn("failed to fetch playlist image", "error", err)
		result.ImageSkipped = true
	} else if len(detail.Images) > 0 {
		image = detail.Images[0].URL
	}

	e.sendProgress(progress, persistRecordUpdate(6, 6))

	record := models.NewWeeklyPlaylist(0, userID, weekStart)
	record.SetSpotifyPlaylistID(playlistID)
	record.SetURL(playlistURL)
	record.SetTrackCount(len(uris))
	record.SetName(name)
	record.SetDescription(description)
	record.SetImage(image)

	if err := e.playlists.Upsert(record); err != nil {
		return nil, fmt.Errorf("failed to persist playlist record: %w", err)
	}

	result.URL = playlistURL
	return result, nil
}

// WeeklyPlaylist returns the persisted playlist record for the week
// containing now, or nil when none has been synchronized yet.
func (e *Engine) WeeklyPlaylist(userID string, now time.Time) (*models.WeeklyPlaylist, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrValidation)
	}
	return e.playlists.GetForWeek(userID, shared.WeekStart(now))
}
