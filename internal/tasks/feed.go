package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

// CurrentWeekFeed returns every track the user's friends picked for the
// week containing now, attributed to the contributing friend and sorted
// ascending by when each track was added. The requesting user's own
// selection is never included. An empty feed is not an error.
func (e *Engine) CurrentWeekFeed(ctx context.Context, userID string, now time.Time) ([]models.FeedTrack, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrValidation)
	}

	friends, err := e.friends.FriendsOf(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friends: %w", err)
	}
	if len(friends) == 0 {
		return []models.FeedTrack{}, nil
	}

	weekStart := shared.WeekStart(now)

	feed := []models.FeedTrack{}
	for _, friendID := range friends {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		selection, err := e.selections.GetForWeek(friendID, weekStart)
		if err != nil {
			return nil, fmt.Errorf("failed to load selection for %s: %w", friendID, err)
		}
		if selection == nil {
			continue
		}

		for _, track := range selection.Tracks {
			feed = append(feed, models.FeedTrack{
				ID:             track.ID,
				SpotifyTrackID: track.SpotifyTrackID,
				Title:          track.Title,
				Artist:         track.Artist,
				Album:          track.Album,
				Image:          track.Image,
				URI:            track.URI,
				Friend:         selection.UserDisplayName,
				AddedAt:        track.AddedAt,
			})
		}
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].AddedAt.Before(feed[j].AddedAt)
	})

	return feed, nil
}
