package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

const (
	seedArtistCount     = 5
	seedTracksPerArtist = 4
	seedScore           = 50

	topArtistCount  = 10
	tracksPerArtist = 10

	scorePerTrack  = 10
	scorePerFriend = 15
	maxScore       = 100
)

// seedArtists is the fixed fallback list for users without friends.
// Only the first seedArtistCount entries are queried.
var seedArtists = []string{
	"Taylor Swift",
	"Drake",
	"The Weeknd",
	"Billie Eilish",
	"Post Malone",
	"Ariana Grande",
	"Ed Sheeran",
	"Dua Lipa",
	"Bad Bunny",
	"Olivia Rodrigo",
	"Harry Styles",
	"Doja Cat",
	"Justin Bieber",
	"The Beatles",
	"Queen",
}

// artistTally accumulates per-artist contribution data over the lookback window
type artistTally struct {
	name      string
	count     int
	friends   map[string]struct{}
	pickedIDs map[string]struct{}
}

// Recommend scores up to 20 track suggestions for the user.
//
// With no friends it falls back to a deterministic seed list of popular
// artists. Otherwise it tallies the friends' picks over the trailing 28
// days per artist, ranks artists by contribution count, and queries the
// catalog for more tracks by the top ten. A catalog failure for a single
// artist is skipped; a failure before any data is gathered propagates.
func (e *Engine) Recommend(ctx context.Context, userID string, now time.Time) ([]models.Recommendation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrValidation)
	}

	friends, err := e.friends.FriendsOf(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friends: %w", err)
	}
	if len(friends) == 0 {
		return e.seedRecommendations(ctx)
	}

	selections, err := e.selections.ListForUsers(friends, lookbackStart(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load friend selections: %w", err)
	}

	tallies := map[string]*artistTally{}
	for _, selection := range selections {
		for _, track := range selection.Tracks {
			key := strings.ToLower(track.Artist)
			tally, ok := tallies[key]
			if !ok {
				tally = &artistTally{
					name:      track.Artist,
					friends:   map[string]struct{}{},
					pickedIDs: map[string]struct{}{},
				}
				tallies[key] = tally
			}
			tally.count++
			tally.friends[selection.UserID()] = struct{}{}
			tally.pickedIDs[track.SpotifyTrackID] = struct{}{}
		}
	}

	ranked := make([]*artistTally, 0, len(tallies))
	for _, tally := range tallies {
		if len(tally.friends) > 0 {
			ranked = append(ranked, tally)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > topArtistCount {
		ranked = ranked[:topArtistCount]
	}

	recommendations := []models.Recommendation{}
	seen := map[string]struct{}{}

	for _, tally := range ranked {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		query := fmt.Sprintf("artist:%q", tally.name)
		tracks, err := e.catalog.SearchTracks(ctx, query, tracksPerArtist)
		if err != nil {
			e.logger.Warn("catalog lookup failed, skipping artist", "artist", tally.name, "error", err)
			continue
		}

		score := tally.count*scorePerTrack + len(tally.friends)*scorePerFriend
		if score > maxScore {
			score = maxScore
		}
		reason := fmt.Sprintf("Popular with %d friends who picked %d songs by %s", len(tally.friends), tally.count, tally.name)

		for _, track := range tracks {
			if _, picked := tally.pickedIDs[track.ID]; picked {
				continue
			}
			if _, dup := seen[track.ID]; dup {
				continue
			}
			seen[track.ID] = struct{}{}

			recommendations = append(recommendations, models.Recommendation{
				ID:     track.ID,
				Title:  track.Name,
				Artist: track.Artist(),
				Album:  track.Album,
				Image:  track.Image(),
				URI:    track.URI,
				Score:  score,
				Reason: reason,
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return recommendations, nil
}

// seedRecommendations builds the no-friend fallback from the fixed
// artist list. Deterministic given catalog state; never reads friend data.
func (e *Engine) seedRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	recommendations := []models.Recommendation{}
	seen := map[string]struct{}{}
	var firstErr error

	for _, artist := range seedArtists[:seedArtistCount] {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		query := fmt.Sprintf("artist:%q", artist)
		tracks, err := e.catalog.SearchTracks(ctx, query, seedTracksPerArtist)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			e.logger.Warn("catalog lookup failed, skipping seed artist", "artist", artist, "error", err)
			continue
		}

		for _, track := range tracks {
			if _, dup := seen[track.ID]; dup {
				continue
			}
			seen[track.ID] = struct{}{}

			recommendations = append(recommendations, models.Recommendation{
				ID:     track.ID,
				Title:  track.Name,
				Artist: track.Artist(),
				Album:  track.Album,
				Image:  track.Image(),
				URI:    track.URI,
				Score:  seedScore,
				Reason: "Popular track to get you started",
			})
		}
	}

	if len(recommendations) == 0 && firstErr != nil {
		return nil, fmt.Errorf("failed to build seed recommendations: %w", firstErr)
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return recommendations, nil
}

// Stats summarizes the inputs the recommendation engine would score for
// the user right now.
func (e *Engine) Stats(ctx context.Context, userID string, now time.Time) (*RecommendationStats, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrValidation)
	}

	friends, err := e.friends.FriendsOf(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friends: %w", err)
	}

	stats := &RecommendationStats{
		FriendCount:   len(friends),
		WeeksAnalyzed: lookbackDays / 7,
	}

	if len(friends) > 0 {
		count, err := e.selections.CountTracksSince(friends, lookbackStart(now))
		if err != nil {
			return nil, fmt.Errorf("failed to count tracks: %w", err)
		}
		stats.SongsAnalyzed = count
	}

	return stats, nil
}
