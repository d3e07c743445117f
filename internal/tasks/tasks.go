package tasks

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixweek/internal/repositories"
	"github.com/desertthunder/mixweek/internal/services"
)

const (
	// lookbackDays is the trailing window for recommendation scoring
	lookbackDays = 28

	// playlistTarget is the track count recommendations top the weekly playlist up to
	playlistTarget = 20

	// maxRecommendations caps the scored recommendation list
	maxRecommendations = 20
)

// SyncResult reports the outcome of one playlist synchronization.
//
// The two Skipped flags mark steps that degraded rather than failed:
// a recommendation or cover-image fetch that errored leaves the
// playlist valid but incomplete, and the caller decides whether to
// surface that.
type SyncResult struct {
	URL                    string `json:"playlist_url"`
	TrackCount             int    `json:"track_count"`
	FriendTrackCount       int    `json:"friend_track_count"`
	RecommendedTrackCount  int    `json:"recommended_track_count"`
	RecommendationsSkipped bool   `json:"recommendations_skipped,omitempty"`
	ImageSkipped           bool   `json:"image_skipped,omitempty"`
}

// RecommendationStats summarizes the data feeding the recommendation engine.
type RecommendationStats struct {
	FriendCount   int `json:"friend_count"`
	SongsAnalyzed int `json:"songs_analyzed"`
	WeeksAnalyzed int `json:"weeks_analyzed"`
}

// Engine orchestrates the weekly feed, recommendation scoring, and
// external playlist synchronization for one application instance.
type Engine struct {
	users      *repositories.UserRepository
	friends    *repositories.FriendshipRepository
	selections *repositories.SelectionRepository
	playlists  *repositories.PlaylistRepository
	catalog    services.Catalog
	external   services.PlaylistService
	logger     *log.Logger
	appName    string
}

// NewEngine creates an Engine with the provided repositories and services.
func NewEngine(
	users *repositories.UserRepository,
	friends *repositories.FriendshipRepository,
	selections *repositories.SelectionRepository,
	playlists *repositories.PlaylistRepository,
	catalog services.Catalog,
	external services.PlaylistService,
	logger *log.Logger,
	appName string,
) *Engine {
	return &Engine{
		users:      users,
		friends:    friends,
		selections: selections,
		playlists:  playlists,
		catalog:    catalog,
		external:   external,
		logger:     logger,
		appName:    appName,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// lookbackStart returns the inclusive start of the scoring window.
func lookbackStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -lookbackDays)
}
