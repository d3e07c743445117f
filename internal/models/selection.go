package models

import (
	"fmt"
	"time"
)

// Track selection limits per user per week.
const (
	MinWeeklyTracks = 1
	MaxWeeklyTracks = 3
)

// TrackSelection is one picked track inside a WeeklySelection.
//
// AddedAt orders tracks within the weekly feed; Position preserves the
// user's original pick order within a selection.
type TrackSelection struct {
	ID             string    `json:"id"`
	SpotifyTrackID string    `json:"spotify_track_id"`
	Title          string    `json:"title"`
	Artist         string    `json:"artist"`
	Album          string    `json:"album,omitempty"`
	Image          string    `json:"image,omitempty"`
	URI            string    `json:"uri,omitempty"`
	Position       int       `json:"position"`
	AddedAt        time.Time `json:"added_at"`
}

// Playable reports whether the track carries a resolvable external URI.
func (t TrackSelection) Playable() bool {
	return t.URI != ""
}

// WeeklySelection is a user's set of picks for one week, unique on
// (user, weekStart). Selections are replaced wholesale on save.
type WeeklySelection struct {
	id        string
	sequence  int
	userID    string
	weekStart time.Time
	createdAt time.Time
	updatedAt time.Time

	// Tracks are loaded alongside the selection, ordered by position.
	Tracks []TrackSelection

	// UserDisplayName is joined in for feed attribution.
	UserDisplayName string
}

// NewWeeklySelection creates a selection for the given user and week.
func NewWeeklySelection(sequence int, userID string, weekStart time.Time) *WeeklySelection {
	now := time.Now()
	return &WeeklySelection{
		sequence:  sequence,
		userID:    userID,
		weekStart: weekStart,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *WeeklySelection) ID() string           { return s.id }
func (s *WeeklySelection) Sequence() int        { return s.sequence }
func (s *WeeklySelection) UserID() string       { return s.userID }
func (s *WeeklySelection) WeekStart() time.Time { return s.weekStart }
func (s *WeeklySelection) CreatedAt() time.Time { return s.createdAt }
func (s *WeeklySelection) UpdatedAt() time.Time { return s.updatedAt }

func (s *WeeklySelection) SetID(id string)          { s.id = id }
func (s *WeeklySelection) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// Validate enforces the 1-3 track rule and track identity fields.
func (s *WeeklySelection) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("selection missing user id")
	}
	if s.weekStart.IsZero() {
		return fmt.Errorf("selection missing week start")
	}
	if len(s.Tracks) < MinWeeklyTracks || len(s.Tracks) > MaxWeeklyTracks {
		return fmt.Errorf("must select %d-%d tracks, got %d", MinWeeklyTracks, MaxWeeklyTracks, len(s.Tracks))
	}
	for i, track := range s.Tracks {
		if track.SpotifyTrackID == "" {
			return fmt.Errorf("track %d missing spotify track id", i)
		}
		if track.Title == "" || track.Artist == "" {
			return fmt.Errorf("track %d missing title or artist", i)
		}
	}
	return nil
}

// FeedTrack is one attributed entry in the weekly friend feed.
type FeedTrack struct {
	ID               string    `json:"id"`
	SpotifyTrackID   string    `json:"spotify_track_id"`
	Title            string    `json:"title"`
	Artist           string    `json:"artist"`
	Album            string    `json:"album,omitempty"`
	Image            string    `json:"image,omitempty"`
	URI              string    `json:"uri,omitempty"`
	Friend           string    `json:"friend"`
	AddedAt          time.Time `json:"added_at"`
	IsRecommendation bool      `json:"is_recommendation"`
}

// Playable reports whether the track carries a resolvable external URI.
func (t FeedTrack) Playable() bool {
	return t.URI != ""
}

// Recommendation is an ephemeral scored track suggestion. It is produced
// fresh per request and never persisted.
type Recommendation struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album,omitempty"`
	Image  string `json:"image,omitempty"`
	URI    string `json:"uri,omitempty"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Playable reports whether the recommendation carries a resolvable external URI.
func (r Recommendation) Playable() bool {
	return r.URI != ""
}
