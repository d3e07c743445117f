package models

import (
	"fmt"
	"time"
)

// WeeklyPlaylist caches the external playlist synthesized for one
// (owner, weekStart) pair. At most one record ever exists per pair:
// the first successful synchronization creates it, later ones update
// it in place.
type WeeklyPlaylist struct {
	id                string
	sequence          int
	ownerUserID       string
	weekStart         time.Time
	spotifyPlaylistID string
	url               string
	trackCount        int
	name              string
	description       string
	image             string
	createdAt         time.Time
	updatedAt         time.Time
}

// NewWeeklyPlaylist creates a playlist record for the given owner and week.
func NewWeeklyPlaylist(sequence int, ownerUserID string, weekStart time.Time) *WeeklyPlaylist {
	now := time.Now()
	return &WeeklyPlaylist{
		sequence:    sequence,
		ownerUserID: ownerUserID,
		weekStart:   weekStart,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (p *WeeklyPlaylist) ID() string                { return p.id }
func (p *WeeklyPlaylist) Sequence() int             { return p.sequence }
func (p *WeeklyPlaylist) OwnerUserID() string       { return p.ownerUserID }
func (p *WeeklyPlaylist) WeekStart() time.Time      { return p.weekStart }
func (p *WeeklyPlaylist) SpotifyPlaylistID() string { return p.spotifyPlaylistID }
func (p *WeeklyPlaylist) URL() string               { return p.url }
func (p *WeeklyPlaylist) TrackCount() int           { return p.trackCount }
func (p *WeeklyPlaylist) Name() string              { return p.name }
func (p *WeeklyPlaylist) Description() string       { return p.description }
func (p *WeeklyPlaylist) Image() string             { return p.image }
func (p *WeeklyPlaylist) CreatedAt() time.Time      { return p.createdAt }
func (p *WeeklyPlaylist) UpdatedAt() time.Time      { return p.updatedAt }

func (p *WeeklyPlaylist) SetID(id string)                { p.id = id }
func (p *WeeklyPlaylist) SetSequence(sequence int)       { p.sequence = sequence }
func (p *WeeklyPlaylist) SetUpdatedAt(t time.Time)       { p.updatedAt = t }
func (p *WeeklyPlaylist) SetSpotifyPlaylistID(id string) { p.spotifyPlaylistID = id }
func (p *WeeklyPlaylist) SetURL(url string)              { p.url = url }
func (p *WeeklyPlaylist) SetTrackCount(n int)            { p.trackCount = n }
func (p *WeeklyPlaylist) SetName(name string)            { p.name = name }
func (p *WeeklyPlaylist) SetDescription(desc string)     { p.description = desc }
func (p *WeeklyPlaylist) SetImage(image string)          { p.image = image }

// Validate checks the fields required before persisting a sync result.
func (p *WeeklyPlaylist) Validate() error {
	if p.ownerUserID == "" {
		return fmt.Errorf("playlist missing owner user id")
	}
	if p.weekStart.IsZero() {
		return fmt.Errorf("playlist missing week start")
	}
	if p.spotifyPlaylistID == "" {
		return fmt.Errorf("playlist missing spotify playlist id")
	}
	if p.url == "" {
		return fmt.Errorf("playlist missing url")
	}
	return nil
}
