package services

import (
	"context"
)

// Catalog searches the external track catalog.
type Catalog interface {
	// SearchTracks runs a catalog search. The query may use field
	// filters such as artist:"name" as supported by the provider.
	SearchTracks(ctx context.Context, query string, limit int) ([]TrackSummary, error)
}

// PlaylistService manages playlists on the external provider.
type PlaylistService interface {
	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*Profile, error)

	// CreatePlaylist creates a playlist owned by the given provider user.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*CreatedPlaylist, error)

	// ReplaceTracks replaces the playlist's entire contents with the given URIs.
	// An empty slice clears the playlist.
	ReplaceTracks(ctx context.Context, playlistID string, uris []string) error

	// AddTracks appends tracks to the playlist.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Playlist retrieves a playlist by ID.
	Playlist(ctx context.Context, playlistID string) (*PlaylistDetail, error)
}

// TrackSummary is the provider-neutral view of a catalog track.
type TrackSummary struct {
	ID         string
	URI        string
	Name       string
	Artists    []string
	Album      string
	Images     []Image
	DurationMS int
}

// Artist returns the primary artist, or "Unknown" when the track
// carries no artist credit.
func (t TrackSummary) Artist() string {
	if len(t.Artists) == 0 {
		return "Unknown"
	}
	return t.Artists[0]
}

// Image returns the first image URL, or an empty string when none exist.
func (t TrackSummary) Image() string {
	if len(t.Images) == 0 {
		return ""
	}
	return t.Images[0].URL
}

// Profile represents the authenticated provider user.
type Profile struct {
	ID          string
	DisplayName string
	Email       string
	Images      []Image
}

// Image returns the first profile image URL, or an empty string when none exist.
func (p Profile) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Image represents an image resource.
type Image struct {
	URL    string
	Height int
	Width  int
}

// CreatedPlaylist is returned after playlist creation.
type CreatedPlaylist struct {
	ID  string
	URL string
}

// PlaylistDetail is the detail view of an existing playlist.
type PlaylistDetail struct {
	ID     string
	Name   string
	URL    string
	Images []Image
}
