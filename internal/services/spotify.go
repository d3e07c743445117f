// Spotify API implementation of [Catalog] and [PlaylistService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/mixweek/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify rejects track batches larger than this on playlist writes
	maxTracksPerRequest = 100

	// requests per second against the Web API
	defaultRateLimit = 10
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Public       bool           `json:"public"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Images       []SpotifyImage `json:"images"`
	URI          string         `json:"uri"`
}

type searchTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

type searchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type trackURIsRequest struct {
	URIs []string `json:"uris"`
}

// SpotifyService implements [Catalog] and [PlaylistService] against the
// Spotify Web API. The credential is passed in explicitly and checked
// before each request; an expired one fails fast with
// [shared.ErrTokenExpired] so the caller can refresh or reauthorize.
type SpotifyService struct {
	config     *oauth2.Config
	cred       Credential
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	clock      func() time.Time
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-email",
			"user-read-private",
			"playlist-modify-private",
			"playlist-modify-public",
			"ugc-image-upload",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		baseURL:    spotifyBaseURL,
		clock:      time.Now,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig exposes the OAuth2 config for the refresh flow.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a credential.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (Credential, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	return CredentialFromToken(token), nil
}

// SetCredential installs the credential used for subsequent requests.
func (s *SpotifyService) SetCredential(cred Credential) {
	s.cred = cred
}

// Credential returns the currently installed credential.
func (s *SpotifyService) Credential() Credential {
	return s.cred
}

// doRequest performs an authenticated HTTP request to the Spotify API.
// A non-nil body is encoded as JSON; a non-nil result decodes the response.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.cred.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}
	if !s.cred.Valid(s.clock()) {
		return shared.ErrTokenExpired
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// checkStatus maps Spotify status codes to the shared error sentinels
func checkStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return shared.ErrTokenExpired
	case status == http.StatusNotFound:
		return shared.ErrPlaylistNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, status)
	default:
		return fmt.Errorf("%w: status %d", shared.ErrExternalService, status)
	}
}

// SearchTracks runs a track search. Field filters such as artist:"name"
// pass through to the API unchanged.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]TrackSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response searchResponse
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]TrackSummary, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, summarize(item))
	}

	return tracks, nil
}

// Profile retrieves the current authenticated user's profile.
func (s *SpotifyService) Profile(ctx context.Context) (*Profile, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "GET", "/me", nil, &user); err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}
	for _, img := range user.Images {
		profile.Images = append(profile.Images, Image(img))
	}

	return profile, nil
}

// CreatePlaylist creates a playlist for the given Spotify user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*CreatedPlaylist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	request := createPlaylistRequest{Name: name, Description: description, Public: public}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "POST", endpoint, request, &playlist); err != nil {
		return nil, err
	}

	created := &CreatedPlaylist{ID: playlist.ID, URL: playlist.ExternalURLs.Spotify}
	if created.URL == "" {
		created.URL = "https://open.spotify.com/playlist/" + playlist.ID
	}

	return created, nil
}

// ReplaceTracks replaces the playlist's contents with the given URIs.
// The first batch replaces, the rest append.
func (s *SpotifyService) ReplaceTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	// uris must encode as an array, never null
	first := uris
	if first == nil {
		first = []string{}
	}
	if len(first) > maxTracksPerRequest {
		first = uris[:maxTracksPerRequest]
	}

	if err := s.doRequest(ctx, "PUT", endpoint, trackURIsRequest{URIs: first}, nil); err != nil {
		return err
	}

	if len(uris) > maxTracksPerRequest {
		return s.AddTracks(ctx, playlistID, uris[maxTracksPerRequest:])
	}

	return nil
}

// AddTracks appends tracks to the playlist, batching per API limits.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += maxTracksPerRequest {
		end := start + maxTracksPerRequest
		if end > len(uris) {
			end = len(uris)
		}

		if err := s.doRequest(ctx, "POST", endpoint, trackURIsRequest{URIs: uris[start:end]}, nil); err != nil {
			return err
		}
	}

	return nil
}

// Playlist retrieves a playlist by ID.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*PlaylistDetail, error) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "GET", endpoint, nil, &playlist); err != nil {
		return nil, err
	}

	detail := &PlaylistDetail{
		ID:   playlist.ID,
		Name: playlist.Name,
		URL:  playlist.ExternalURLs.Spotify,
	}
	for _, img := range playlist.Images {
		detail.Images = append(detail.Images, Image(img))
	}

	return detail, nil
}

func summarize(track SpotifyTrack) TrackSummary {
	summary := TrackSummary{
		ID:         track.ID,
		URI:        track.URI,
		Name:       track.Name,
		Album:      track.Album.Name,
		DurationMS: track.DurationMS,
	}
	for _, artist := range track.Artists {
		summary.Artists = append(summary.Artists, artist.Name)
	}
	for _, img := range track.Album.Images {
		summary.Images = append(summary.Images, Image(img))
	}
	return summary
}
