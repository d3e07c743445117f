package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/mixweek/internal/server"
	"github.com/desertthunder/mixweek/internal/services"
	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authentication flow for Spotify and
// records the signed-in user.
//
// Starts a local HTTP server, opens the browser for user authorization,
// exchanges the auth code for tokens, then upserts the user record from
// the Spotify profile so the other commands know who is acting.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}

	config := r.config
	if config == nil {
		var err error
		if _, statErr := os.Stat(configPath); statErr == nil {
			config, err = shared.LoadConfig(configPath)
			if err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				config = shared.DefaultConfig()
			}
		} else {
			config = shared.DefaultConfig()
		}
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	spotifyService := r.spotify
	if spotifyService == nil {
		var err error
		spotifyService, err = services.NewSpotifyService(config.Credentials.Spotify.Map())
		if err != nil {
			return fmt.Errorf("failed to create Spotify service: %w", err)
		}
	}

	token, err := r.doOAuth(config, spotifyService)
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	spotifyService.SetCredential(services.CredentialFromToken(token))

	profile, err := spotifyService.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch Spotify profile: %w", err)
	}

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.users.UpsertBySpotifyID(profile.ID, profile.Email, profile.DisplayName, profile.Image())
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	config.App.UserID = user.ID()

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Signed in as %s\n", user.DisplayName())
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: mixweek picks set --track \"your song\"\n")

	return nil
}

// AuthStatus shows the signed-in user and the stored token state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	token := r.config.Credentials.Spotify.Token()
	if token == nil {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		r.writePlain("Run 'mixweek auth login' to connect Spotify\n")
		return nil
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	if token.Expiry.IsZero() {
		r.writePlain("Token expiry: unknown\n")
	} else if token.Expiry.Before(r.now()) {
		r.writePlain("Token expiry: %s (expired, will refresh on next use)\n", token.Expiry.Format(time.RFC3339))
	} else {
		r.writePlain("Token expiry: %s\n", token.Expiry.Format(time.RFC3339))
	}

	if r.config.App.UserID == "" {
		r.writePlain("User: none recorded\n")
		return nil
	}

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.users.Get(r.config.App.UserID)
	if err != nil {
		r.writePlain("User: %s (not found locally, run 'mixweek auth login')\n", r.config.App.UserID)
		return nil
	}

	r.writePlain("User: %s <%s>\n", user.DisplayName(), user.Email())
	r.writePlain("ID: %s\n", user.ID())
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, spotifyService *services.SpotifyService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := spotifyService.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(spotifyService.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
