package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/repositories"
	"github.com/desertthunder/mixweek/internal/services"
	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/desertthunder/mixweek/internal/tasks"
	"github.com/desertthunder/mixweek/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    *services.SpotifyService
	catalog    services.Catalog
	external   services.PlaylistService
	db         *sql.DB
	users      *repositories.UserRepository
	friends    *repositories.FriendshipRepository
	picks      *repositories.SelectionRepository
	playlists  *repositories.PlaylistRepository
	engine     *tasks.Engine
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog and External default to the Spotify service when unset; tests
// substitute mocks. DB is optional and opened lazily from config when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    *services.SpotifyService
	Catalog    services.Catalog
	External   services.PlaylistService
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Catalog == nil && opts.Spotify != nil {
		opts.Catalog = opts.Spotify
	}
	if opts.External == nil && opts.Spotify != nil {
		opts.External = opts.Spotify
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		catalog:    opts.Catalog,
		external:   opts.External,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
	}

	if opts.DB != nil {
		r.attachStores(opts.DB)
	}

	return r
}

// attachStores wires repositories and the task engine onto an open database.
func (r *Runner) attachStores(db *sql.DB) {
	r.db = db
	r.users = repositories.NewUserRepository(db)
	r.friends = repositories.NewFriendshipRepository(db)
	r.picks = repositories.NewSelectionRepository(db)
	r.playlists = repositories.NewPlaylistRepository(db)
	r.engine = tasks.NewEngine(r.users, r.friends, r.picks, r.playlists, r.catalog, r.external, r.logger, r.appName())
}

// ensureStores opens the configured database on first use.
func (r *Runner) ensureStores() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.attachStores(db)
	return nil
}

func (r *Runner) appName() string {
	if r.config != nil && r.config.App.Name != "" {
		return r.config.App.Name
	}
	return "Mixweek"
}

// currentUser resolves the acting user recorded by the auth command.
func (r *Runner) currentUser() (*models.User, error) {
	if r.config.App.UserID == "" {
		return nil, fmt.Errorf("%w: run 'mixweek auth login' first", shared.ErrUnauthorized)
	}
	user, err := r.users.Get(r.config.App.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: run 'mixweek auth login' again", shared.ErrUserNotFound)
	}
	return user, nil
}

// ensureAuthenticated loads stored tokens into the Spotify service,
// refreshing and persisting them when expired.
func (r *Runner) ensureAuthenticated(ctx context.Context) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized, check config.toml credentials", shared.ErrServiceUnavailable)
	}

	token := r.config.Credentials.Spotify.Token()
	if token == nil {
		return fmt.Errorf("%w: run 'mixweek auth login' first", shared.ErrNotAuthenticated)
	}

	cred := services.CredentialFromToken(token)
	fresh, err := services.Refresh(ctx, r.spotify.OAuthConfig(), cred, r.now())
	if err != nil {
		return fmt.Errorf("%w: run 'mixweek auth login' again", err)
	}

	if fresh.AccessToken != cred.AccessToken {
		r.logger.Info("access token refreshed")
		if err := r.config.Credentials.Spotify.Update(fresh.Token()); err != nil {
			return fmt.Errorf("failed to update spotify configuration: %w", err)
		}
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			r.logger.Warn("failed to persist refreshed tokens", "error", err)
		}
	}

	r.spotify.SetCredential(fresh)
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, friendsCommand, picksCommand, feedCommand, recommendCommand, syncCommand, playlistCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
