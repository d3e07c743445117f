package main

import (
	"context"
	"sync"

	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/desertthunder/mixweek/internal/tasks"
	"github.com/desertthunder/mixweek/internal/ui"
	"github.com/urfave/cli/v3"
)

// Sync builds or updates this week's Spotify playlist from the feed.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	quiet := cmd.Bool("quiet")

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	if err := r.ensureAuthenticated(ctx); err != nil {
		return err
	}

	now := r.now()
	weekRange := shared.FormatWeekRange(shared.WeekStart(now))

	if !quiet && !useJSON {
		r.writePlainHeader("Syncing playlist for " + weekRange)
	}

	// Progress sends are non-blocking, so the drain goroutine only has
	// to keep the buffer from filling.
	var progress chan tasks.ProgressUpdate
	var wg sync.WaitGroup
	if !quiet && !useJSON {
		progress = make(chan tasks.ProgressUpdate, 16)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for update := range progress {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}()
	}

	result, err := r.engine.Synchronize(ctx, user.ID(), now, progress)
	if progress != nil {
		close(progress)
	}
	wg.Wait()

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlainln("✓ Playlist synced")
	r.writePlain("  URL: %s\n", result.URL)
	r.writePlain("  Tracks: %d (%d from friends, %d recommended)\n",
		result.TrackCount, result.FriendTrackCount, result.RecommendedTrackCount)
	if result.RecommendationsSkipped {
		r.writePlain("  %s\n", ui.Styles.Warn("⚠ Recommendations were unavailable and were skipped"))
	}
	if result.ImageSkipped {
		r.writePlain("  %s\n", ui.Styles.Warn("⚠ Cover image could not be fetched"))
	}

	return nil
}

// Playlist shows the synced playlist record for the current week.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	now := r.now()
	record, err := r.engine.WeeklyPlaylist(user.ID(), now)
	if err != nil {
		return err
	}

	weekRange := shared.FormatWeekRange(shared.WeekStart(now))

	if record == nil {
		if useJSON {
			return r.writeJSON(nil, pretty)
		}
		r.writePlain("No playlist synced for %s yet\n", weekRange)
		r.writePlain("Create one with: mixweek sync\n")
		return nil
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"name":        record.Name(),
			"url":         record.URL(),
			"track_count": record.TrackCount(),
			"week_start":  record.WeekStart(),
			"updated_at":  record.UpdatedAt(),
		}, pretty)
	}

	r.writePlain("%s\n", record.Name())
	if record.Description() != "" {
		r.writePlain("%s\n", record.Description())
	}
	r.writePlain("\nURL: %s\n", record.URL())
	r.writePlain("Tracks: %d\n", record.TrackCount())
	r.writePlain("Last synced: %s\n", record.UpdatedAt().Format("Jan 2, 2006 15:04"))

	return nil
}
