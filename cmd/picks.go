package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/urfave/cli/v3"
)

// PicksSet replaces the signed-in user's picks for the current week.
//
// Each --track flag is a catalog search query; the top match is picked.
func (r *Runner) PicksSet(ctx context.Context, cmd *cli.Command) error {
	queries := cmd.StringSlice("track")

	if len(queries) < models.MinWeeklyTracks || len(queries) > models.MaxWeeklyTracks {
		return fmt.Errorf("%w: pick %d-%d tracks, got %d", shared.ErrInvalidArgument, models.MinWeeklyTracks, models.MaxWeeklyTracks, len(queries))
	}

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

	tracks := make([]models.TrackSelection, 0, len(queries))
	for _, query := range queries {
		results, err := r.catalog.SearchTracks(ctx, query, 1)
		if err != nil {
			return fmt.Errorf("search for %q failed: %w", query, err)
		}
		if len(results) == 0 {
			return fmt.Errorf("%w: no match for %q", shared.ErrTrackNotFound, query)
		}

		found := results[0]
		tracks = append(tracks, models.TrackSelection{
			SpotifyTrackID: found.ID,
			Title:          found.Name,
			Artist:         found.Artist(),
			Album:          found.Album,
			Image:          found.Image(),
			URI:            found.URI,
		})
	}

	weekStart := shared.WeekStart(r.now())
	selection, err := r.picks.Save(user.ID(), weekStart, tracks)
	if err != nil {
		return err
	}

	r.logger.Infof("saved %v picks for week %v", len(selection.Tracks), weekStart.Format("2006-01-02"))

	r.writePlain("✓ Picks saved for %s\n\n", shared.FormatWeekRange(weekStart))
	for i, track := range selection.Tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Title, track.Artist)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
	}

	return nil
}

// PicksShow displays the signed-in user's picks for the current week.
func (r *Runner) PicksShow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	weekStart := shared.WeekStart(r.now())
	selection, err := r.picks.GetForWeek(user.ID(), weekStart)
	if err != nil {
		return err
	}

	if selection == nil {
		if useJSON {
			return r.writeJSON([]models.TrackSelection{}, pretty)
		}
		r.writePlain("No picks yet for %s\n", shared.FormatWeekRange(weekStart))
		r.writePlain("Set them with: mixweek picks set --track \"your song\"\n")
		return nil
	}

	if useJSON {
		return r.writeJSON(selection.Tracks, pretty)
	}

	r.writePlain("Picks for %s:\n\n", shared.FormatWeekRange(weekStart))
	for i, track := range selection.Tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Title, track.Artist)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
	}

	return nil
}
