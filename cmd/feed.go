package main

import (
	"context"

	"github.com/desertthunder/mixweek/internal/formatter"
	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/urfave/cli/v3"
)

// Feed displays the aggregated friend picks for the current week.
func (r *Runner) Feed(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	exportFormat := cmd.String("export")
	outputFile := cmd.String("output")

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	now := r.now()
	feed, err := r.engine.CurrentWeekFeed(ctx, user.ID(), now)
	if err != nil {
		return err
	}

	weekStart := shared.WeekStart(now)

	if exportFormat != "" {
		written, err := formatter.WriteFeedExport(feed, weekStart, exportFormat, outputFile)
		if err != nil {
			return err
		}
		r.logger.Infof("feed exported to %v with %v tracks", written, len(feed))
		r.writePlain("✓ Feed exported to %s\n", written)
		r.writePlain("  Tracks: %d\n", len(feed))
		return nil
	}

	if useJSON {
		return r.writeJSON(feed, pretty)
	}

	r.writePlainHeader("Weekly Feed: " + shared.FormatWeekRange(weekStart))

	if len(feed) == 0 {
		r.writePlain("Nothing here yet. Your friends have not picked songs this week.\n")
		return nil
	}

	for i, track := range feed {
		r.writePlain("%d. %s - %s\n", i+1, track.Title, track.Artist)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		r.writePlain("   Shared by: %s\n", track.Friend)
		r.writePlain("\n")
	}

	return nil
}
