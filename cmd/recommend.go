package main

import (
	"context"

	"github.com/desertthunder/mixweek/internal/formatter"
	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/urfave/cli/v3"
)

// Recommend scores track suggestions from recent friend activity.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	showStats := cmd.Bool("stats")
	exportFormat := cmd.String("export")
	outputFile := cmd.String("output")

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
	recommendations, err := r.engine.Recommend(ctx, user.ID(), now)
	if err != nil {
		return err
	}

	if exportFormat != "" {
		written, err := formatter.WriteRecommendationsExport(recommendations, shared.WeekStart(now), exportFormat, outputFile)
		if err != nil {
			return err
		}
		r.logger.Infof("recommendations exported to %v with %v tracks", written, len(recommendations))
		r.writePlain("✓ Recommendations exported to %s\n", written)
		r.writePlain("  Tracks: %d\n", len(recommendations))
		return nil
	}

	if useJSON {
		return r.writeJSON(recommendations, pretty)
	}

	if showStats {
		stats, err := r.engine.Stats(ctx, user.ID(), now)
		if err != nil {
			return err
		}
		r.writePlain("Based on %d friends and %d songs over the last %d weeks\n\n",
			stats.FriendCount, stats.SongsAnalyzed, stats.WeeksAnalyzed)
	}

	if len(recommendations) == 0 {
		r.writePlain("No recommendations this week. Add friends or wait for more picks.\n")
		return nil
	}

	r.writePlain("Recommended for you (%d):\n\n", len(recommendations))
	for i, rec := range recommendations {
		r.writePlain("%d. [%d] %s - %s\n", i+1, rec.Score, rec.Title, rec.Artist)
		r.writePlain("   %s\n", rec.Reason)
		r.writePlain("\n")
	}

	return nil
}
