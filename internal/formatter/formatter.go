// package formatter provides functions to export the weekly feed and recommendations to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

// FeedToCSV converts a weekly feed to CSV format with columns: ID, Title, Artist, Album, Friend, AddedAt, Recommended
func FeedToCSV(feed []models.FeedTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Friend", "AddedAt", "Recommended"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range feed {
		record := []string{
			track.SpotifyTrackID,
			track.Title,
			track.Artist,
			track.Album,
			track.Friend,
			track.AddedAt.Format(time.RFC3339),
			strconv.FormatBool(track.IsRecommendation),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// FeedToMarkdown converts a weekly feed to Markdown format
func FeedToMarkdown(feed []models.FeedTrack, weekStart time.Time) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Weekly Feed: %s\n\n", shared.FormatWeekRange(weekStart)))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(feed)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range feed {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s *(shared by %s)*\n", i+1, track.Artist, track.Title, albumPart, track.Friend))
	}

	return buf.Bytes(), nil
}

// FeedToText converts a weekly feed to plain text format
func FeedToText(feed []models.FeedTrack, weekStart time.Time) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Week: %s\n", shared.FormatWeekRange(weekStart)))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(feed)))

	for i, track := range feed {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (from %s)\n", i+1, track.Artist, track.Title, track.Friend))
	}

	return buf.Bytes(), nil
}

// RecommendationsToCSV converts scored recommendations to CSV format with columns: ID, Title, Artist, Album, Score, Reason
func RecommendationsToCSV(recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Score", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range recs {
		record := []string{
			rec.ID,
			rec.Title,
			rec.Artist,
			rec.Album,
			strconv.Itoa(rec.Score),
			rec.Reason,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecommendationsToText converts scored recommendations to plain text format
func RecommendationsToText(recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Recommendations: %d\n\n", len(recs)))
	for i, rec := range recs {
		buf.WriteString(fmt.Sprintf("%d. [%d] %s - %s\n   %s\n", i+1, rec.Score, rec.Artist, rec.Title, rec.Reason))
	}

	return buf.Bytes(), nil
}

// WriteFeedExport writes the feed in the given format ("csv", "markdown", or "text").
//
// Defaults the filename to feed_{week start date} with a format-appropriate extension.
func WriteFeedExport(feed []models.FeedTrack, weekStart time.Time, format, filepath string) (string, error) {
	var data []byte
	var ext string
	var err error

	switch format {
	case "csv":
		data, err = FeedToCSV(feed)
		ext = ".csv"
	case "markdown", "md":
		data, err = FeedToMarkdown(feed, weekStart)
		ext = ".md"
	case "text", "txt", "":
		data, err = FeedToText(feed, weekStart)
		ext = ".txt"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", err
	}

	if filepath == "" {
		filepath = fmt.Sprintf("feed_%s%s", weekStart.Format("2006-01-02"), ext)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

// WriteRecommendationsExport writes scored recommendations in the given
// format ("csv" or "text").
//
// Defaults the filename to recommendations_{week start date} with a
// format-appropriate extension.
func WriteRecommendationsExport(recs []models.Recommendation, weekStart time.Time, format, filepath string) (string, error) {
	var data []byte
	var ext string
	var err error

	switch format {
	case "csv":
		data, err = RecommendationsToCSV(recs)
		ext = ".csv"
	case "text", "txt", "":
		data, err = RecommendationsToText(recs)
		ext = ".txt"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", err
	}

	if filepath == "" {
		filepath = fmt.Sprintf("recommendations_%s%s", weekStart.Format("2006-01-02"), ext)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
