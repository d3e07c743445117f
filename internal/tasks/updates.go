package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LoadFeed Phase = iota
	BuildRecommendations
	CreatePlaylist
	UpdatePlaylist
	FetchImage
	PersistRecord
)

func (p Phase) String() string {
	switch p {
	case LoadFeed:
		return "load_feed"
	case BuildRecommendations:
		return "build_recommendations"
	case CreatePlaylist:
		return "create_playlist"
	case UpdatePlaylist:
		return "update_playlist"
	case FetchImage:
		return "fetch_image"
	case PersistRecord:
		return "persist_record"
	default:
		return ""
	}
}

func loadFeedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadFeed,
		Step:    step,
		Total:   total,
		Message: "Loading this week's friend picks...",
	}
}

func recommendationsUpdate(step, total, needed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildRecommendations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Topping up with recommendations (%d slots)...", needed),
	}
}

func createPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist: %s", name),
	}
}

func updatePlaylistUpdate(step, total, trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Replacing playlist contents (%d tracks)...", trackCount),
	}
}

func fetchImageUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchImage,
		Step:    step,
		Total:   total,
		Message: "Fetching playlist cover image...",
	}
}

func persistRecordUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistRecord,
		Step:    step,
		Total:   total,
		Message: "Saving weekly playlist record...",
	}
}
