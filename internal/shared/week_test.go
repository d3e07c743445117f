package shared

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	// Monday Jan 6 2025 is the anchor week
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

	t.Run("Every Day Of The Week Maps To Its Monday", func(t *testing.T) {
		for day := 0; day < 7; day++ {
			instant := monday.AddDate(0, 0, day).Add(15*time.Hour + 42*time.Minute)
			got := WeekStart(instant)
			if !got.Equal(monday) {
				t.Errorf("day offset %d: expected %v, got %v", day, monday, got)
			}
		}
	})

	t.Run("Sunday Belongs To Prior Week", func(t *testing.T) {
		sunday := time.Date(2025, time.January, 12, 23, 59, 59, 0, time.UTC)
		got := WeekStart(sunday)
		if !got.Equal(monday) {
			t.Errorf("expected %v, got %v", monday, got)
		}
	})

	t.Run("Monday Midnight Maps To Itself", func(t *testing.T) {
		if got := WeekStart(monday); !got.Equal(monday) {
			t.Errorf("expected %v, got %v", monday, got)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		instant := time.Date(2025, time.March, 20, 8, 30, 0, 0, time.UTC)
		once := WeekStart(instant)
		twice := WeekStart(once)
		if !once.Equal(twice) {
			t.Errorf("expected %v, got %v", once, twice)
		}
	})

	t.Run("Truncates To Midnight", func(t *testing.T) {
		got := WeekStart(time.Date(2025, time.July, 9, 13, 1, 2, 3, time.UTC))
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
			t.Errorf("expected midnight, got %v", got)
		}
		if got.Weekday() != time.Monday {
			t.Errorf("expected Monday, got %v", got.Weekday())
		}
	})

	t.Run("Year Boundary", func(t *testing.T) {
		// Thursday Jan 1 2026 belongs to the week of Monday Dec 29 2025
		got := WeekStart(time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC))
		want := time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestFormatWeekRange(t *testing.T) {
	weekStart := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	got := FormatWeekRange(weekStart)
	want := "Jan 6, 2025 - Jan 12, 2025"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
