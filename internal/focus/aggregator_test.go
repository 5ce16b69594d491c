package focus

import (
	"math"
	"testing"
	"time"

	"studyzen-backend/internal/models"
)

func TestApplyFillsCurrentWeekdayBucket(t *testing.T) {
	agg := NewAggregator()
	completedAt := time.Date(2026, 8, 26, 14, 30, 0, 0, time.Local) // a Wednesday

	agg.Apply(models.SessionRecord{DurationMinutes: 30, CompletedAt: completedAt})

	weekly := agg.Weekly()
	for i, day := range weekly {
		want := 0.0
		if day.Name == "Wed" {
			want = 0.5
		}
		if math.Abs(day.Hours-want) > 1e-9 {
			t.Errorf("Day %d (%s): expected %.2f hours, got %.2f", i, day.Name, want, day.Hours)
		}
	}
}

func TestWeeklyIsSundayFirst(t *testing.T) {
	want := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	weekly := NewAggregator().Weekly()
	if len(weekly) != 7 {
		t.Fatalf("Expected 7 buckets, got %d", len(weekly))
	}
	for i, day := range weekly {
		if day.Name != want[i] {
			t.Errorf("Bucket %d: expected %s, got %s", i, want[i], day.Name)
		}
	}
}

func TestStatsDerivedMetrics(t *testing.T) {
	agg := NewAggregator()

	empty := agg.Stats()
	if empty.AvgSessionMinutes != 0 {
		t.Errorf("Expected 0 average session minutes with no sessions, got %f", empty.AvgSessionMinutes)
	}

	now := time.Now()
	agg.Apply(models.SessionRecord{DurationMinutes: 25, CompletedAt: now})
	agg.Apply(models.SessionRecord{DurationMinutes: 45, CompletedAt: now})

	stats := agg.Stats()
	if stats.TotalFocusMinutes != 70 {
		t.Errorf("Expected 70 total minutes, got %d", stats.TotalFocusMinutes)
	}
	if math.Abs(stats.AvgSessionMinutes-35) > 1e-9 {
		t.Errorf("Expected 35 average session minutes, got %f", stats.AvgSessionMinutes)
	}
	if math.Abs(stats.AvgDailyMinutes-10) > 1e-9 {
		t.Errorf("Expected 10 average daily minutes, got %f", stats.AvgDailyMinutes)
	}
	wantProgress := (70.0 / 60) / 40 * 100
	if math.Abs(stats.GoalProgressPercent-wantProgress) > 1e-9 {
		t.Errorf("Expected %.4f%% goal progress, got %.4f%%", wantProgress, stats.GoalProgressPercent)
	}
}

func TestGoalProgressCapsAtHundred(t *testing.T) {
	agg := NewAggregator()
	agg.Apply(models.SessionRecord{DurationMinutes: 60 * 100, CompletedAt: time.Now()})
	if got := agg.Stats().GoalProgressPercent; got != 100 {
		t.Errorf("Expected goal progress capped at 100, got %f", got)
	}
}

func TestReseed(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local) // a Friday

	tests := []struct {
		name         string
		totalMinutes int
		sessions     int
		hasHistory   bool
		wantFriday   float64
	}{
		{"with history seeds current weekday", 120, 4, true, 2.0},
		{"without history leaves chart empty", 120, 4, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Apply(models.SessionRecord{DurationMinutes: 999, CompletedAt: now})

			agg.Reseed(tc.totalMinutes, tc.sessions, tc.hasHistory, now)

			stats := agg.Stats()
			if stats.TotalFocusMinutes != tc.totalMinutes {
				t.Errorf("Expected %d total minutes, got %d", tc.totalMinutes, stats.TotalFocusMinutes)
			}
			if stats.TotalSessionsCompleted != tc.sessions {
				t.Errorf("Expected %d sessions, got %d", tc.sessions, stats.TotalSessionsCompleted)
			}
			for _, day := range agg.Weekly() {
				want := 0.0
				if day.Name == "Fri" {
					want = tc.wantFriday
				}
				if math.Abs(day.Hours-want) > 1e-9 {
					t.Errorf("%s: expected %.2f hours, got %.2f", day.Name, want, day.Hours)
				}
			}
		})
	}
}
