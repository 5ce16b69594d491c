package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionRecord is one committed block of focus time. Records are
// immutable once created and kept most-recent-first.
type SessionRecord struct {
	ID              uuid.UUID `json:"id"`
	SubjectLabel    string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	CompletedAt     time.Time `json:"completed_at"`
	ColorTag        string    `json:"color"`
	Icon            string    `json:"icon"`
	CategoryTag     string    `json:"tag"`
}

// TimerState is the read model of a user's countdown timer.
type TimerState struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	PresetMinutes    int  `json:"preset_minutes"`
	IsActive         bool `json:"is_active"`
}

// WeekdayHours is one bar of the weekly activity chart, Sunday-first.
type WeekdayHours struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// FocusStats are the cumulative and derived statistics shown on the
// session and profile pages. Derived fields are computed on read,
// never stored.
type FocusStats struct {
	TotalFocusMinutes      int     `json:"total_focus_minutes"`
	TotalSessionsCompleted int     `json:"total_sessions_completed"`
	TotalFocusHours        float64 `json:"total_focus_hours"`
	AvgSessionMinutes      float64 `json:"avg_session_minutes"`
	AvgDailyMinutes        float64 `json:"avg_daily_minutes"`
	GoalProgressPercent    float64 `json:"goal_progress_percent"`
}
