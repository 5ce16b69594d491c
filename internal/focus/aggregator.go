package focus

import (
	"time"

	"studyzen-backend/internal/models"
)

// weekdayNames is Sunday-first, matching time.Weekday ordering.
var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// weeklyGoalHours is the fixed 40-hour weekly focus goal.
const weeklyGoalHours = 40.0

// Aggregator keeps the cumulative focus totals and the per-weekday
// hours behind the activity chart. It is not safe for concurrent use;
// the owning Committer serializes access.
type Aggregator struct {
	totalFocusMinutes      int
	totalSessionsCompleted int
	weekly                 [7]float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Apply folds one committed record into the totals. The weekday bucket
// is picked from the record's completion time in local time.
func (a *Aggregator) Apply(rec models.SessionRecord) {
	a.totalFocusMinutes += rec.DurationMinutes
	a.totalSessionsCompleted++
	a.weekly[int(rec.CompletedAt.Weekday())] += float64(rec.DurationMinutes) / 60
}

// Reseed restores lifetime totals at login. The weekly chart is seeded
// for the current weekday only, from the lifetime total; it is a coarse
// approximation, not a recomputation from history.
func (a *Aggregator) Reseed(totalMinutes, sessionsCompleted int, hasHistory bool, now time.Time) {
	a.totalFocusMinutes = totalMinutes
	a.totalSessionsCompleted = sessionsCompleted
	a.weekly = [7]float64{}
	if hasHistory {
		a.weekly[int(now.Weekday())] = float64(totalMinutes) / 60
	}
}

func (a *Aggregator) Weekly() []models.WeekdayHours {
	out := make([]models.WeekdayHours, 7)
	for i, name := range weekdayNames {
		out[i] = models.WeekdayHours{Name: name, Hours: a.weekly[i]}
	}
	return out
}

// Stats computes the derived metrics on demand.
func (a *Aggregator) Stats() models.FocusStats {
	stats := models.FocusStats{
		TotalFocusMinutes:      a.totalFocusMinutes,
		TotalSessionsCompleted: a.totalSessionsCompleted,
		TotalFocusHours:        float64(a.totalFocusMinutes) / 60,
		AvgDailyMinutes:        float64(a.totalFocusMinutes) / 7,
	}
	if a.totalSessionsCompleted > 0 {
		stats.AvgSessionMinutes = float64(a.totalFocusMinutes) / float64(a.totalSessionsCompleted)
	}
	progress := stats.TotalFocusHours / weeklyGoalHours * 100
	if progress > 100 {
		progress = 100
	}
	stats.GoalProgressPercent = progress
	return stats
}
