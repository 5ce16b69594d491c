package focus

import (
	"testing"

	"studyzen-backend/internal/models"
)

type recordingSyncer struct {
	snaps []ProfileSnapshot
}

func (s *recordingSyncer) SyncProfile(snap ProfileSnapshot) {
	s.snaps = append(s.snaps, snap)
}

// unavailableSyncer stands in for a store that is down: the sync
// request goes nowhere, exactly as a failed async write would.
type unavailableSyncer struct {
	calls int
}

func (s *unavailableSyncer) SyncProfile(ProfileSnapshot) { s.calls++ }

func TestCommitTotalsInvariant(t *testing.T) {
	syncer := &recordingSyncer{}
	c := NewCommitter("guest_tester", models.ThemePink, syncer)

	durations := []int{25, 10, 45}
	for _, d := range durations {
		if rec := c.Commit(d); rec == nil {
			t.Fatalf("Commit(%d) returned nil record", d)
		}
	}

	stats := c.Stats()
	history := c.History()

	wantTotal := 80
	if stats.TotalFocusMinutes != wantTotal {
		t.Errorf("Expected %d total minutes, got %d", wantTotal, stats.TotalFocusMinutes)
	}
	if stats.TotalSessionsCompleted != len(history) {
		t.Errorf("Expected sessions count %d to equal history length %d", stats.TotalSessionsCompleted, len(history))
	}

	sum := 0
	for _, rec := range history {
		sum += rec.DurationMinutes
	}
	if sum != stats.TotalFocusMinutes {
		t.Errorf("Invariant broken: history sums to %d, totals say %d", sum, stats.TotalFocusMinutes)
	}

	// Most recent first.
	if history[0].DurationMinutes != 45 {
		t.Errorf("Expected newest record first (45), got %d", history[0].DurationMinutes)
	}
}

func TestCommitRejectsNonPositiveMinutes(t *testing.T) {
	syncer := &recordingSyncer{}
	c := NewCommitter("guest_tester", models.ThemeBlue, syncer)

	for _, mins := range []int{0, -1, -60} {
		if rec := c.Commit(mins); rec != nil {
			t.Errorf("Commit(%d): expected nil record, got %+v", mins, rec)
		}
	}
	if len(syncer.snaps) != 0 {
		t.Errorf("Expected no sync requests for rejected commits, got %d", len(syncer.snaps))
	}
	if stats := c.Stats(); stats.TotalSessionsCompleted != 0 {
		t.Errorf("Expected no state change, got %+v", stats)
	}
}

func TestCommitRecordDefaults(t *testing.T) {
	c := NewCommitter("guest_tester", models.ThemeGreen, nil)

	rec := c.Commit(25)
	if rec == nil {
		t.Fatal("Commit returned nil")
	}
	if rec.SubjectLabel != "Focus Session" {
		t.Errorf("Expected default subject, got %q", rec.SubjectLabel)
	}
	if rec.CategoryTag != "Productivity" {
		t.Errorf("Expected default category, got %q", rec.CategoryTag)
	}
	if rec.ColorTag != models.ThemeGreen.Config().ColorTag {
		t.Errorf("Expected color tag from the user's theme, got %q", rec.ColorTag)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("Expected completion timestamp to be set")
	}
}

func TestCommitSnapshotMatchesState(t *testing.T) {
	syncer := &recordingSyncer{}
	c := NewCommitter("guest_tester", models.ThemePink, syncer)

	c.Commit(25)
	c.Commit(30)

	if len(syncer.snaps) != 2 {
		t.Fatalf("Expected 2 sync requests, got %d", len(syncer.snaps))
	}
	last := syncer.snaps[1]
	if last.UID != "guest_tester" {
		t.Errorf("Expected snapshot uid guest_tester, got %q", last.UID)
	}
	if last.TotalMinutes != 55 || last.SessionsCount != 2 {
		t.Errorf("Expected totals (55, 2), got (%d, %d)", last.TotalMinutes, last.SessionsCount)
	}
	if len(last.History) != 2 {
		t.Errorf("Expected full history in snapshot, got %d records", len(last.History))
	}
}

func TestStoreFailureLeavesInMemoryStateAuthoritative(t *testing.T) {
	syncer := &unavailableSyncer{}
	c := NewCommitter("guest_tester", models.ThemePink, syncer)

	c.Commit(25)
	c.Commit(25)

	if syncer.calls != 2 {
		t.Fatalf("Expected 2 persistence attempts, got %d", syncer.calls)
	}
	stats := c.Stats()
	if stats.TotalFocusMinutes != 50 || stats.TotalSessionsCompleted != 2 {
		t.Errorf("Expected in-memory totals (50, 2) despite store failure, got (%d, %d)",
			stats.TotalFocusMinutes, stats.TotalSessionsCompleted)
	}
	if len(c.History()) != 2 {
		t.Errorf("Expected 2 history records despite store failure, got %d", len(c.History()))
	}
}

func TestSeedHydratesFromProfile(t *testing.T) {
	c := NewCommitter("guest_tester", models.ThemePink, nil)

	history := []models.SessionRecord{
		{DurationMinutes: 30},
		{DurationMinutes: 90},
	}
	c.Seed(models.UserProfile{
		UID:                    "guest_tester",
		Theme:                  models.ThemeBlue,
		TotalFocusMinutes:      120,
		TotalSessionsCompleted: 2,
	}, history)

	stats := c.Stats()
	if stats.TotalFocusMinutes != 120 || stats.TotalSessionsCompleted != 2 {
		t.Errorf("Expected seeded totals (120, 2), got (%d, %d)", stats.TotalFocusMinutes, stats.TotalSessionsCompleted)
	}
	if len(c.History()) != 2 {
		t.Errorf("Expected seeded history, got %d records", len(c.History()))
	}

	// New commits stamp the seeded theme.
	rec := c.Commit(25)
	if rec.ColorTag != models.ThemeBlue.Config().ColorTag {
		t.Errorf("Expected seeded theme's color tag, got %q", rec.ColorTag)
	}
}
