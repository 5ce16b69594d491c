package focus

import (
	"testing"
)

type commitRecorder struct {
	commits []int
}

func (r *commitRecorder) fn() CommitFunc {
	return func(mins int) { r.commits = append(r.commits, mins) }
}

func tick(tm *Timer, n int) {
	for i := 0; i < n; i++ {
		tm.Tick()
	}
}

func TestNaturalCompletion(t *testing.T) {
	rec := &commitRecorder{}
	tm := NewTimer(nil, nil)

	// Observe the transient completed state from inside the commit.
	sawZero := false
	tm.commit = func(mins int) {
		rec.commits = append(rec.commits, mins)
		snap := tm.Snapshot()
		if snap.RemainingSeconds == 0 && !snap.IsActive {
			sawZero = true
		}
	}

	tm.Start()
	tick(tm, 1500)

	if len(rec.commits) != 1 {
		t.Fatalf("Expected exactly 1 commit, got %d", len(rec.commits))
	}
	if rec.commits[0] != 25 {
		t.Errorf("Expected natural completion to credit the full 25-minute preset, got %d", rec.commits[0])
	}
	if !sawZero {
		t.Error("Expected remaining seconds to be 0 before the post-completion reset")
	}

	snap := tm.Snapshot()
	if snap.RemainingSeconds != 1500 {
		t.Errorf("Expected remaining seconds restored to 1500 after reset, got %d", snap.RemainingSeconds)
	}
	if snap.IsActive {
		t.Error("Expected timer inactive after natural completion")
	}
}

func TestManualFinish(t *testing.T) {
	rec := &commitRecorder{}
	tm := NewTimer(rec.fn(), nil)

	tm.Start()
	tick(tm, 610)
	tm.Finish()

	if len(rec.commits) != 1 {
		t.Fatalf("Expected 1 commit, got %d", len(rec.commits))
	}
	if rec.commits[0] != 10 {
		t.Errorf("Expected floor(610/60)=10 minutes committed, got %d", rec.commits[0])
	}

	snap := tm.Snapshot()
	if snap.RemainingSeconds != 1500 || snap.IsActive {
		t.Errorf("Expected idle timer with full preset after finish, got %+v", snap)
	}
}

func TestManualFinishUnderOneMinute(t *testing.T) {
	rec := &commitRecorder{}
	tm := NewTimer(rec.fn(), nil)

	tm.Start()
	tick(tm, 59)
	tm.Finish()

	if len(rec.commits) != 0 {
		t.Errorf("Expected no commit for under one elapsed minute, got %v", rec.commits)
	}
	snap := tm.Snapshot()
	if snap.RemainingSeconds != 1500 || snap.IsActive {
		t.Errorf("Expected silent reset, got %+v", snap)
	}
}

func TestFinishWhenNotRunningIsNoop(t *testing.T) {
	rec := &commitRecorder{}
	tm := NewTimer(rec.fn(), nil)

	tm.Finish()
	tm.Start()
	tick(tm, 120)
	tm.Pause()
	tm.Finish()

	if len(rec.commits) != 0 {
		t.Errorf("Expected no commits from non-running finishes, got %v", rec.commits)
	}
}

func TestPresetChangeDiscardsProgress(t *testing.T) {
	rec := &commitRecorder{}
	tm := NewTimer(rec.fn(), nil)

	tm.Start()
	tick(tm, 100)
	if err := tm.SetPreset(45); err != nil {
		t.Fatalf("SetPreset(45) returned error: %v", err)
	}

	if len(rec.commits) != 0 {
		t.Errorf("Expected no commit on preset change, got %v", rec.commits)
	}
	snap := tm.Snapshot()
	if snap.RemainingSeconds != 2700 {
		t.Errorf("Expected 2700 remaining seconds, got %d", snap.RemainingSeconds)
	}
	if snap.IsActive {
		t.Error("Expected timer inactive after preset change")
	}
	if snap.PresetMinutes != 45 {
		t.Errorf("Expected preset 45, got %d", snap.PresetMinutes)
	}
}

func TestSetPresetRejectsUnknownDuration(t *testing.T) {
	tests := []int{0, -5, 30, 90}
	for _, mins := range tests {
		tm := NewTimer(nil, nil)
		if err := tm.SetPreset(mins); err != ErrInvalidPreset {
			t.Errorf("SetPreset(%d): expected ErrInvalidPreset, got %v", mins, err)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	tm := NewTimer(nil, nil)
	tm.Start()
	tick(tm, 300)

	tm.Reset()
	first := tm.Snapshot()
	tm.Reset()
	second := tm.Snapshot()

	if first != second {
		t.Errorf("Expected identical state after repeated reset: %+v vs %+v", first, second)
	}
	if first.RemainingSeconds != 1500 || first.IsActive {
		t.Errorf("Expected idle full-preset state, got %+v", first)
	}
}

func TestRemainingSecondsStaysInBounds(t *testing.T) {
	tm := NewTimer(nil, nil)

	// Ticking an idle timer must not decrement.
	tick(tm, 10)
	if snap := tm.Snapshot(); snap.RemainingSeconds != 1500 {
		t.Errorf("Expected idle tick to be a no-op, got %d remaining", snap.RemainingSeconds)
	}

	tm.Start()
	low := 1500
	for i := 0; i < 3000; i++ {
		tm.Tick()
		snap := tm.Snapshot()
		if snap.RemainingSeconds < 0 || snap.RemainingSeconds > snap.PresetMinutes*60 {
			t.Fatalf("Remaining seconds out of bounds: %+v", snap)
		}
		if snap.RemainingSeconds < low {
			low = snap.RemainingSeconds
		}
	}
	if low < 0 {
		t.Errorf("Remaining seconds went negative: %d", low)
	}
}

func TestToggle(t *testing.T) {
	tm := NewTimer(nil, nil)

	tm.Toggle()
	if !tm.Snapshot().IsActive {
		t.Fatal("Expected toggle from idle to start the timer")
	}
	tick(tm, 30)
	tm.Toggle()
	snap := tm.Snapshot()
	if snap.IsActive {
		t.Fatal("Expected toggle from running to pause the timer")
	}
	if snap.RemainingSeconds != 1470 {
		t.Errorf("Expected pause to retain partial countdown, got %d", snap.RemainingSeconds)
	}
	tm.Toggle()
	if !tm.Snapshot().IsActive {
		t.Error("Expected toggle from paused to resume")
	}
	tm.Close()
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	tm := NewTimer(nil, nil)
	tm.Start()
	tick(tm, 5)
	tm.Start()
	if snap := tm.Snapshot(); snap.RemainingSeconds != 1495 {
		t.Errorf("Expected start on a running timer to change nothing, got %d remaining", snap.RemainingSeconds)
	}
	tm.Close()
}
