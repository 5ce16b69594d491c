package focus

import (
	"errors"
	"sync"
	"time"

	"studyzen-backend/internal/models"
)

// Presets are the selectable focus durations in minutes.
var Presets = []int{25, 45, 60}

const DefaultPresetMinutes = 25

var ErrInvalidPreset = errors.New("preset must be 25, 45 or 60 minutes")

// CommitFunc receives elapsed whole minutes when a timer run produces
// creditable focus time.
type CommitFunc func(elapsedMinutes int)

// NotifyFunc observes externally visible timer state changes.
type NotifyFunc func(models.TimerState)

// Timer is the countdown state machine for one user. All transitions
// run under a single mutex, so a tick always observes the state left
// by the immediately preceding transition. The ticker goroutine is
// stopped on every transition that leaves the running state; an
// orphaned ticker can never keep mutating state.
type Timer struct {
	mu               sync.Mutex
	presetMinutes    int
	remainingSeconds int
	active           bool
	stop             chan struct{}

	commit CommitFunc
	notify NotifyFunc
}

func NewTimer(commit CommitFunc, notify NotifyFunc) *Timer {
	return &Timer{
		presetMinutes:    DefaultPresetMinutes,
		remainingSeconds: DefaultPresetMinutes * 60,
		commit:           commit,
		notify:           notify,
	}
}

// Start moves an idle or paused timer into the running state and
// begins ticking. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	t.active = true
	t.startTickerLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.publish(snap)
}

// Pause stops ticking but keeps the partial countdown. Pausing a
// non-running timer is a no-op.
func (t *Timer) Pause() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.active = false
	t.stopTickerLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.publish(snap)
}

// Toggle pauses a running timer and starts an idle or paused one.
func (t *Timer) Toggle() {
	t.mu.Lock()
	active := t.active
	t.mu.Unlock()
	if active {
		t.Pause()
	} else {
		t.Start()
	}
}

// Tick advances the countdown by one second. When the countdown hits
// zero the run completed naturally: the full preset is credited (not
// an elapsed computation) and the timer resets.
func (t *Timer) Tick() {
	t.mu.Lock()
	if !t.active || t.remainingSeconds <= 0 {
		t.mu.Unlock()
		return
	}
	t.remainingSeconds--
	if t.remainingSeconds > 0 {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.publish(snap)
		return
	}

	// Natural completion. remainingSeconds stays 0 until Reset below.
	t.active = false
	t.stopTickerLocked()
	preset := t.presetMinutes
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.publish(snap)
	if t.commit != nil {
		t.commit(preset)
	}
	t.Reset()
}

// Finish ends a running timer early, crediting the elapsed whole
// minutes. Under one full minute nothing is committed; the timer
// silently resets either way. Finish on a non-running timer is a
// no-op.
func (t *Timer) Finish() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	elapsedMinutes := (t.presetMinutes*60 - t.remainingSeconds) / 60
	t.active = false
	t.stopTickerLocked()
	t.mu.Unlock()

	if elapsedMinutes > 0 && t.commit != nil {
		t.commit(elapsedMinutes)
	}
	t.Reset()
}

// Reset returns the timer to idle with the full preset loaded. Safe
// from any state and idempotent.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.active = false
	t.stopTickerLocked()
	t.remainingSeconds = t.presetMinutes * 60
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.publish(snap)
}

// SetPreset switches the focus duration. A running timer is stopped
// and its in-progress time discarded without a commit.
func (t *Timer) SetPreset(minutes int) error {
	valid := false
	for _, p := range Presets {
		if p == minutes {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidPreset
	}

	t.mu.Lock()
	t.active = false
	t.stopTickerLocked()
	t.presetMinutes = minutes
	t.remainingSeconds = minutes * 60
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.publish(snap)
	return nil
}

// Close stops the ticker goroutine on teardown (logout, shutdown).
// No commit happens; the state is simply abandoned.
func (t *Timer) Close() {
	t.mu.Lock()
	t.active = false
	t.stopTickerLocked()
	t.mu.Unlock()
}

func (t *Timer) Snapshot() models.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() models.TimerState {
	return models.TimerState{
		RemainingSeconds: t.remainingSeconds,
		PresetMinutes:    t.presetMinutes,
		IsActive:         t.active,
	}
}

func (t *Timer) startTickerLocked() {
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
}

func (t *Timer) stopTickerLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

func (t *Timer) publish(snap models.TimerState) {
	if t.notify != nil {
		t.notify(snap)
	}
}
