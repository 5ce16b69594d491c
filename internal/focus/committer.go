package focus

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"studyzen-backend/internal/models"
)

const (
	defaultSubject  = "Focus Session"
	defaultCategory = "Productivity"
	defaultIcon     = "✨"
)

// ProfileSnapshot is the state handed to the persistence layer after a
// commit: the new lifetime totals plus the full most-recent-first
// history.
type ProfileSnapshot struct {
	UID           string                 `json:"uid"`
	TotalMinutes  int                    `json:"total_minutes"`
	SessionsCount int                    `json:"sessions_count"`
	History       []models.SessionRecord `json:"history"`
}

// Syncer mirrors committed state to durable storage. Implementations
// are best-effort: a commit never waits on them and never learns
// whether they succeeded.
type Syncer interface {
	SyncProfile(snap ProfileSnapshot)
}

// Committer turns elapsed focus time into session records and owns the
// per-user history and aggregator. In-memory state is authoritative
// for the lifetime of a login; the store is an eventually-updated
// mirror.
type Committer struct {
	mu      sync.Mutex
	uid     string
	theme   models.Theme
	history []models.SessionRecord
	agg     *Aggregator
	syncer  Syncer
	now     func() time.Time
}

func NewCommitter(uid string, theme models.Theme, syncer Syncer) *Committer {
	return &Committer{
		uid:    uid,
		theme:  theme,
		agg:    NewAggregator(),
		syncer: syncer,
		now:    time.Now,
	}
}

// Seed hydrates the committer from a loaded profile at login.
func (c *Committer) Seed(profile models.UserProfile, history []models.SessionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append([]models.SessionRecord(nil), history...)
	c.theme = profile.Theme
	c.agg.Reseed(profile.TotalFocusMinutes, profile.TotalSessionsCompleted, len(history) > 0, c.now())
}

func (c *Committer) SetTheme(theme models.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = theme
}

// Commit converts elapsed whole minutes into a record, prepends it to
// the history, applies the aggregator and requests persistence.
// Non-positive input is a no-op, not an error. Persistence is
// requested after the in-memory state is already updated and cannot
// roll it back.
func (c *Committer) Commit(elapsedMinutes int) *models.SessionRecord {
	if elapsedMinutes <= 0 {
		return nil
	}

	c.mu.Lock()
	rec := models.SessionRecord{
		ID:              uuid.New(),
		SubjectLabel:    defaultSubject,
		DurationMinutes: elapsedMinutes,
		CompletedAt:     c.now(),
		ColorTag:        c.theme.Config().ColorTag,
		Icon:            defaultIcon,
		CategoryTag:     defaultCategory,
	}
	c.history = append([]models.SessionRecord{rec}, c.history...)
	c.agg.Apply(rec)

	snap := ProfileSnapshot{
		UID:           c.uid,
		TotalMinutes:  c.agg.totalFocusMinutes,
		SessionsCount: c.agg.totalSessionsCompleted,
		History:       append([]models.SessionRecord(nil), c.history...),
	}
	c.mu.Unlock()

	if c.syncer != nil {
		c.syncer.SyncProfile(snap)
	}
	return &rec
}

// History returns a copy of the session history, most recent first.
func (c *Committer) History() []models.SessionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.SessionRecord, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Committer) Stats() models.FocusStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Stats()
}

func (c *Committer) Weekly() []models.WeekdayHours {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Weekly()
}
