package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"studyzen-backend/internal/focus"
	"studyzen-backend/internal/models"
)

// userSession is the live in-memory state for one logged-in user: the
// profile, the committer owning history and totals, and the countdown
// timer. In-memory state is authoritative while the user is logged in.
type userSession struct {
	profile   models.UserProfile
	committer *focus.Committer
	timer     *focus.Timer
}

// SessionService owns every live user session and is the only writer
// of timer and statistics state. Views get narrow read models and
// commands; nothing shares the mutable state directly.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*userSession
	syncer   focus.Syncer
	pubsub   *redis.Client
}

func NewSessionService(syncer focus.Syncer, pubsubClient *redis.Client) *SessionService {
	return &SessionService{
		sessions: make(map[string]*userSession),
		syncer:   syncer,
		pubsub:   pubsubClient,
	}
}

// Attach builds the live session at login: history is hydrated, the
// weekly chart reseeded, and a fresh idle timer created. An existing
// session for the uid is torn down first.
func (s *SessionService) Attach(profile models.UserProfile, history []models.SessionRecord) {
	committer := focus.NewCommitter(profile.UID, profile.Theme, s.syncer)
	committer.Seed(profile, history)

	uid := profile.UID
	timer := focus.NewTimer(
		func(mins int) { committer.Commit(mins) },
		func(st models.TimerState) { s.publishTimerState(uid, st) },
	)

	s.mu.Lock()
	if old, ok := s.sessions[uid]; ok {
		old.timer.Close()
	}
	s.sessions[uid] = &userSession{
		profile:   profile,
		committer: committer,
		timer:     timer,
	}
	s.mu.Unlock()
}

// EnsureAttached attaches only when no live session exists, so a token
// refresh after a server restart rebuilds state without resetting a
// running timer.
func (s *SessionService) EnsureAttached(profile models.UserProfile, history []models.SessionRecord) {
	s.mu.RLock()
	_, ok := s.sessions[profile.UID]
	s.mu.RUnlock()
	if !ok {
		s.Attach(profile, history)
	}
}

// Detach tears the session down at logout. The timer ticker is
// stopped; in-flight persistence is left to run to completion.
func (s *SessionService) Detach(uid string) {
	s.mu.Lock()
	sess, ok := s.sessions[uid]
	if ok {
		delete(s.sessions, uid)
	}
	s.mu.Unlock()
	if ok {
		sess.timer.Close()
	}
}

// Close tears down every session on shutdown.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uid, sess := range s.sessions {
		sess.timer.Close()
		delete(s.sessions, uid)
	}
}

func (s *SessionService) get(uid string) (*userSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[uid]
	if !ok {
		return nil, &NotFoundError{Message: "No active session for this user; please log in again"}
	}
	return sess, nil
}

// ─── Timer commands ───

func (s *SessionService) StartTimer(uid string) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	sess.timer.Start()
	return sess.timer.Snapshot(), nil
}

func (s *SessionService) PauseTimer(uid string) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	sess.timer.Pause()
	return sess.timer.Snapshot(), nil
}

func (s *SessionService) ToggleTimer(uid string) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	sess.timer.Toggle()
	return sess.timer.Snapshot(), nil
}

func (s *SessionService) ResetTimer(uid string) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	sess.timer.Reset()
	return sess.timer.Snapshot(), nil
}

// FinishTimer ends the run early. Elapsed whole minutes are committed;
// under one minute nothing is recorded.
func (s *SessionService) FinishTimer(uid string) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	sess.timer.Finish()
	return sess.timer.Snapshot(), nil
}

func (s *SessionService) SetTimerPreset(uid string, minutes int) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	if err := sess.timer.SetPreset(minutes); err != nil {
		return models.TimerState{}, &ValidationError{Fields: map[string]string{"minutes": err.Error()}}
	}
	return sess.timer.Snapshot(), nil
}

// ─── Read models ───

func (s *SessionService) TimerState(uid string) (models.TimerState, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.TimerState{}, err
	}
	return sess.timer.Snapshot(), nil
}

func (s *SessionService) History(uid string) ([]models.SessionRecord, error) {
	sess, err := s.get(uid)
	if err != nil {
		return nil, err
	}
	return sess.committer.History(), nil
}

func (s *SessionService) Stats(uid string) (models.FocusStats, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.FocusStats{}, err
	}
	return sess.committer.Stats(), nil
}

func (s *SessionService) Weekly(uid string) ([]models.WeekdayHours, error) {
	sess, err := s.get(uid)
	if err != nil {
		return nil, err
	}
	return sess.committer.Weekly(), nil
}

// Profile returns the profile with totals refreshed from the live
// aggregator.
func (s *SessionService) Profile(uid string) (models.UserProfile, error) {
	sess, err := s.get(uid)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.mu.RLock()
	profile := sess.profile
	s.mu.RUnlock()
	stats := sess.committer.Stats()
	profile.TotalFocusMinutes = stats.TotalFocusMinutes
	profile.TotalSessionsCompleted = stats.TotalSessionsCompleted
	return profile, nil
}

// ─── Profile commands (in-memory side; durable writes live in the repo) ───

func (s *SessionService) SetDisplayName(uid, displayName string) error {
	sess, err := s.get(uid)
	if err != nil {
		return err
	}
	s.mu.Lock()
	sess.profile.DisplayName = displayName
	s.mu.Unlock()
	return nil
}

func (s *SessionService) SetTheme(uid string, theme models.Theme) error {
	sess, err := s.get(uid)
	if err != nil {
		return err
	}
	s.mu.Lock()
	sess.profile.Theme = theme
	s.mu.Unlock()
	sess.committer.SetTheme(theme)
	return nil
}

func (s *SessionService) publishTimerState(uid string, st models.TimerState) {
	if s.pubsub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type": "timer_state",
		"data": st,
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.pubsub.Publish(ctx, "timer:"+uid, payload).Err(); err != nil {
		log.Printf("Failed to publish timer state for %s: %v", uid, err)
	}
}
