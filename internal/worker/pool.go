package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"studyzen-backend/internal/focus"
	"studyzen-backend/internal/repository"
)

const syncQueue = "queue:profile-sync"

// Pool drains profile snapshots queued by commits and mirrors them to
// the store. Writes are best-effort: a failure is logged and the job
// dropped, never retried. Rapid commits may race at the store; the
// newest queued snapshot wins.
type Pool struct {
	redis       *redis.Client
	profiles    *repository.ProfileRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, profiles *repository.ProfileRepo, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		profiles:    profiles,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

// SyncProfile implements focus.Syncer: the snapshot is queued and the
// caller continues immediately.
func (p *Pool) SyncProfile(snap focus.ProfileSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("Failed to marshal profile sync for %s: %v", snap.UID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.redis.LPush(ctx, syncQueue, data).Err(); err != nil {
		log.Printf("Failed to enqueue profile sync for %s: %v", snap.UID, err)
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d profile sync workers", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Sync worker %d shutting down", id)
			return
		default:
		}

		result, err := p.redis.BRPop(context.Background(), 2*time.Second, syncQueue).Result()
		if err != nil {
			// redis.Nil is the normal empty-queue timeout.
			if !errors.Is(err, redis.Nil) {
				log.Printf("Sync worker %d queue error: %v", id, err)
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(result[1])
	}
}

func (p *Pool) process(payload string) {
	var snap focus.ProfileSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		log.Printf("Dropping malformed sync job: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := p.profiles.UpdateStats(ctx, snap.UID, snap.TotalMinutes, snap.SessionsCount, snap.History)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrProfileNotFound):
		// A record is always created at login, so this should not
		// happen; log it and move on.
		log.Printf("Profile sync skipped: no stored record for %s", snap.UID)
	default:
		log.Printf("Profile sync failed for %s: %v", snap.UID, err)
	}
}
