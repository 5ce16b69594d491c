package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceKeyPrefix = "presence:"
	presenceTTL       = 2 * time.Minute
)

// FriendPresence is what the social page shows for an online user.
type FriendPresence struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
}

// PresenceRepo tracks who is currently online via TTL keys: clients
// heartbeat every few seconds and anyone whose key expires simply
// drops off the list.
type PresenceRepo struct {
	redis *redis.Client
}

func NewPresenceRepo(redisClient *redis.Client) *PresenceRepo {
	return &PresenceRepo{redis: redisClient}
}

func (r *PresenceRepo) Heartbeat(ctx context.Context, presence FriendPresence) error {
	data, err := json.Marshal(presence)
	if err != nil {
		return err
	}
	return r.redis.Set(ctx, presenceKeyPrefix+presence.UID, data, presenceTTL).Err()
}

func (r *PresenceRepo) Online(ctx context.Context) ([]FriendPresence, error) {
	friends := make([]FriendPresence, 0)

	iter := r.redis.Scan(ctx, 0, presenceKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.redis.Get(ctx, iter.Val()).Result()
		if err != nil {
			// Key expired between scan and get.
			continue
		}
		var presence FriendPresence
		if err := json.Unmarshal([]byte(data), &presence); err != nil {
			continue
		}
		friends = append(friends, presence)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan presence keys: %w", err)
	}

	return friends, nil
}
