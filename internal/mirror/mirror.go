// Package mirror publishes saved snapshots to a remote store. Publishing is
// best effort: callers log failures and carry on.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"become/internal/engine"
)

type Mirror interface {
	Publish(ctx context.Context, snap engine.Snapshot) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, engine.Snapshot) error { return nil }
func (Nop) Close() error                                   { return nil }

// Update is the notification sent on the channel after each publish.
type Update struct {
	Key        string    `json:"key"`
	Identities int       `json:"identities"`
	Quests     int       `json:"quests"`
	TotalXP    int       `json:"totalXP"`
	Unlocked   int       `json:"badgesUnlocked"`
	At         time.Time `json:"at"`
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Channel  string
	TTL      time.Duration
}

type Redis struct {
	client  redis.UniversalClient
	key     string
	channel string
	ttl     time.Duration
}

func NewRedis(opts RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisWithClient(client, opts)
}

// NewRedisWithClient wraps an existing client (cluster, sentinel, or a test double).
func NewRedisWithClient(client redis.UniversalClient, opts RedisOptions) *Redis {
	key := opts.Key
	if key == "" {
		key = "become:snapshot"
	}
	return &Redis{client: client, key: key, channel: opts.Channel, ttl: opts.TTL}
}

func (r *Redis) Publish(ctx context.Context, snap engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	if r.channel == "" {
		return nil
	}
	note, err := json.Marshal(Update{
		Key:        r.key,
		Identities: len(snap.Identities),
		Quests:     len(snap.Quests),
		TotalXP:    engine.TotalXP(snap),
		Unlocked:   engine.CountUnlocked(snap.Badges),
		At:         time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, note).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", r.channel, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
