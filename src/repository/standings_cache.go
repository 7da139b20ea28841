package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// StandingsEntry is one ranked row of an event's standings.
type StandingsEntry struct {
	Rank       int       `json:"rank"`
	TeamID     uuid.UUID `json:"teamId"`
	TeamName   string    `json:"teamName"`
	Points     int       `json:"points"`
	SolveCount int       `json:"solveCount"`
	LastSolve  time.Time `json:"lastSolve"`
}

// StandingsCache is a read-through Redis cache for event standings.
// Entries carry a short TTL and are invalidated on every correct solve,
// so a cold read after a solve always recomputes from the audit trail.
type StandingsCache struct {
	redis     *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewStandingsCache(redis *redis.Client, keyPrefix string, ttl time.Duration) *StandingsCache {
	return &StandingsCache{
		redis:     redis,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *StandingsCache) key(eventID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, eventID)
}

// Get returns the cached standings for an event, or redis.Nil when the
// cache is cold.
func (c *StandingsCache) Get(ctx context.Context, eventID uuid.UUID) ([]StandingsEntry, error) {
	data, err := c.redis.Get(ctx, c.key(eventID)).Result()
	if err != nil {
		return nil, err
	}

	var entries []StandingsEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal standings: %w", err)
	}
	return entries, nil
}

func (c *StandingsCache) Set(ctx context.Context, eventID uuid.UUID, entries []StandingsEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal standings: %w", err)
	}
	return c.redis.Set(ctx, c.key(eventID), data, c.ttl).Err()
}

func (c *StandingsCache) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	return c.redis.Del(ctx, c.key(eventID)).Err()
}

// IsCacheMiss reports whether err is the cache-cold sentinel.
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
