package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScreenTTL = 2 * time.Hour

// ScreenStore holds per-session screen snapshots in one hash per session.
// Key format: screen:<session_id>, field: <screen>
type ScreenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScreenStore creates a ScreenStore. Snapshots of an idle session expire
// after ttl (defaultScreenTTL when ttl <= 0).
func NewScreenStore(client *redis.Client, ttl time.Duration) *ScreenStore {
	if ttl <= 0 {
		ttl = defaultScreenTTL
	}
	return &ScreenStore{client: client, ttl: ttl}
}

func (s *ScreenStore) Put(ctx context.Context, sessionID, screen string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", screen, err)
	}

	key := screenKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, screen, raw)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %s snapshot: %w", screen, err)
	}
	return nil
}

func (s *ScreenStore) Load(ctx context.Context, sessionID, screen string, dst any) (bool, error) {
	raw, err := s.client.HGet(ctx, screenKey(sessionID), screen).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load %s snapshot: %w", screen, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s snapshot: %w", screen, err)
	}
	return true, nil
}

func (s *ScreenStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, screenKey(sessionID)).Err()
}

func screenKey(sessionID string) string {
	return "screen:" + sessionID
}
