package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginGuardTTL = 30 * time.Second

// LoginGuard rejects a second login for the same employee while the first is
// still waiting on the pathology service.
// Key format: login:inflight:<employee_id>
type LoginGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
func NewLoginGuard(client *redis.Client) *LoginGuard {
	return &LoginGuard{client: client, ttl: loginGuardTTL}
}

// Acquire reports whether the caller now owns the in-flight slot. The slot
// expires on its own so a crashed request cannot lock an account out.
func (g *LoginGuard) Acquire(ctx context.Context, employeeID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(employeeID), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("login guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the in-flight slot.
func (g *LoginGuard) Release(ctx context.Context, employeeID string) error {
	return g.client.Del(ctx, g.key(employeeID)).Err()
}

func (g *LoginGuard) key(employeeID string) string {
	return fmt.Sprintf("login:inflight:%s", employeeID)
}
