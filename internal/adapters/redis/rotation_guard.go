package redis

// Package redis provides Redis-based adapters for the daybook system.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
)

// RotationGuard records completed refresh-token rotations for a short grace
// window so concurrent or duplicate refresh calls across process instances
// resolve to the same rotated session instead of invalidating the new
// refresh token against itself. Keys are hashes of the presented token; the
// token itself is never written to Redis.
type RotationGuard struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRotationGuard creates a rotation guard with the given replay grace TTL.
func NewRotationGuard(client redis.UniversalClient, ttl time.Duration) *RotationGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RotationGuard{
		client: client,
		prefix: "auth:rotation:",
		ttl:    ttl,
	}
}

// Claim returns the session a previous caller already rotated this token
// into, when one exists inside the grace window.
func (g *RotationGuard) Claim(ctx context.Context, refreshToken string) (domainauth.Session, bool, error) {
	data, err := g.client.Get(ctx, g.key(refreshToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, false, nil
		}
		return domainauth.Session{}, false, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, false, fmt.Errorf("unmarshal rotation record: %w", unmarshalErr)
	}
	return sess, true, nil
}

// Store records the rotation result for the grace window. NX keeps the first
// writer's result authoritative if two instances raced past Claim.
func (g *RotationGuard) Store(ctx context.Context, refreshToken string, sess domainauth.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal rotation record: %w", err)
	}
	return g.client.SetNX(ctx, g.key(refreshToken), data, g.ttl).Err()
}

func (g *RotationGuard) key(refreshToken string) string {
	sum := sha256.Sum256([]byte(refreshToken))
	return g.prefix + hex.EncodeToString(sum[:])
}
