package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/apperrors"
)

// RunLock serializes matching runs per engagement. Two concurrent runs for
// the same engagement would interleave their delete/insert pairs, so the
// pipeline acquires a lock before loading anything and releases it when the
// run ends. Backed by Redis SET NX with a TTL so a crashed run cannot hold
// the lock forever. With no Redis configured the lock is a no-op and callers
// must serialize runs themselves.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRunLock creates a run lock manager. client may be nil (no-op mode).
func NewRunLock(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RunLock {
	return &RunLock{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the run lock for an engagement. Returns
// apperrors.ErrRunInProgress if another run currently holds it.
// The returned release function is safe to call exactly once.
func (l *RunLock) Acquire(ctx context.Context, engagementID uuid.UUID) (func(), error) {
	if l == nil || l.client == nil {
		return func() {}, nil
	}

	key := lockKey(engagementID)
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrRunInProgress
	}

	release := func() {
		// Release on a fresh context: run contexts may already be canceled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.client.Del(releaseCtx, key).Err(); err != nil {
			l.logger.Warn("Failed to release run lock; it will expire on its own",
				zap.String("engagement_id", engagementID.String()),
				zap.Error(err))
		}
	}
	return release, nil
}

func lockKey(engagementID uuid.UUID) string {
	return "dealdesk:matchrun:" + engagementID.String()
}
