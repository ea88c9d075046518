package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	AcceptedListTTL = 2 * time.Minute
	PendingListTTL  = 1 * time.Minute
)

// ConnectionCache holds accepted and pending connection lists per user.
type ConnectionCache struct {
	redis *RedisCache
}

func NewConnectionCache(redis *RedisCache) *ConnectionCache {
	return &ConnectionCache{redis: redis}
}

func acceptedKey(userID uint) string {
	return fmt.Sprintf("conns:accepted:%d", userID)
}

func pendingKey(userID uint) string {
	return fmt.Sprintf("conns:pending:%d", userID)
}

func (cc *ConnectionCache) enabled() bool {
	return cc != nil && cc.redis != nil
}

func (cc *ConnectionCache) GetAccepted(ctx context.Context, userID uint) ([]models.ConnectionView, bool) {
	var views []models.ConnectionView
	if !cc.load(ctx, acceptedKey(userID), &views) {
		return nil, false
	}
	return views, true
}

func (cc *ConnectionCache) SetAccepted(ctx context.Context, userID uint, views []models.ConnectionView) error {
	return cc.store(ctx, acceptedKey(userID), views, AcceptedListTTL)
}

func (cc *ConnectionCache) GetPending(ctx context.Context, userID uint) ([]models.PendingRequest, bool) {
	var reqs []models.PendingRequest
	if !cc.load(ctx, pendingKey(userID), &reqs) {
		return nil, false
	}
	return reqs, true
}

func (cc *ConnectionCache) SetPending(ctx context.Context, userID uint, reqs []models.PendingRequest) error {
	return cc.store(ctx, pendingKey(userID), reqs, PendingListTTL)
}

// InvalidatePending drops the pending list of a request's recipient.
func (cc *ConnectionCache) InvalidatePending(ctx context.Context, userID uint) error {
	if !cc.enabled() {
		return nil
	}
	return cc.redis.Delete(ctx, pendingKey(userID))
}

// InvalidatePair drops both lists for both parties of a resolved request.
func (cc *ConnectionCache) InvalidatePair(ctx context.Context, a, b uint) error {
	if !cc.enabled() {
		return nil
	}
	return cc.redis.Delete(ctx, acceptedKey(a), pendingKey(a), acceptedKey(b), pendingKey(b))
}

func (cc *ConnectionCache) load(ctx context.Context, key string, v interface{}) bool {
	if !cc.enabled() {
		return false
	}
	data, err := cc.redis.Get(ctx, key)
	if err != nil || data == nil {
		return false
	}
	return msgpack.Unmarshal(data, v) == nil
}

func (cc *ConnectionCache) store(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	if !cc.enabled() {
		return nil
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return cc.redis.Set(ctx, key, data, ttl)
}
