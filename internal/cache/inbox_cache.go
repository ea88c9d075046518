package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	InboxTTL       = 1 * time.Minute
	UnreadCountTTL = 1 * time.Minute
)

// InboxCache holds per-user conversation summaries and the unread badge.
// A nil *InboxCache is valid and always misses.
type InboxCache struct {
	redis *RedisCache
}

func NewInboxCache(redis *RedisCache) *InboxCache {
	return &InboxCache{redis: redis}
}

func inboxKey(userID uint) string {
	return fmt.Sprintf("inbox:%d", userID)
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

func (ic *InboxCache) enabled() bool {
	return ic != nil && ic.redis != nil
}

// GetConversations retrieves cached conversation summaries
func (ic *InboxCache) GetConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, bool) {
	if !ic.enabled() {
		return nil, false
	}
	data, err := ic.redis.Get(ctx, inboxKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var convs []models.ConversationSummary
	if err := msgpack.Unmarshal(data, &convs); err != nil {
		return nil, false
	}
	return convs, true
}

// SetConversations caches conversation summaries
func (ic *InboxCache) SetConversations(ctx context.Context, userID uint, convs []models.ConversationSummary) error {
	if !ic.enabled() {
		return nil
	}
	data, err := msgpack.Marshal(convs)
	if err != nil {
		return err
	}
	return ic.redis.Set(ctx, inboxKey(userID), data, InboxTTL)
}

// GetUnreadCount retrieves the cached unread badge
func (ic *InboxCache) GetUnreadCount(ctx context.Context, userID uint) (int64, bool) {
	if !ic.enabled() {
		return 0, false
	}
	data, err := ic.redis.Get(ctx, unreadKey(userID))
	if err != nil || data == nil {
		return 0, false
	}

	var count int64
	if err := msgpack.Unmarshal(data, &count); err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadCount caches the unread badge
func (ic *InboxCache) SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	if !ic.enabled() {
		return nil
	}
	data, err := msgpack.Marshal(count)
	if err != nil {
		return err
	}
	return ic.redis.Set(ctx, unreadKey(userID), data, UnreadCountTTL)
}

// Invalidate drops inbox and badge entries for every given user.
func (ic *InboxCache) Invalidate(ctx context.Context, userIDs ...uint) error {
	if !ic.enabled() {
		return nil
	}
	keys := make([]string, 0, 2*len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, inboxKey(id), unreadKey(id))
	}
	return ic.redis.Delete(ctx, keys...)
}
