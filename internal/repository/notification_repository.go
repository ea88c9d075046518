package repository

import (
	"context"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Enqueue adds a notification to the outbox
func (r *NotificationRepository) Enqueue(ctx context.Context, n *models.PendingNotification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error, "enqueue notification")
}

// GetRetryable gets notifications due for a delivery attempt (next_retry <= now)
func (r *NotificationRepository) GetRetryable(ctx context.Context, now time.Time, limit int) ([]models.PendingNotification, error) {
	var pending []models.PendingNotification
	err := r.db.WithContext(ctx).
		Where("next_retry IS NOT NULL AND next_retry <= ?", now).
		Order("next_retry ASC, id ASC").
		Limit(limit).
		Find(&pending).Error
	return pending, translate(err, "get retryable notifications")
}

// MarkAttempted updates the attempt count and next retry time
func (r *NotificationRepository) MarkAttempted(ctx context.Context, id uint, attempts int, nextRetry *time.Time) error {
	now := time.Now()
	updates := map[string]interface{}{
		"attempts":     attempts,
		"last_attempt": now,
		"next_retry":   nextRetry,
	}
	err := r.db.WithContext(ctx).Model(&models.PendingNotification{}).Where("id = ?", id).Updates(updates).Error
	return translate(err, "mark notification attempted")
}

// Delete removes a notification after successful delivery
func (r *NotificationRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.PendingNotification{}, id).Error, "delete notification")
}

// CleanupOld removes notifications older than the specified duration
func (r *NotificationRepository) CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.PendingNotification{})
	return result.RowsAffected, translate(result.Error, "cleanup notifications")
}
