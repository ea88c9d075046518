package repository

import (
	"context"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(message).Error, "create message")
}

func (r *MessageRepository) FindByClientID(ctx context.Context, clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND sender_id = ?", clientID, senderID).
		First(&message).Error
	if err != nil {
		return nil, translate(err, "find message by client id")
	}
	return &message, nil
}

// FindThread returns both directions of the exchange in chat-log order.
func (r *MessageRepository) FindThread(ctx context.Context, userA, userB uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, translate(err, "find thread")
}

// FindForUser returns every message the user sent or received, newest first.
func (r *MessageRepository) FindForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	return messages, translate(err, "find messages for user")
}

// MarkThreadRead flags everything peerID sent to readerID as read. Rows that
// are already read are not touched, so read_at keeps its first value.
func (r *MessageRepository) MarkThreadRead(ctx context.Context, readerID, peerID uint, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", readerID, peerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	if result.Error != nil {
		return 0, translate(result.Error, "mark thread read")
	}
	return result.RowsAffected, nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, translate(err, "count unread")
}

func (r *MessageRepository) CountUnreadFrom(ctx context.Context, userID, peerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", userID, peerID, false).
		Count(&count).Error
	return count, translate(err, "count unread from peer")
}
