package repository

import (
	"context"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
)

// UserRepositoryInterface is the read side of the profile directory
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}

// ConnectionRepositoryInterface defines the contract for connection repository operations
type ConnectionRepositoryInterface interface {
	Create(ctx context.Context, conn *models.Connection) error
	FindByID(ctx context.Context, id uint) (*models.Connection, error)
	FindBetween(ctx context.Context, userA, userB uint) (*models.Connection, error)
	ExistsAccepted(ctx context.Context, userA, userB uint) (bool, error)
	ListByRecipient(ctx context.Context, recipientID uint, status models.ConnectionStatus) ([]models.Connection, error)
	ListByRequester(ctx context.Context, requesterID uint, status models.ConnectionStatus) ([]models.Connection, error)
	UpdateStatusIfPending(ctx context.Context, id, recipientID uint, status models.ConnectionStatus, at time.Time) (int64, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(ctx context.Context, message *models.Message) error
	FindByClientID(ctx context.Context, clientID string, senderID uint) (*models.Message, error)
	FindThread(ctx context.Context, userA, userB uint) ([]models.Message, error)
	FindForUser(ctx context.Context, userID uint) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, readerID, peerID uint, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	CountUnreadFrom(ctx context.Context, userID, peerID uint) (int64, error)
}

// NotificationRepositoryInterface defines the contract for the email outbox
type NotificationRepositoryInterface interface {
	Enqueue(ctx context.Context, n *models.PendingNotification) error
	GetRetryable(ctx context.Context, now time.Time, limit int) ([]models.PendingNotification, error)
	MarkAttempted(ctx context.Context, id uint, attempts int, nextRetry *time.Time) error
	Delete(ctx context.Context, id uint) error
	CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error)
}
