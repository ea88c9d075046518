package repository

import (
	"context"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create inserts conn. A second request for the same pair, in either
// direction, fails with ErrUniqueViolation.
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(conn).Error, "create connection")
}

func (r *ConnectionRepository) FindByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		return nil, translate(err, "find connection")
	}
	return &conn, nil
}

// FindBetween returns the connection for the unordered pair, whichever side
// initiated it.
func (r *ConnectionRepository) FindBetween(ctx context.Context, userA, userB uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		First(&conn).Error
	if err != nil {
		return nil, translate(err, "find connection between")
	}
	return &conn, nil
}

func (r *ConnectionRepository) ExistsAccepted(ctx context.Context, userA, userB uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Where("status = ?", models.ConnectionAccepted).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "count accepted connections")
	}
	return count > 0, nil
}

// ListByRecipient returns requests addressed to recipientID with the requester
// preloaded, most recent first.
func (r *ConnectionRepository) ListByRecipient(ctx context.Context, recipientID uint, status models.ConnectionStatus) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.WithContext(ctx).Preload("Requester").
		Where("recipient_id = ? AND status = ?", recipientID, status).
		Order("created_at DESC, id DESC").
		Find(&conns).Error
	return conns, translate(err, "list connections by recipient")
}

// ListByRequester returns requests sent by requesterID with the recipient
// preloaded, most recent first.
func (r *ConnectionRepository) ListByRequester(ctx context.Context, requesterID uint, status models.ConnectionStatus) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.WithContext(ctx).Preload("Recipient").
		Where("requester_id = ? AND status = ?", requesterID, status).
		Order("created_at DESC, id DESC").
		Find(&conns).Error
	return conns, translate(err, "list connections by requester")
}

// UpdateStatusIfPending moves a pending request addressed to recipientID to
// status in a single statement. Zero rows affected means the id is unknown,
// belongs to someone else, or was already resolved.
func (r *ConnectionRepository) UpdateStatusIfPending(ctx context.Context, id, recipientID uint, status models.ConnectionStatus, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND recipient_id = ? AND status = ?", id, recipientID, models.ConnectionPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, translate(result.Error, "update connection status")
	}
	return result.RowsAffected, nil
}
