package models

import (
	"time"
)

type NotificationKind string

const (
	NotifyConnectionRequested NotificationKind = "connection_requested"
	NotifyConnectionAccepted  NotificationKind = "connection_accepted"
	NotifyMessageReceived     NotificationKind = "message_received"
)

// PendingNotification is an outbox row waiting to be emailed to UserID.
type PendingNotification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Alumnus who should receive this email
	UserID uint `gorm:"not null;index" json:"user_id"`
	// Alumnus whose action triggered it
	ActorID uint             `gorm:"not null" json:"actor_id"`
	Kind    NotificationKind `gorm:"type:varchar(32);not null" json:"kind"`
	Preview string           `gorm:"size:200" json:"preview"`

	// Delivery tracking
	Attempts    int        `gorm:"default:0" json:"attempts"`
	LastAttempt *time.Time `json:"last_attempt"`
	NextRetry   *time.Time `gorm:"index" json:"next_retry"` // For exponential backoff
}
