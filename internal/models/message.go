package models

import (
	"time"
)

// Message is one direct message. IsRead only ever moves from false to true and
// ReadAt is stamped on that transition.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id" msgpack:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at" msgpack:"created_at"`

	// UUID supplied by the client (or generated) to dedupe retried sends.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender;not null" json:"client_id" msgpack:"client_id"`

	SenderID    uint `gorm:"not null;uniqueIndex:idx_client_sender;index;index:idx_message_unread,priority:2" json:"sender_id" msgpack:"sender_id"`
	RecipientID uint `gorm:"not null;index;index:idx_message_unread,priority:1" json:"recipient_id" msgpack:"recipient_id"`

	Content string `gorm:"type:text;not null" json:"content" msgpack:"content"`

	IsRead bool       `gorm:"not null;default:false;index:idx_message_unread,priority:3" json:"is_read" msgpack:"is_read"`
	ReadAt *time.Time `json:"read_at" msgpack:"read_at"`
}

// Counterpart returns the other party relative to userID.
func (m *Message) Counterpart(userID uint) uint {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

type MessageResponse struct {
	ID          uint       `json:"id"`
	ClientID    string     `json:"client_id"`
	SenderID    uint       `json:"sender_id"`
	RecipientID uint       `json:"recipient_id"`
	Content     string     `json:"content"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

// ConversationSummary is one inbox row: the latest message exchanged with a
// counterpart and how many of theirs are still unread.
type ConversationSummary struct {
	Counterpart   ProfileSummary `json:"counterpart" msgpack:"counterpart"`
	LastMessageID uint           `json:"last_message_id" msgpack:"last_message_id"`
	LastMessage   string         `json:"last_message" msgpack:"last_message"`
	LastMessageAt time.Time      `json:"last_message_at" msgpack:"last_message_at"`
	LastSenderID  uint           `json:"last_sender_id" msgpack:"last_sender_id"`
	UnreadCount   int64          `json:"unread_count" msgpack:"unread_count"`
}
