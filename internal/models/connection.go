package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionAccepted || s == ConnectionRejected
}

// Connection is a directional request between two alumni. RequesterID always
// records who initiated it.
type Connection struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RequesterID uint             `gorm:"not null;uniqueIndex:idx_connection_ordered_pair;index:idx_connection_requester_status" json:"requester_id"`
	RecipientID uint             `gorm:"not null;uniqueIndex:idx_connection_ordered_pair;index:idx_connection_recipient_status" json:"recipient_id"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_connection_requester_status;index:idx_connection_recipient_status" json:"status"`

	// PairKey is "<min>:<max>" of the two ids; its unique index keeps a single
	// record per unordered pair.
	PairKey string `gorm:"type:varchar(41);not null;uniqueIndex" json:"-"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairKey = PairKey(c.RequesterID, c.RecipientID)
	return nil
}

// Counterpart returns the other party relative to userID.
func (c *Connection) Counterpart(userID uint) uint {
	if c.RequesterID == userID {
		return c.RecipientID
	}
	return c.RequesterID
}

type ConnectionResponse struct {
	ID          uint             `json:"id"`
	RequesterID uint             `json:"requester_id"`
	RecipientID uint             `json:"recipient_id"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (c *Connection) ToResponse() ConnectionResponse {
	return ConnectionResponse{
		ID:          c.ID,
		RequesterID: c.RequesterID,
		RecipientID: c.RecipientID,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type ConnectionDirection string

const (
	DirectionOutgoing ConnectionDirection = "outgoing"
	DirectionIncoming ConnectionDirection = "incoming"
)

// ConnectionView is a connection seen from one side.
type ConnectionView struct {
	ConnectionID uint                `json:"connection_id" msgpack:"connection_id"`
	Status       ConnectionStatus    `json:"status" msgpack:"status"`
	Direction    ConnectionDirection `json:"direction" msgpack:"direction"`
	Counterpart  ProfileSummary      `json:"counterpart" msgpack:"counterpart"`
	CreatedAt    time.Time           `json:"created_at" msgpack:"created_at"`
	Since        time.Time           `json:"since" msgpack:"since"`
}

// PendingRequest is an incoming request awaiting the recipient's decision.
type PendingRequest struct {
	ConnectionID uint           `json:"connection_id" msgpack:"connection_id"`
	Requester    ProfileSummary `json:"requester" msgpack:"requester"`
	CreatedAt    time.Time      `json:"created_at" msgpack:"created_at"`
}
