package models

import (
	"time"
)

const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusRejected = "rejected"
)

// Connection is a directed edge: the sender asked, the receiver decides.
// The composite unique index keeps at most one row per ordered pair.
type Connection struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_connection_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_connection_pair" json:"receiver_id"`
	Status     string    `gorm:"not null;default:'pending';check:status IN ('pending','accepted','rejected')" json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
