package models

import (
	"time"
)

// Message carries exactly one destination: ReceiverID for direct chat or
// GroupID for group chat. Rows are immutable after insert except for the
// is_read flag, which only ever flips false -> true (direct messages only).
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID  *uint     `gorm:"index" json:"receiver_id,omitempty"`
	GroupID     *uint     `gorm:"index" json:"group_id,omitempty"`
	MessageText string    `json:"message_text"`
	ImagePath   string    `json:"image_path,omitempty"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	Timestamp   time.Time `gorm:"autoCreateTime" json:"timestamp"`
}
