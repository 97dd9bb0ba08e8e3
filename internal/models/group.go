package models

import (
	"time"
)

const (
	JoinRequestStatusPending  = "pending"
	JoinRequestStatusAccepted = "accepted"
	JoinRequestStatusRejected = "rejected"
)

// Group admin identity is the creator, fixed for the group's lifetime.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`
	InviteToken string    `gorm:"uniqueIndex;not null" json:"invite_token"`
	CreatedAt   time.Time `json:"created_at"`
}

type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

type GroupJoinRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null" json:"group_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Status    string    `gorm:"not null;default:'pending';check:status IN ('pending','accepted','rejected')" json:"status"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}
