package database

import (
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/pkg/apperrors"
)

func (d *Database) SaveMessage(message *models.Message) error {
	if err := d.db.Create(message).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to save message")
	}
	return nil
}

// DirectHistory returns every direct message between the pair, oldest first.
// Group messages never appear here even when one participant id collides
// with a group id.
func (d *Database) DirectHistory(userA, userB uint) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND group_id IS NULL",
			userA, userB, userB, userA).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch messages")
	}
	return messages, nil
}

func (d *Database) GroupHistory(groupID uint) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.Where("group_id = ?", groupID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch group messages")
	}
	return messages, nil
}

// MarkRead flips is_read on every message the other user sent to the reader.
func (d *Database) MarkRead(readerID, otherUserID uint) error {
	err := d.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ?", otherUserID, readerID).
		Update("is_read", true).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to mark messages as read")
	}
	return nil
}

func (d *Database) UnreadSenders(userID uint) ([]uint, error) {
	var senderIDs []uint
	err := d.db.Model(&models.Message{}).
		Distinct("sender_id").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Pluck("sender_id", &senderIDs).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch unread senders")
	}
	return senderIDs, nil
}

func (d *Database) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := d.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to count unread messages")
	}
	return count, nil
}
