package database

import (
	"errors"

	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/pkg/apperrors"
	"gorm.io/gorm"
)

// CreateConnectionRequest inserts a pending edge for the ordered pair.
// Any existing row for that pair, whatever its status, is a conflict.
func (d *Database) CreateConnectionRequest(senderID, receiverID uint) (*models.Connection, error) {
	var existing models.Connection
	err := d.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.New(apperrors.ErrCodeAlreadyExists, "connection request already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to check existing connection")
	}

	conn := &models.Connection{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.ConnectionStatusPending,
	}
	if err := d.db.Create(conn).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create connection request")
	}
	return conn, nil
}

// RespondConnection resolves a pending request. Only the receiver may act;
// replaying a respond on an already-resolved row is a no-op rather than a
// re-acceptance.
func (d *Database) RespondConnection(requestID, receiverID uint, status string) error {
	var conn models.Connection
	if err := d.db.First(&conn, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrCodeNotFound, "connection request not found")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch connection request")
	}

	if conn.ReceiverID != receiverID {
		return apperrors.New(apperrors.ErrCodeForbidden, "only the receiver can respond to this request")
	}

	if conn.Status != models.ConnectionStatusPending {
		return nil
	}

	err := d.db.Model(&models.Connection{}).
		Where("id = ? AND status = ?", requestID, models.ConnectionStatusPending).
		Update("status", status).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to update connection request")
	}
	return nil
}

// PendingConnections returns incoming pending requests with sender profiles.
func (d *Database) PendingConnections(userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := d.db.Where("receiver_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Sender").
		Find(&conns).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch pending connections")
	}
	return conns, nil
}

// AcceptedConnections returns the counterpart profiles of accepted edges,
// whichever direction the caller sits on.
func (d *Database) AcceptedConnections(userID uint) ([]models.User, error) {
	var users []models.User
	err := d.db.Table("users").
		Select("users.*").
		Joins("JOIN connections c ON (users.id = c.sender_id OR users.id = c.receiver_id)").
		Where("c.status = ? AND (c.sender_id = ? OR c.receiver_id = ?) AND users.id != ?",
			models.ConnectionStatusAccepted, userID, userID, userID).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch connections")
	}
	return users, nil
}
