package database

import (
	"errors"

	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	GroupStatusMember    = "member"
	GroupStatusPending   = "pending"
	GroupStatusNotJoined = "not_joined"
)

// CreateGroup inserts the group and enrolls the creator in one transaction,
// so a failed membership insert never leaves an ownerless group behind.
func (d *Database) CreateGroup(group *models.Group) error {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := &models.GroupMember{GroupID: group.ID, UserID: group.CreatedBy}
		return tx.Create(member).Error
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create group")
	}
	return nil
}

func (d *Database) GetGroup(id uint) (*models.Group, error) {
	group := models.Group{}
	if err := d.db.First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "group not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch group")
	}
	return &group, nil
}

func (d *Database) ListGroups() ([]models.Group, error) {
	var groups []models.Group
	if err := d.db.Order("id").Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to list groups")
	}
	return groups, nil
}

func (d *Database) GroupByInviteToken(token string) (*models.Group, error) {
	group := models.Group{}
	if err := d.db.Where("invite_token = ?", token).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "invalid invite token")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to resolve invite token")
	}
	return &group, nil
}

// AddGroupMember enrolls a user, failing with a conflict when already enrolled.
func (d *Database) AddGroupMember(groupID, userID uint) error {
	member, err := d.IsGroupMember(groupID, userID)
	if err != nil {
		return err
	}
	if member {
		return apperrors.New(apperrors.ErrCodeAlreadyExists, "already a member of the group")
	}

	if err := d.db.Create(&models.GroupMember{GroupID: groupID, UserID: userID}).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to join group")
	}
	return nil
}

// AddGroupMemberIdempotent is the insert-or-ignore variant used by invite
// tokens and accepted join requests.
func (d *Database) AddGroupMemberIdempotent(groupID, userID uint) error {
	err := d.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupMember{GroupID: groupID, UserID: userID}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to join group")
	}
	return nil
}

func (d *Database) IsGroupMember(groupID, userID uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to check membership")
	}
	return count > 0, nil
}

func (d *Database) GroupMembers(groupID uint) ([]models.User, error) {
	var users []models.User
	err := d.db.Table("users").
		Select("users.*").
		Joins("JOIN group_members ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to load members")
	}
	return users, nil
}

func (d *Database) GroupMemberCount(groupID uint) (int64, error) {
	var count int64
	err := d.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to count members")
	}
	return count, nil
}

func (d *Database) RemoveGroupMember(groupID, userID uint) error {
	err := d.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to remove member")
	}
	return nil
}

// UserGroups lists the groups a user belongs to.
func (d *Database) UserGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := d.db.Table("groups").
		Select("groups.*").
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Find(&groups).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to load user groups")
	}
	return groups, nil
}

// CreateJoinRequest rejects duplicates while one is already pending.
func (d *Database) CreateJoinRequest(groupID, userID uint) error {
	var count int64
	err := d.db.Model(&models.GroupJoinRequest{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.JoinRequestStatusPending).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to check join requests")
	}
	if count > 0 {
		return apperrors.New(apperrors.ErrCodeAlreadyExists, "join request already sent")
	}

	req := &models.GroupJoinRequest{
		GroupID: groupID,
		UserID:  userID,
		Status:  models.JoinRequestStatusPending,
	}
	if err := d.db.Create(req).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create join request")
	}
	return nil
}

// PendingJoinRequests lists a single group's pending requests with requesters.
func (d *Database) PendingJoinRequests(groupID uint) ([]models.GroupJoinRequest, error) {
	var requests []models.GroupJoinRequest
	err := d.db.Where("group_id = ? AND status = ?", groupID, models.JoinRequestStatusPending).
		Preload("User").
		Find(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch join requests")
	}
	return requests, nil
}

// OwnedPendingJoinRequests lists pending requests across every group the
// given user created.
func (d *Database) OwnedPendingJoinRequests(creatorID uint) ([]models.GroupJoinRequest, error) {
	var requests []models.GroupJoinRequest
	err := d.db.
		Joins("JOIN groups ON groups.id = group_join_requests.group_id").
		Where("groups.created_by = ? AND group_join_requests.status = ?", creatorID, models.JoinRequestStatusPending).
		Preload("User").
		Find(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch owned join requests")
	}
	return requests, nil
}

// ResolveJoinRequest authorizes against the group creator and, on accept,
// updates the request and materializes membership inside one transaction.
func (d *Database) ResolveJoinRequest(requestID, creatorID uint, status string) error {
	var req models.GroupJoinRequest
	err := d.db.Preload("Group").First(&req, "id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrCodeNotFound, "request not found")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch join request")
	}

	if req.Group.CreatedBy != creatorID {
		return apperrors.New(apperrors.ErrCodeForbidden, "only the group creator can respond")
	}

	if req.Status != models.JoinRequestStatusPending {
		return nil
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.GroupJoinRequest{}).
			Where("id = ? AND status = ?", requestID, models.JoinRequestStatusPending).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}

		if status == models.JoinRequestStatusAccepted && result.RowsAffected > 0 {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.GroupMember{GroupID: req.GroupID, UserID: req.UserID}).Error
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to resolve join request")
	}
	return nil
}

// GroupStatus derives the tri-state membership view for a user.
func (d *Database) GroupStatus(groupID, userID uint) (string, error) {
	member, err := d.IsGroupMember(groupID, userID)
	if err != nil {
		return "", err
	}
	if member {
		return GroupStatusMember, nil
	}

	var count int64
	err = d.db.Model(&models.GroupJoinRequest{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.JoinRequestStatusPending).
		Count(&count).Error
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to check join requests")
	}
	if count > 0 {
		return GroupStatusPending, nil
	}
	return GroupStatusNotJoined, nil
}
