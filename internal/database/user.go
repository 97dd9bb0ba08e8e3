package database

import (
	"errors"

	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/pkg/apperrors"
	"gorm.io/gorm"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.db.Create(user).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

func (d *Database) GetUser(id uint) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch user")
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch user")
	}
	return &user, nil
}

// PhoneTaken backs the registration uniqueness check on phone numbers.
func (d *Database) PhoneTaken(phone string) (bool, error) {
	var count int64
	err := d.db.Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to check phone")
	}
	return count > 0, nil
}

func (d *Database) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := d.db.Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to list users")
	}
	return users, nil
}

// ListPendingUsers returns accounts awaiting admin verification.
func (d *Database) ListPendingUsers() ([]models.User, error) {
	var users []models.User
	if err := d.db.Where("is_verified = ?", false).Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to list pending users")
	}
	return users, nil
}

// PublicProfile returns a user only when they are verified and not blocked.
func (d *Database) PublicProfile(id uint) (*models.User, error) {
	user := models.User{}
	err := d.db.Where("id = ? AND is_verified = ? AND is_blocked = ?", id, true, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to fetch profile")
	}
	return &user, nil
}

func (d *Database) VerifyUser(id uint) (*models.User, error) {
	result := d.db.Model(&models.User{}).Where("id = ?", id).Update("is_verified", true)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to verify user")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}
	return d.GetUser(id)
}

// ToggleBlocked flips is_blocked and returns the updated user.
func (d *Database) ToggleBlocked(id uint) (*models.User, error) {
	user, err := d.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.IsBlocked = !user.IsBlocked
	if err := d.db.Model(user).Update("is_blocked", user.IsBlocked).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to toggle block")
	}
	return user, nil
}

func (d *Database) UpdateProfilePicture(id uint, path string) error {
	result := d.db.Model(&models.User{}).Where("id = ?", id).Update("profile_picture", path)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to update picture")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// Suggestions returns opposite-gender verified singles, same city+state
// matches first and everyone else after, preserving that order.
func (d *Database) Suggestions(current *models.User) ([]models.User, error) {
	base := func() *gorm.DB {
		return d.db.Where(
			"id != ? AND is_verified = ? AND social_status = ? AND gender = ?",
			current.ID, true, models.SocialStatusSingle, current.OppositeGender(),
		)
	}

	var near []models.User
	if err := base().Where("city = ? AND state = ?", current.City, current.State).
		Find(&near).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to load suggestions")
	}

	var other []models.User
	if err := base().Where("NOT (city = ? AND state = ?)", current.City, current.State).
		Find(&other).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to load suggestions")
	}

	return append(near, other...), nil
}

// FindPeople lists opposite-gender verified unblocked singles. Admins see
// everyone; regular users additionally exclude anyone already present in
// connections with them, in either direction and regardless of status.
func (d *Database) FindPeople(current *models.User, isAdmin bool) ([]models.User, error) {
	query := d.db.Where(
		"id != ? AND gender = ? AND social_status = ? AND is_verified = ? AND is_blocked = ?",
		current.ID, current.OppositeGender(), models.SocialStatusSingle, true, false,
	)

	if !isAdmin {
		connected := d.db.Model(&models.Connection{}).
			Select("CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END", current.ID).
			Where("sender_id = ? OR receiver_id = ?", current.ID, current.ID)
		query = query.Where("id NOT IN (?)", connected)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to find people")
	}
	return users, nil
}
