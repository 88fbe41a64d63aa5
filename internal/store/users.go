package store

import (
	"context"
	"time"

	"github.com/hmans/threads/internal/model"
)

// CreateUser persists a new user. The unique index on email rejects
// duplicate signups.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UserByEmail returns the user with the given (already lowercased) email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Users returns all users.
func (s *Store) Users(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetResetToken stores a password reset token and its expiry on the user.
func (s *Store) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		}).Error
}

// UserByResetToken returns the user holding the token, provided the
// token has not expired as of now.
func (s *Store) UserByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry >= ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ResetPassword swaps in a new password hash and clears the reset token
// fields in one update.
func (s *Store) ResetPassword(ctx context.Context, userID, passwordHash string) (*model.User, error) {
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.UserByID(ctx, userID)
}

// UpdatePermissions replaces a user's permission set. The update goes
// through a struct so the list hits the JSON serializer instead of
// being expanded as a SQL row value; Select forces the write even when
// the new list is empty.
func (s *Store) UpdatePermissions(ctx context.Context, userID string, permissions model.PermissionList) (*model.User, error) {
	err := s.db.WithContext(ctx).
		Model(&model.User{ID: userID}).
		Select("permissions").
		Updates(&model.User{Permissions: permissions}).Error
	if err != nil {
		return nil, err
	}
	return s.UserByID(ctx, userID)
}
