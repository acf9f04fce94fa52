package store

import (
	"context"
	"errors"
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

func usernameTaken() error {
	return apperr.Validation(apperr.CodeUsernameTaken, "Username already exists.")
}

// CreateUser registers a new account. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	user := models.User{Username: strings.TrimSpace(username)}

	if err := user.Validate(); err != nil {
		return models.User{}, err
	}

	if len(password) > auth.MaxPasswordBytes {
		return models.User{}, apperr.Validation(apperr.CodePasswordTooLong,
			"Password must be at most %d bytes.", auth.MaxPasswordBytes)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, oops.In("store").Wrapf(err, "hash password")
	}
	user.PasswordHash = passwordHash

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&existing).Error; err != nil {
			return oops.In("store").Wrap(err)
		}
		if existing > 0 {
			return usernameTaken()
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usernameTaken()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate returns the user whose credentials match. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User

	err := s.conn(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, oops.In("store").Wrap(err)
	}

	if err != nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, apperr.Unauthenticated(apperr.CodeInvalidLogin, "Invalid username or password")
	}

	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User

	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return models.User{}, notFound(err, apperr.CodeUserNotFound, "User not found")
	}

	return user, nil
}

// DeleteUser removes the user and every dog it owns in one transaction.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, apperr.CodeUserNotFound, "User not found")
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Dog{}).Error; err != nil {
			return oops.In("store").Wrapf(err, "delete dogs of user %d", user.ID)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return oops.In("store").Wrapf(err, "delete user %d", user.ID)
		}

		return nil
	})
}
