package models

import (
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"gorm.io/gorm"
)

const MinUsernameLength = 4

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relationships
	Dogs []Dog `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (u *User) Validate() error {
	username := strings.TrimSpace(u.Username)

	if username == "" {
		return apperr.Validation(apperr.CodeUsernameRequired, "Username must be provided.")
	}

	if len([]rune(username)) < MinUsernameLength {
		return apperr.Validation(apperr.CodeUsernameTooShort, "Username must be at least %d characters long.", MinUsernameLength)
	}

	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	return u.Validate()
}
