package models

import (
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"gorm.io/gorm"
)

type Breed struct {
	BaseModel

	Name string `gorm:"uniqueIndex;not null"`
	// APIID is the breed's identifier in TheDogAPI directory.
	APIID *int `gorm:"column:api_id;uniqueIndex"`

	// Relationships
	Dogs []Dog `gorm:"foreignKey:BreedID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (b *Breed) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return apperr.Validation(apperr.CodeBreedNameRequired, "Breed name must be provided.")
	}
	return nil
}

func (b *Breed) BeforeSave(tx *gorm.DB) error {
	return b.Validate()
}
