package models

import (
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"gorm.io/gorm"
)

type DogStatus string

const (
	DogStatusAvailable DogStatus = "Available"
	DogStatusAdopted   DogStatus = "Adopted"
)

func (s DogStatus) Valid() bool {
	return s == DogStatusAvailable || s == DogStatusAdopted
}

type Dog struct {
	BaseModel

	Name        string    `gorm:"not null"`
	Age         *int      // nil when unknown
	Status      DogStatus `gorm:"not null;default:Available;index"`
	ImageURL    *string
	Description *string
	Weight      *string
	Temperament *string

	UserID  uint  `gorm:"not null;index"`
	BreedID *uint `gorm:"index"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Breed *Breed `gorm:"foreignKey:BreedID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (d *Dog) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return apperr.Validation(apperr.CodeDogNameRequired, "Name must be provided.")
	}

	if d.Age != nil && *d.Age < 0 {
		return apperr.Validation(apperr.CodeDogAgeNegative, "Age must be a positive number.")
	}

	if !d.Status.Valid() {
		return apperr.Validation(apperr.CodeDogStatusInvalid, "Status must be one of %q or %q.", DogStatusAvailable, DogStatusAdopted)
	}

	return nil
}

func (d *Dog) BeforeSave(tx *gorm.DB) error {
	if d.Status == "" {
		d.Status = DogStatusAvailable
	}
	return d.Validate()
}
