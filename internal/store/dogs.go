package store

import (
	"context"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func withOwnerAndBreed(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User").Preload("Breed")
}

// ListAvailableDogs returns every dog still up for adoption.
func (s *Store) ListAvailableDogs(ctx context.Context) ([]models.Dog, error) {
	var dogs []models.Dog

	err := withOwnerAndBreed(s.conn(ctx)).
		Where("status = ?", models.DogStatusAvailable).
		Order("id").
		Find(&dogs).Error
	if err != nil {
		return nil, oops.In("store").Wrapf(err, "list available dogs")
	}

	return dogs, nil
}

// ListAvailableDogsByBreedAPIID returns the available dogs of the breed with
// the given external catalog id.
func (s *Store) ListAvailableDogsByBreedAPIID(ctx context.Context, apiID int) ([]models.Dog, error) {
	breed, err := s.GetBreedByAPIID(ctx, apiID)
	if err != nil {
		return nil, err
	}

	var dogs []models.Dog

	err = withOwnerAndBreed(s.conn(ctx)).
		Where("breed_id = ? AND status = ?", breed.ID, models.DogStatusAvailable).
		Order("id").
		Find(&dogs).Error
	if err != nil {
		return nil, oops.In("store").Wrapf(err, "list dogs of breed %d", breed.ID)
	}

	return dogs, nil
}

func (s *Store) GetDog(ctx context.Context, id uint) (models.Dog, error) {
	return getDog(s.conn(ctx), id)
}

func getDog(tx *gorm.DB, id uint) (models.Dog, error) {
	var dog models.Dog

	if err := withOwnerAndBreed(tx).First(&dog, id).Error; err != nil {
		return models.Dog{}, notFound(err, apperr.CodeDogNotFound, "Dog not found")
	}

	return dog, nil
}

// CreateDog lists a new dog owned by ownerID.
func (s *Store) CreateDog(ctx context.Context, ownerID uint, patch DogPatch) (models.Dog, error) {
	dog := models.Dog{Status: models.DogStatusAvailable}
	patch.Apply(&dog)
	dog.UserID = ownerID

	if err := dog.Validate(); err != nil {
		return models.Dog{}, err
	}

	var created models.Dog
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, ownerID); err != nil {
			return err
		}

		if dog.BreedID != nil {
			if err := breedExists(tx, *dog.BreedID); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(&dog).Error; err != nil {
			return oops.In("store").Wrapf(err, "create dog")
		}

		var err error
		created, err = getDog(tx, dog.ID)
		return err
	})
	if err != nil {
		return models.Dog{}, err
	}

	return created, nil
}

// UpdateDog applies patch to an existing dog. The owner is left untouched.
func (s *Store) UpdateDog(ctx context.Context, dog models.Dog, patch DogPatch) (models.Dog, error) {
	owner := dog.UserID
	patch.Apply(&dog)
	dog.UserID = owner

	if err := dog.Validate(); err != nil {
		return models.Dog{}, err
	}

	var updated models.Dog
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.breedID != nil {
			if err := breedExists(tx, *patch.breedID); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(&dog).Error; err != nil {
			return oops.In("store").Wrapf(err, "update dog %d", dog.ID)
		}

		var err error
		updated, err = getDog(tx, dog.ID)
		return err
	})
	if err != nil {
		return models.Dog{}, err
	}

	return updated, nil
}

func (s *Store) DeleteDog(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Dog{}, id)
		if result.Error != nil {
			return oops.In("store").Wrapf(result.Error, "delete dog %d", id)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound(apperr.CodeDogNotFound, "Dog not found")
		}
		return nil
	})
}

func userExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return oops.In("store").Wrap(err)
	}
	if count == 0 {
		return apperr.NotFound(apperr.CodeUserNotFound, "User not found")
	}
	return nil
}
