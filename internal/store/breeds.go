package store

import (
	"context"
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

func (s *Store) ListBreeds(ctx context.Context) ([]models.Breed, error) {
	var breeds []models.Breed

	if err := s.conn(ctx).Order("id").Find(&breeds).Error; err != nil {
		return nil, oops.In("store").Wrapf(err, "list breeds")
	}

	return breeds, nil
}

func (s *Store) CreateBreed(ctx context.Context, name string, apiID *int) (models.Breed, error) {
	breed := models.Breed{Name: strings.TrimSpace(name), APIID: apiID}

	if err := breed.Validate(); err != nil {
		return models.Breed{}, err
	}

	if err := s.conn(ctx).Create(&breed).Error; err != nil {
		return models.Breed{}, oops.In("store").Wrapf(err, "create breed %q", breed.Name)
	}

	return breed, nil
}

// GetBreedByAPIID finds a breed by its external catalog identifier.
func (s *Store) GetBreedByAPIID(ctx context.Context, apiID int) (models.Breed, error) {
	var breed models.Breed

	if err := s.conn(ctx).Where("api_id = ?", apiID).First(&breed).Error; err != nil {
		return models.Breed{}, notFound(err, apperr.CodeBreedNotFound, "Breed not found")
	}

	return breed, nil
}

// DeleteBreed removes a breed. Dogs of that breed are kept with their breed
// reference cleared.
func (s *Store) DeleteBreed(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var breed models.Breed
		if err := tx.First(&breed, id).Error; err != nil {
			return notFound(err, apperr.CodeBreedNotFound, "Breed not found")
		}

		// Table() instead of Model() so the Dog save hooks do not run against
		// an empty row.
		if err := tx.Table("dogs").Where("breed_id = ?", breed.ID).Update("breed_id", nil).Error; err != nil {
			return oops.In("store").Wrapf(err, "clear breed %d on dogs", breed.ID)
		}

		if err := tx.Delete(&breed).Error; err != nil {
			return oops.In("store").Wrapf(err, "delete breed %d", breed.ID)
		}

		return nil
	})
}

func breedExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Breed{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return oops.In("store").Wrap(err)
	}
	if count == 0 {
		return apperr.Validation(apperr.CodeBreedUnknown, "Breed %d does not exist.", id)
	}
	return nil
}
