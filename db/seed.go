package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/catalog"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

// BreedList is the fixed catalog every fresh database starts with.
var BreedList = []string{
	"Labrador Retriever",
	"German Shepherd",
	"Golden Retriever",
	"Bulldog",
	"Poodle",
	"Beagle",
	"Rottweiler",
	"Dachshund",
	"Shih Tzu",
	"Boxer",
	"Siberian Husky",
	"Doberman Pinscher",
	"Great Dane",
	"Corgi",
	"Australian Shepherd",
	"Chihuahua",
	"Shiba Inu",
	"Border Collie",
	"Pug",
	"Mixed Breed / Unknown",
}

const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

type BreedSource interface {
	ListBreeds(ctx context.Context) ([]catalog.Breed, error)
}

type SeedOptions struct {
	// Catalog, when set, is used to fill Breed.APIID by name.
	Catalog BreedSource
	Logger  *slog.Logger
}

// Seed wipes dogs, users and breeds and repopulates the breed catalog and
// the default admin. It is safe to run repeatedly.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var external []catalog.Breed
	if opts.Catalog != nil {
		var err error
		if external, err = opts.Catalog.ListBreeds(ctx); err != nil {
			return oops.In("seed").Wrapf(err, "fetch breed catalog")
		}
		log.InfoContext(ctx, "fetched breed catalog", "breeds", len(external))
	}

	passwordHash, err := auth.HashPassword(AdminPassword)
	if err != nil {
		return oops.In("seed").Wrapf(err, "hash admin password")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		log.InfoContext(ctx, "clearing old data")
		// Dogs reference users and breeds, so they go first.
		for _, model := range []interface{}{&models.Dog{}, &models.User{}, &models.Breed{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return oops.In("seed").Wrapf(err, "clear %T", model)
			}
		}

		breeds := make([]models.Breed, 0, len(BreedList))
		matched := 0
		for _, name := range BreedList {
			breed := models.Breed{Name: name}
			if id, ok := MatchAPIID(name, external); ok {
				breed.APIID = &id
				matched++
			}
			breeds = append(breeds, breed)
		}

		if err := tx.Create(&breeds).Error; err != nil {
			return oops.In("seed").Wrapf(err, "create breeds")
		}
		log.InfoContext(ctx, "seeded breeds", "count", len(breeds), "catalog_matches", matched)

		admin := models.User{Username: AdminUsername, PasswordHash: passwordHash}
		if err := tx.Create(&admin).Error; err != nil {
			return oops.In("seed").Wrapf(err, "create admin user")
		}
		log.InfoContext(ctx, "seeded admin user", "username", admin.Username)

		return nil
	})
}

// MatchAPIID finds the catalog id for a local breed name. An exact
// case-insensitive match wins; otherwise the first catalog name that starts
// with the local name is used ("German Shepherd" -> "German Shepherd Dog").
func MatchAPIID(name string, external []catalog.Breed) (int, bool) {
	want := normalizeBreedName(name)
	if want == "" {
		return 0, false
	}

	for _, b := range external {
		if normalizeBreedName(b.Name) == want {
			return b.ID, true
		}
	}

	for _, b := range external {
		if strings.HasPrefix(normalizeBreedName(b.Name), want+" ") {
			return b.ID, true
		}
	}

	return 0, false
}

func normalizeBreedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
