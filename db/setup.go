package db

import (
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDatabase(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), Config())
}

// Config is shared by every dialect so that constraint violations come back
// as gorm.ErrDuplicatedKey regardless of driver.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

func MigrateDatabase(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Breed{},
		&models.Dog{},
	}

	migrator := db.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := db.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
