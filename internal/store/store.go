// Package store persists users, breeds and dogs. Every write runs in its own
// transaction; a returned error rolls it back.
package store

import (
	"context"
	"errors"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound converts gorm.ErrRecordNotFound into the not-found kind and wraps
// anything else as an internal store error.
func notFound(err error, code, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(code, "%s", msg)
	}
	return oops.In("store").Wrap(err)
}
