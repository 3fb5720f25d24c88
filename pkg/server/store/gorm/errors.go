package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/server/store"
)

// translate maps GORM errors onto the store sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	}
	return err
}

// affected returns ErrNotFound when a write touched no rows
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func paginate(db *gorm.DB, opts store.ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}
	return db
}
