// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrStaleStatus = errors.New("status changed concurrently")
	ErrSlotTaken   = errors.New("inventory slot already reserved")
)

// Postgres error codes mapped by this package.
const (
	pgExclusionViolation = "23P01"
)

type contextKey string

// TxContextKey carries the active *gorm.DB transaction through a context.
const TxContextKey contextKey = "tx"

type baseRepository struct {
	db *gorm.DB
}

func (r *baseRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func inTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(TxContextKey).(*gorm.DB)
	return ok && tx != nil
}

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgExclusionViolation {
		return ErrSlotTaken
	}
	return err
}
