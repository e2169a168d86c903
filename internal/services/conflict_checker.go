// internal/services/conflict_checker.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/repository"
)

// ConflictChecker decides whether a window on an inventory key is already
// held by an APPROVED or ACTIVE ad. It never writes.
type ConflictChecker struct {
	repo repository.AdRepository
}

func NewConflictChecker(repo repository.AdRepository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// FindConflict returns the blocking ad, or nil when the slot is free.
func (c *ConflictChecker) FindConflict(ctx context.Context, key models.InventoryKey, window models.Window, excludeID *uuid.UUID) (*models.Ad, error) {
	return c.repo.FindConflicting(ctx, repository.SlotQuery{
		Key:       key,
		Window:    window,
		ExcludeID: excludeID,
	})
}

// Check returns a *ConflictError when the slot is taken.
func (c *ConflictChecker) Check(ctx context.Context, key models.InventoryKey, window models.Window, excludeID *uuid.UUID) error {
	blocking, err := c.FindConflict(ctx, key, window, excludeID)
	if err != nil {
		return err
	}
	if blocking != nil {
		return newConflictError(key, blocking)
	}
	return nil
}
