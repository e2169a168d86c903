// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/utils"
)

var (
	ErrAdNotFound    = errors.New("ad not found")
	ErrAssetNotFound = errors.New("asset not found")
	ErrAdModified    = errors.New("ad was modified concurrently, please retry")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
	Details []utils.ValidationError
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func validationFromStruct(req interface{}) error {
	errs := utils.GetValidationErrors(utils.ValidateStruct(req))
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Field: errs[0].Field, Message: errs[0].Message, Details: errs}
}

// ConflictWindow is the blocking reservation shown to the caller.
type ConflictWindow struct {
	ListingPosition *int        `json:"listing_position,omitempty"`
	StartDate       models.Date `json:"start_date"`
	EndDate         models.Date `json:"end_date"`
}

// ConflictError reports that a reserved ad already holds the slot.
type ConflictError struct {
	Key        models.InventoryKey
	Conflict   ConflictWindow
	BlockingID uuid.UUID
}

func newConflictError(key models.InventoryKey, blocking *models.Ad) *ConflictError {
	return &ConflictError{
		Key: key,
		Conflict: ConflictWindow{
			ListingPosition: key.Position(),
			StartDate:       blocking.StartDate,
			EndDate:         blocking.EndDate,
		},
		BlockingID: blocking.ID,
	}
}

func (e *ConflictError) Error() string {
	if e.Key.AdType.HasListingPosition() {
		return "Time slot already occupied for this listing position"
	}
	return fmt.Sprintf("Time slot already occupied for %s ads", e.Key.AdType)
}

// InvalidTransitionError reports a lifecycle action attempted from the wrong status.
type InvalidTransitionError struct {
	Action   models.AdAction
	Current  models.AdStatus
	Required []models.AdStatus
}

func newInvalidTransitionError(action models.AdAction, current models.AdStatus) *InvalidTransitionError {
	return &InvalidTransitionError{
		Action:   action,
		Current:  current,
		Required: models.RequiredStatuses(action),
	}
}

func (e *InvalidTransitionError) RequiredLabel() string {
	names := make([]string, len(e.Required))
	for i, s := range e.Required {
		names[i] = string(s)
	}
	return strings.Join(names, " or ")
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Only %s ads can be %s", e.RequiredLabel(), e.Action.Verb())
}

// SchedulerTickError wraps a failed step of a reconciliation tick. It is
// logged and never returned to an HTTP caller.
type SchedulerTickError struct {
	Step string
	Err  error
}

func (e *SchedulerTickError) Error() string {
	return fmt.Sprintf("reconciliation %s failed: %v", e.Step, e.Err)
}

func (e *SchedulerTickError) Unwrap() error {
	return e.Err
}
