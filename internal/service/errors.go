package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", model.ErrNotFound)
	ErrConsultantNotFound = fmt.Errorf("consultant %w", model.ErrNotFound)
	ErrBookingNotFound    = fmt.Errorf("booking %w", model.ErrNotFound)

	ErrDayMismatch    = fmt.Errorf("%w: date does not fall on the selected day", model.ErrValidation)
	ErrDateInPast     = fmt.Errorf("%w: date is in the past", model.ErrValidation)
	ErrSlotNotOffered = fmt.Errorf("%w: slot is not offered by the consultant", model.ErrValidation)
	ErrSlotBooked     = fmt.Errorf("slot is already booked: %w", model.ErrConflict)
	ErrStaleSave      = fmt.Errorf("availability save is older than the stored one: %w", model.ErrConflict)
	ErrNotPending     = fmt.Errorf("booking is not pending: %w", model.ErrInvalidTransition)
)

func noPermission(action string) error {
	return fmt.Errorf("no permission to %s: %w", action, model.ErrForbidden)
}

// storeErr оборачивает ошибку хранилища; ошибка без категории считается ErrPersistence
func storeErr(op string, err error) error {
	for _, known := range []error{model.ErrPersistence, model.ErrConflict, model.ErrNotFound, model.ErrValidation} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrPersistence, err)
}
