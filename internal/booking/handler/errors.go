package handler

import (
	"errors"

	"bookingflow/internal/booking/core"
	bookingerrors "bookingflow/internal/booking/errors"
	"bookingflow/internal/booking/validator"
	apperrors "bookingflow/pkg/errors"
)

// toAppError maps flow and registry errors onto the HTTP error taxonomy.
func toAppError(err error, id string) error {
	var transitionErr *core.TransitionError
	var validationErrs validator.ValidationErrors

	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingerrors.ErrSessionNotFound):
		return apperrors.NotFoundWithID("Booking session", id)
	case errors.Is(err, bookingerrors.ErrConfirmationNotFound), errors.Is(err, bookingerrors.ErrArchiveDisabled):
		return apperrors.NotFoundWithID("Confirmation", id)
	case errors.As(err, &transitionErr):
		return apperrors.IllegalTransition(transitionErr.Op, string(transitionErr.State))
	case errors.As(err, &validationErrs):
		return apperrors.Validation(validationErrs.First(), map[string]any{
			"fields": []validator.ValidationError(validationErrs),
		})
	case errors.Is(err, core.ErrDateNotSelectable):
		return apperrors.InvalidInput("The selected date is not available")
	case errors.Is(err, core.ErrSlotNotSelectable):
		return apperrors.Conflict("The selected time is not available")
	default:
		return apperrors.Internal("Failed to process booking request", err)
	}
}
