package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrUnavailable       = errors.New("item not available for the selected dates")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("acting user may not perform this transition")
	ErrNotFound          = errors.New("booking not found")
)

// errorCode is the stable code reported to clients and metrics.
func errorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRange):
		return "INVALID_RANGE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}
