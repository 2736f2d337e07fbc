package booking

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotBookable    = errors.New("package is not available for booking")
	ErrTravelDatePast = errors.New("travel date must be in the future")
)
