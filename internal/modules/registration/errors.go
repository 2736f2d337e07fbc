package registration

import (
	"errors"
	"strings"

	"travelhub/internal/pkg/validator"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

// ValidationError lists rejected fields (json name -> reason). Nothing was stored.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(validator.Fields(e.Fields), ", ")
}
