package catalog

import (
	"errors"
	"strings"

	"travelhub/internal/pkg/validator"
)

var (
	ErrAgentNotApproved = errors.New("agent account is not approved")
	ErrNotEditable      = errors.New("package can only be edited in draft or rejected status")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(validator.Fields(e.Fields), ", ")
}
