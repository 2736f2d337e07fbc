package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelhub/internal/domain"
)

// DomainError maps the shared domain sentinels to HTTP statuses. It reports false for
// errors it does not recognise so the caller can fall back to a 500.
func DomainError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, domain.ErrUnknownAction):
		Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", err.Error())
	case errors.Is(err, domain.ErrReasonRequired):
		Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A reason is required for this action")
	case errors.Is(err, domain.ErrInvalidTransition):
		Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, domain.ErrPlanLimit):
		Error(c, http.StatusForbidden, "PLAN_LIMIT", err.Error())
	default:
		return false
	}
	return true
}
