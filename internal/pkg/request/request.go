package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travelhub/internal/pkg/response"
)

// ParamID parses a positive int64 path parameter. On failure it writes a 400 and returns false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func IntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Page reads ?page= and ?limit= with defaults 1 and 20.
func Page(c *gin.Context) (page, limit int) {
	return IntDefault(c.Query("page"), 1), IntDefault(c.Query("limit"), 20)
}
