package export

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"travelhub/internal/middleware"
	"travelhub/internal/modules/notification"
	"travelhub/internal/pkg/response"
)

type Handler struct {
	service    *Service
	dispatcher notification.Dispatcher
	log        zerolog.Logger
}

func NewHandler(service *Service, dispatcher notification.Dispatcher, log zerolog.Logger) *Handler {
	return &Handler{service: service, dispatcher: dispatcher, log: log}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/export/:entity", h.Export)
}

// Export godoc
// @Summary		Выгрузка CSV
// @Tags		Admin
// @Produce		text/csv
// @Security	BearerAuth
// @Param		entity	path	string	true	"agents|packages|bookings"
// @Success		200	{file}	file
// @Router		/admin/export/{entity} [GET]
func (h *Handler) Export(c *gin.Context) {
	entity := c.Param("entity")

	// buffered so a failed query still gets a JSON error
	var buf bytes.Buffer
	n, box, err := h.service.Export(c.Request.Context(), middleware.ActorFrom(c), entity, &buf)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownEntity):
			response.Error(c, http.StatusBadRequest, "UNKNOWN_ENTITY", err.Error())
		case response.DomainError(c, err):
		default:
			h.log.Error().Err(err).Str("entity", entity).Msg("export failed")
			response.Error(c, http.StatusInternalServerError, "EXPORT_ERROR", "Export failed")
		}
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)

	c.Header("Content-Disposition", `attachment; filename="`+h.service.Filename(entity)+`"`)
	c.Header("X-Export-Rows", strconv.Itoa(n))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
