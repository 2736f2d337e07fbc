package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"travelhub/internal/domain"
	"travelhub/internal/middleware"
	"travelhub/internal/modules/notification"
	"travelhub/internal/pkg/request"
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

// RegisterRoutes mounts customer routes on customer and agent routes on agent; both groups are role-guarded.
func (h *Handler) RegisterRoutes(customer, agent *gin.RouterGroup) {
	customer.POST("/bookings", h.Create)
	customer.GET("/bookings/my", h.ListMine)
	customer.POST("/bookings/:id/cancel", h.Cancel)

	agent.GET("/bookings", h.ListForAgent)
	agent.PATCH("/bookings/:id/status", h.UpdateStatus)
}

// Create godoc
// @Summary		Забронировать тур
// @Tags		Bookings
// @Security	BearerAuth
// @Param		body	body	CreateBookingRequest	true	"package_id, travel_date (YYYY-MM-DD), travelers"
// @Success		201	{object}	domain.Booking
// @Router		/bookings [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	b, box, err := h.service.CreateBooking(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusCreated, b)
}

// ListMine godoc
// @Summary		Мои бронирования
// @Tags		Bookings
// @Security	BearerAuth
// @Router		/bookings/my [GET]
func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// Cancel godoc
// @Summary		Отменить бронирование (только pending)
// @Tags		Bookings
// @Security	BearerAuth
// @Router		/bookings/{id}/cancel [POST]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	b, box, err := h.service.Cancel(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, b)
}

// ListForAgent godoc
// @Summary		Бронирования моих туров
// @Tags		Agent
// @Security	BearerAuth
// @Param		status	query	string	false	"pending|confirmed|cancelled|completed"
// @Router		/agent/bookings [GET]
func (h *Handler) ListForAgent(c *gin.Context) {
	items, err := h.service.ListForAgent(c.Request.Context(), middleware.ActorFrom(c), domain.BookingStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// UpdateStatus godoc
// @Summary		Подтвердить / отменить / завершить бронирование
// @Tags		Agent
// @Security	BearerAuth
// @Param		id		path	int					true	"Booking ID"
// @Param		body	body	UpdateStatusRequest	true	"action"
// @Router		/agent/bookings/{id}/status [PATCH]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	b, box, err := h.service.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, domain.BookingAction(req.Action))
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrTravelDatePast):
		response.Error(c, http.StatusBadRequest, "INVALID_TRAVEL_DATE", err.Error())
	case errors.Is(err, ErrNotBookable):
		response.Error(c, http.StatusConflict, "NOT_BOOKABLE", err.Error())
	case response.DomainError(c, err):
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("booking request failed")
		response.Error(c, http.StatusInternalServerError, "BOOKING_ERROR", "Internal error")
	}
}
