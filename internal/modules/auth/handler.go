package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"travelhub/internal/domain"
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

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, limit gin.HandlerFunc) {
	public.POST("/auth/login", limit, h.Login)
	protected.GET("/users/me", h.Me)
}

// Login godoc
// @Summary		Вход по email и паролю
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	LoginRequest	true	"credentials"
// @Success		200	{object}	LoginResponse
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, box, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		response.Error(c, http.StatusInternalServerError, "LOGIN_ERROR", "Login failed")
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)

	response.Success(c, http.StatusOK, res)
}

// Me godoc
// @Summary		Текущий пользователь
// @Tags		Auth
// @Security	BearerAuth
// @Success		200	{object}	MeResponse
// @Router		/users/me [GET]
func (h *Handler) Me(c *gin.Context) {
	res, err := h.service.Me(c.Request.Context(), middleware.ActorFrom(c))
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, res)
	case errors.Is(err, domain.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	default:
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", "Failed to load profile")
	}
}
