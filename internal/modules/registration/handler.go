package registration

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"travelhub/internal/modules/notification"
	"travelhub/internal/pkg/response"
)

type TokenGenerator interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Handler struct {
	service    *Service
	dispatcher notification.Dispatcher
	tokens     TokenGenerator
	log        zerolog.Logger
}

func NewHandler(service *Service, dispatcher notification.Dispatcher, tokens TokenGenerator, log zerolog.Logger) *Handler {
	return &Handler{service: service, dispatcher: dispatcher, tokens: tokens, log: log}
}

// RegisterRoutes mounts the public sign-up endpoints. limit runs before each handler.
func (h *Handler) RegisterRoutes(public *gin.RouterGroup, limit gin.HandlerFunc) {
	public.POST("/auth/register/agent", limit, h.RegisterAgent)
	public.POST("/auth/register/customer", limit, h.RegisterCustomer)
}

// RegisterAgent регистрирует DMC-агента. Аккаунт создаётся в статусе pending.
// @Summary		Регистрация агента
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	AgentRequest	true	"company, contact, credentials, consents"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}	"validation failed"
// @Failure		409	{object}	map[string]interface{}	"email already registered"
// @Router		/auth/register/agent [POST]
func (h *Handler) RegisterAgent(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, box, err := h.service.RegisterAgent(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)

	response.Success(c, http.StatusCreated, gin.H{
		"user":    res.User,
		"agent":   res.Agent,
		"message": "Registration received. Your account is pending approval.",
	})
}

// RegisterCustomer godoc
// @Summary		Регистрация клиента
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	CustomerRequest	true	"name, email, password"
// @Success		201	{object}	map[string]interface{}
// @Router		/auth/register/customer [POST]
func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, box, err := h.service.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)

	token, err := h.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration data", verr.Fields)
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
	default:
		h.log.Error().Err(err).Msg("registration failed")
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_ERROR", "Registration failed")
	}
}
