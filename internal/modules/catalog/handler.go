package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

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

// RegisterRoutes: public catalog plus the agent's own packages (agent group is role-guarded).
func (h *Handler) RegisterRoutes(public, agent *gin.RouterGroup) {
	public.GET("/packages", h.ListPublic)
	public.GET("/packages/:slug", h.GetBySlug)

	agent.GET("/packages", h.ListOwn)
	agent.POST("/packages", h.Create)
	agent.PUT("/packages/:id", h.Update)
	agent.POST("/packages/:id/submit", h.Submit)
	agent.POST("/packages/:id/archive", h.Archive)
}

// ListPublic godoc
// @Summary		Каталог туров
// @Tags		Packages
// @Produce		json
// @Param		destination	query	string	false	"destination (substring)"
// @Param		min_price	query	string	false	"min price"
// @Param		max_price	query	string	false	"max price"
// @Param		sort		query	string	false	"newest|price_asc|price_desc"
// @Success		200	{object}	PackageList
// @Router		/packages [GET]
func (h *Handler) ListPublic(c *gin.Context) {
	var q PublicQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	res, err := h.service.ListPublic(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// GetBySlug godoc
// @Summary		Тур по slug
// @Tags		Packages
// @Param		slug	path	string	true	"slug"
// @Success		200	{object}	domain.TravelPackage
// @Failure		404	{object}	map[string]interface{}
// @Router		/packages/{slug} [GET]
func (h *Handler) GetBySlug(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// ListOwn godoc
// @Summary		Мои туры
// @Tags		Agent
// @Security	BearerAuth
// @Router		/agent/packages [GET]
func (h *Handler) ListOwn(c *gin.Context) {
	items, err := h.service.ListOwn(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// Create godoc
// @Summary		Создать тур (draft)
// @Tags		Agent
// @Security	BearerAuth
// @Param		body	body	CreatePackageRequest	true	"package"
// @Success		201	{object}	domain.TravelPackage
// @Failure		403	{object}	map[string]interface{}	"not approved or plan limit"
// @Router		/agent/packages [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p, box, err := h.service.CreatePackage(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusCreated, p)
}

// Update godoc
// @Summary		Изменить тур (только draft / rejected)
// @Tags		Agent
// @Security	BearerAuth
// @Param		id		path	int						true	"Package ID"
// @Param		body	body	UpdatePackageRequest	true	"fields"
// @Router		/agent/packages/{id} [PUT]
func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p, box, err := h.service.UpdatePackage(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, p)
}

// Submit godoc
// @Summary		Отправить тур на модерацию
// @Tags		Agent
// @Security	BearerAuth
// @Router		/agent/packages/{id}/submit [POST]
func (h *Handler) Submit(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	p, box, err := h.service.SubmitPackage(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, p)
}

// Archive godoc
// @Summary		Архивировать тур
// @Tags		Agent
// @Security	BearerAuth
// @Router		/agent/packages/{id}/archive [POST]
func (h *Handler) Archive(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	p, box, err := h.service.ArchivePackage(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid package data", verr.Fields)
	case errors.Is(err, ErrAgentNotApproved):
		response.Error(c, http.StatusForbidden, "AGENT_NOT_APPROVED", "Your agent account is not approved")
	case errors.Is(err, ErrNotEditable):
		response.Error(c, http.StatusConflict, "NOT_EDITABLE", err.Error())
	case response.DomainError(c, err):
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("catalog request failed")
		response.Error(c, http.StatusInternalServerError, "CATALOG_ERROR", "Internal error")
	}
}
