package moderation

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
	"travelhub/internal/repository"
)

type Handler struct {
	service    *Service
	dispatcher notification.Dispatcher
	log        zerolog.Logger
}

func NewHandler(service *Service, dispatcher notification.Dispatcher, log zerolog.Logger) *Handler {
	return &Handler{service: service, dispatcher: dispatcher, log: log}
}

// RegisterRoutes mounts the moderation API on a group already guarded by JWTAuth and AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/agents", h.ListAgents)
	admin.POST("/agents/:id/:action", h.ModerateAgent)

	admin.GET("/packages", h.ListPackages)
	admin.POST("/packages/bulk", h.BulkModeratePackages)
	admin.POST("/packages/:id/:action", h.ModeratePackage)

	admin.GET("/users", h.ListUsers)
	admin.GET("/stats", h.Stats)
	admin.GET("/activity", h.ListActivity)
}

// ListAgents godoc
// @Summary		Список агентов для модерации
// @Tags		Admin
// @Security	BearerAuth
// @Param		status	query	string	false	"pending|approved|rejected|suspended"
// @Param		page	query	int		false	"page"	default(1)
// @Param		limit	query	int		false	"limit"	default(20)
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/agents [GET]
func (h *Handler) ListAgents(c *gin.Context) {
	page, limit := request.Page(c)
	res, err := h.service.ListAgents(c.Request.Context(), middleware.ActorFrom(c), domain.AgentStatus(c.Query("status")), page, limit)
	if err != nil {
		h.fail(c, err, "FETCH_ERROR")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ModerateAgent godoc
// @Summary		Approve / reject / suspend агента, смена тарифа
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	int		true	"Agent ID"
// @Param		action	path	string	true	"approve|reject|suspend|upgrade|downgrade"
// @Param		body	body	ActionRequest	false	"reason (required for reject)"
// @Success		200	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/admin/agents/{id}/{action} [POST]
func (h *Handler) ModerateAgent(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req ActionRequest
	if !bindOptional(c, &req) {
		return
	}

	agent, box, err := h.service.ModerateAgent(c.Request.Context(), middleware.ActorFrom(c), id, domain.AgentAction(c.Param("action")), req.Reason)
	if err != nil {
		h.fail(c, err, "MODERATION_ERROR")
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, gin.H{"agent": agent, "changed": !box.Empty()})
}

// ListPackages godoc
// @Summary		Список пакетов для модерации
// @Tags		Admin
// @Security	BearerAuth
// @Param		status	query	string	false	"draft|pending|approved|rejected|archived"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/packages [GET]
func (h *Handler) ListPackages(c *gin.Context) {
	page, limit := request.Page(c)
	res, err := h.service.ListPackages(c.Request.Context(), middleware.ActorFrom(c), domain.PackageStatus(c.Query("status")), page, limit)
	if err != nil {
		h.fail(c, err, "FETCH_ERROR")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ModeratePackage godoc
// @Summary		Approve / reject / publish / unpublish пакета
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	int		true	"Package ID"
// @Param		action	path	string	true	"approve|reject|publish|unpublish"
// @Param		body	body	ActionRequest	false	"reason (required for reject)"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/packages/{id}/{action} [POST]
func (h *Handler) ModeratePackage(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req ActionRequest
	if !bindOptional(c, &req) {
		return
	}

	pkg, box, err := h.service.ModeratePackage(c.Request.Context(), middleware.ActorFrom(c), id, domain.PackageAction(c.Param("action")), req.Reason)
	if err != nil {
		h.fail(c, err, "MODERATION_ERROR")
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, gin.H{"package": pkg, "changed": !box.Empty()})
}

// BulkModeratePackages godoc
// @Summary		Массовая модерация пакетов (всё или ничего)
// @Tags		Admin
// @Security	BearerAuth
// @Param		body	body	BulkRequest	true	"ids, action, reason"
// @Success		200	{object}	BulkResult
// @Router		/admin/packages/bulk [POST]
func (h *Handler) BulkModeratePackages(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, box, err := h.service.BulkModeratePackages(c.Request.Context(), middleware.ActorFrom(c), req.IDs, req.Action, req.Reason)
	if err != nil {
		h.fail(c, err, "MODERATION_ERROR")
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusOK, res)
}

// ListUsers godoc
// @Summary		Пользователи
// @Tags		Admin
// @Security	BearerAuth
// @Param		role	query	string	false	"customer|agent|super_admin"
// @Param		q		query	string	false	"email or name"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/users [GET]
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := request.Page(c)
	res, err := h.service.ListUsers(c.Request.Context(), middleware.ActorFrom(c), domain.UserRole(c.Query("role")), c.Query("q"), page, limit)
	if err != nil {
		h.fail(c, err, "FETCH_ERROR")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Stats godoc
// @Summary		Статистика платформы
// @Tags		Admin
// @Security	BearerAuth
// @Success		200	{object}	Stats
// @Router		/admin/stats [GET]
func (h *Handler) Stats(c *gin.Context) {
	st, err := h.service.Stats(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err, "STATS_ERROR")
		return
	}
	response.Success(c, http.StatusOK, st)
}

// ListActivity godoc
// @Summary		Журнал действий
// @Tags		Admin
// @Security	BearerAuth
// @Param		user_id		query	int		false	"actor user id"
// @Param		type		query	string	false	"activity type"
// @Param		entity_type	query	string	false	"agent|package|booking|user"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/activity [GET]
func (h *Handler) ListActivity(c *gin.Context) {
	page, limit := request.Page(c)
	f := repository.ActivityFilter{
		UserID:     int64(request.IntDefault(c.Query("user_id"), 0)),
		Type:       domain.ActivityType(c.Query("type")),
		EntityType: c.Query("entity_type"),
		Page:       repository.Page{Page: page, Limit: limit},
	}
	res, err := h.service.ListActivity(c.Request.Context(), middleware.ActorFrom(c), f)
	if err != nil {
		h.fail(c, err, "FETCH_ERROR")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// bindOptional accepts an empty body.
func bindOptional(c *gin.Context, req *ActionRequest) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error, code string) {
	if errors.Is(err, ErrEmptySelection) {
		response.Error(c, http.StatusBadRequest, "EMPTY_SELECTION", err.Error())
		return
	}
	if response.DomainError(c, err) {
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("moderation request failed")
	response.Error(c, http.StatusInternalServerError, code, "Internal error")
}
