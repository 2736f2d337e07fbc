package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelhub/internal/middleware"
	"travelhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, agent *gin.RouterGroup) {
	public.GET("/plans", h.ListPlans)
	agent.GET("/profile", h.Profile)
}

// ListPlans godoc
// @Summary		Тарифы для агентов
// @Tags		Plans
// @Produce		json
// @Success		200	{array}	domain.Plan
// @Router		/plans [GET]
func (h *Handler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Plans())
}

// Profile godoc
// @Summary		Профиль агента, тариф и лимиты
// @Tags		Agent
// @Security	BearerAuth
// @Success		200	{object}	Profile
// @Router		/agent/profile [GET]
func (h *Handler) Profile(c *gin.Context) {
	p, err := h.service.Profile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		if response.DomainError(c, err) {
			return
		}
		response.Error(c, http.StatusInternalServerError, "PROFILE_ERROR", "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, p)
}
