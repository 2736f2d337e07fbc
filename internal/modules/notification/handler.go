package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"travelhub/internal/domain"
	"travelhub/internal/middleware"
	"travelhub/internal/pkg/jwt"
	"travelhub/internal/pkg/request"
	"travelhub/internal/pkg/response"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type Handler struct {
	service  *Service
	hub      *Hub
	tokens   TokenValidator
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler: allowedOrigins restricts websocket upgrades; empty allows any origin.
func NewHandler(service *Service, hub *Hub, tokens TokenValidator, allowedOrigins []string, log zerolog.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		service: service,
		hub:     hub,
		tokens:  tokens,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// RegisterRoutes mounts the recipient API on an authenticated group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/notifications", h.List)
	protected.PATCH("/notifications/:id/read", h.MarkRead)
	protected.PATCH("/notifications/:id/unread", h.MarkUnread)
	protected.POST("/notifications/read-all", h.MarkAllRead)
}

// RegisterAdminRoutes mounts direct messaging on the admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/notifications", h.SendMessage)
}

type SendMessageRequest struct {
	RecipientID int64  `json:"recipient_id" binding:"required,gt=0"`
	Title       string `json:"title" binding:"required,max=200"`
	Message     string `json:"message" binding:"max=2000"`
	ActionURL   string `json:"action_url" binding:"omitempty,max=500"`
}

// SendMessage godoc
// @Summary		Отправить сообщение пользователю
// @Tags		Admin
// @Security	BearerAuth
// @Param		request	body	SendMessageRequest	true	"message"
// @Success		201	{object}	map[string]interface{}
// @Router		/admin/notifications [POST]
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	n, err := h.service.SendMessage(c.Request.Context(), middleware.ActorFrom(c), MessageInput{
		RecipientID: req.RecipientID,
		Title:       req.Title,
		Message:     req.Message,
		ActionURL:   req.ActionURL,
	})
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, gin.H{"notification": n})
	case errors.Is(err, ErrInvalidNotification):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrRecipientNotFound):
		response.Error(c, http.StatusNotFound, "RECIPIENT_NOT_FOUND", "Recipient not found")
	case response.DomainError(c, err):
	default:
		h.log.Error().Err(err).Msg("send admin message")
		response.Error(c, http.StatusInternalServerError, "SEND_ERROR", "Failed to send message")
	}
}

// List godoc
// @Summary		Мои уведомления
// @Tags		Notifications
// @Security	BearerAuth
// @Param		unread	query	bool	false	"only unread"
// @Param		page	query	int		false	"page"	default(1)
// @Param		limit	query	int		false	"limit"	default(20)
// @Success		200	{object}	map[string]interface{}
// @Router		/notifications [GET]
func (h *Handler) List(c *gin.Context) {
	page, limit := request.Page(c)
	res, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), c.Query("unread") == "true", page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", "Failed to load notifications")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// MarkRead godoc
// @Summary		Отметить как прочитанное
// @Tags		Notifications
// @Security	BearerAuth
// @Param		id	path	int	true	"notification id"
// @Router		/notifications/{id}/read [PATCH]
func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	h.respondToggle(c, h.service.MarkRead(c.Request.Context(), middleware.ActorFrom(c), id), domain.NotificationRead)
}

// MarkUnread godoc
// @Summary		Отметить как непрочитанное
// @Tags		Notifications
// @Security	BearerAuth
// @Param		id	path	int	true	"notification id"
// @Router		/notifications/{id}/unread [PATCH]
func (h *Handler) MarkUnread(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	h.respondToggle(c, h.service.MarkUnread(c.Request.Context(), middleware.ActorFrom(c), id), domain.NotificationUnread)
}

func (h *Handler) respondToggle(c *gin.Context, err error, status domain.NotificationStatus) {
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"status": status})
	case errors.Is(err, domain.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
	default:
		response.Error(c, http.StatusInternalServerError, "UPDATE_ERROR", "Failed to update notification")
	}
}

// MarkAllRead godoc
// @Summary		Прочитать все
// @Tags		Notifications
// @Security	BearerAuth
// @Router		/notifications/read-all [POST]
func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.service.MarkAllRead(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_ERROR", "Failed to update notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

// HandleWebSocket upgrades GET /ws/notifications?token=JWT.
// Browsers cannot set headers on websocket requests, so the token travels in the query.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Int64("user_id", claims.UserID).Msg("websocket upgrade failed")
		return
	}
	h.log.Debug().Int64("user_id", claims.UserID).Msg("notifications socket connected")
	h.hub.ServeWS(conn, claims.UserID)
}
