package upload

import (
	"errors"
	"net/http"

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

func (h *Handler) RegisterRoutes(agent *gin.RouterGroup) {
	agent.POST("/documents", h.UploadDocument)
}

// UploadDocument godoc
// @Summary		Загрузить документ верификации (pdf, jpeg, png)
// @Tags		Agent
// @Accept		multipart/form-data
// @Security	BearerAuth
// @Param		file	formData	file	true	"document"
// @Success		201	{object}	StoredFile
// @Failure		400,413	{object}	map[string]interface{}
// @Router		/agent/documents [POST]
func (h *Handler) UploadDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Failed to read file")
		return
	}
	defer f.Close()

	stored, box, err := h.service.UploadDocument(c.Request.Context(), middleware.ActorFrom(c), header.Filename, header.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, ErrTooManyFiles):
			response.Error(c, http.StatusConflict, "TOO_MANY_FILES", err.Error())
		case response.DomainError(c, err):
		default:
			h.log.Error().Err(err).Msg("document upload failed")
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed")
		}
		return
	}
	notification.Deliver(c.Request.Context(), h.dispatcher, box, h.log)
	response.Success(c, http.StatusCreated, stored)
}
