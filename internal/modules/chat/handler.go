package chat

import (
	"errors"
	"net/http"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/authz"
	"travelbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/conversations/:id/messages", h.ListMessages)
	rg.POST("/conversations/:id/messages", h.PostMessage)
}

func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("user_id"),
		domain.Role(c.GetString("role")),
	)
	if err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.PostMessage(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("user_id"),
		domain.Role(c.GetString("role")),
		req.Content,
	)
	if err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": m})
}

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid message")
	case errors.Is(err, authz.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, "PERMISSION_DENIED", "Not a participant of this conversation")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Message not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process message")
	}
}
