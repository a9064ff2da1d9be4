package catalog

import (
	"errors"
	"net/http"

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
	rg.GET("/properties", h.ListProperties)
	rg.GET("/properties/:id", h.GetProperty)
}

func (h *Handler) ListProperties(c *gin.Context) {
	properties, err := h.service.ListProperties(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list properties")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"properties": properties})
}

func (h *Handler) GetProperty(c *gin.Context) {
	p, err := h.service.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load property")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"property": p})
}
