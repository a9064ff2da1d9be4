package dashboard

import (
	"net/http"

	"travelbook/internal/domain"
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
	rg.GET("/dashboard/stats", h.GetStats)
}

// GetStats serves the caller's booking aggregates. When the redis
// cache is configured the numbers may lag booking writes by up to the
// cache TTL (30s); callers needing the live row should read the
// booking itself.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(
		c.Request.Context(),
		c.GetString("user_id"),
		domain.Role(c.GetString("role")),
	)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard stats")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
