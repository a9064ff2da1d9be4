package escalation

import (
	"errors"
	"net/http"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/authz"
	"travelbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes expects a group already behind AdminOnly.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/escalations", h.ListEscalations)
	rg.PUT("/escalations/:id", h.RespondToEscalation)
	rg.GET("/escalations/feed", h.Feed)
}

// RegisterInternalRoutes expects a group behind InternalTokenAuth.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages/:id/escalate", h.FlagMessage)
}

func (h *Handler) ListEscalations(c *gin.Context) {
	tickets, err := h.service.List(c.Request.Context(), domain.Role(c.GetString("role")))
	if err != nil {
		respondTicketError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"escalations": tickets})
}

func (h *Handler) RespondToEscalation(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ticket, err := h.service.Respond(c.Request.Context(), c.Param("id"), domain.Role(c.GetString("role")), req.AdminResponse)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"escalation": ticket})
}

func (h *Handler) FlagMessage(c *gin.Context) {
	ticket, err := h.service.Flag(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTicketError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"escalation": ticket})
}

// Feed upgrades to a websocket and streams ticket events until the
// client goes away.
func (h *Handler) Feed(c *gin.Context) {
	adminID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Register(adminID, conn)
	defer h.hub.Unregister(adminID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func respondTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid escalation request")
	case errors.Is(err, authz.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, "PERMISSION_DENIED", "Admin role required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Escalation not found")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Ticket state does not permit this operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process escalation")
	}
}
