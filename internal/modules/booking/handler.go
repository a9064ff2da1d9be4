package booking

import (
	"errors"
	"net/http"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/authz"
	"travelbook/internal/pkg/response"
	"travelbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id/confirm", h.ConfirmBooking)
	rg.PUT("/bookings/:id/pay", h.PayBooking)
	rg.PUT("/bookings/:id/cancel", h.CancelBooking)
	rg.PUT("/bookings/:id/refund", h.RefundBooking)
}

// RegisterInternalRoutes exposes the system-internal transitions; the
// group is expected to sit behind InternalTokenAuth.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/complete", h.CompleteBooking)
	rg.POST("/bookings/:id/payment-failed", h.FailBookingPayment)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
		return
	}

	b, err := h.service.Create(c.Request.Context(), actorID(c), actorRole(c), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), actorID(c), actorRole(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"), actorID(c), actorRole(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	b, err := h.service.Confirm(c.Request.Context(), c.Param("id"), actorRole(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) PayBooking(c *gin.Context) {
	b, err := h.service.Pay(c.Request.Context(), c.Param("id"), actorID(c), actorRole(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.service.Cancel(c.Request.Context(), c.Param("id"), actorID(c), actorRole(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RefundBooking(c *gin.Context) {
	b, err := h.service.Refund(c.Request.Context(), c.Param("id"), actorRole(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	b, err := h.service.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) FailBookingPayment(c *gin.Context) {
	b, err := h.service.FailPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func actorID(c *gin.Context) string {
	return c.GetString("user_id")
}

func actorRole(c *gin.Context) domain.Role {
	return domain.Role(c.GetString("role"))
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, authz.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, "PERMISSION_DENIED", "Not allowed for this booking")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking state does not permit this operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
