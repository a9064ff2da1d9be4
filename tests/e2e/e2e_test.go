package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/middleware"
	"travelbook/internal/modules/auth"
	"travelbook/internal/modules/booking"
	"travelbook/internal/modules/catalog"
	"travelbook/internal/modules/chat"
	"travelbook/internal/modules/dashboard"
	"travelbook/internal/modules/escalation"
	jwtsvc "travelbook/internal/pkg/jwt"
	"travelbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const internalToken = "internal-test-token"

type TestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *TestSuite {
	t.Setenv("INTERNAL_TOKEN", internalToken)
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Message{},
	))

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(propertyRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, propertyRepo, repository.IsUniqueViolation)
	bookingHandler := booking.NewHandler(bookingService)

	chatService := chat.NewService(messageRepo)
	chatHandler := chat.NewHandler(chatService)

	hub := escalation.NewHub()
	t.Cleanup(hub.Close)

	escalationService := escalation.NewService(messageRepo, hub)
	escalationHandler := escalation.NewHandler(escalationService, hub)

	dashboardService := dashboard.NewService(bookingRepo, messageRepo, nil)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	requireAuth := middleware.RequireAuth(func(tokenStr string) (string, string, error) {
		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			return "", "", err
		}
		return claims.UserID, claims.Role, nil
	})

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(requireAuth)
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)

			adminOnly := protected.Group("/")
			adminOnly.Use(middleware.AdminOnly())
			{
				escalationHandler.RegisterRoutes(adminOnly)
			}
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth())
		{
			bookingHandler.RegisterInternalRoutes(internal)
			escalationHandler.RegisterInternalRoutes(internal)
		}
	}

	return &TestSuite{router: r, db: db, jwt: jwtService}
}

func (s *TestSuite) createUser(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test " + string(role),
		Role:         role,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func (s *TestSuite) createPropertyWithRoom(t *testing.T) (*domain.Property, *domain.Room) {
	property := &domain.Property{
		ID:       uuid.NewString(),
		Name:     "Test Hotel",
		Location: "Almaty",
	}
	require.NoError(t, s.db.Create(property).Error)

	room := &domain.Room{
		ID:           uuid.NewString(),
		PropertyID:   property.ID,
		Name:         "Standard",
		MaxOccupancy: 3,
		BaseRate:     25000,
	}
	require.NoError(t, s.db.Create(room).Error)
	return property, room
}

func (s *TestSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, TestResponse) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func bookingField(t *testing.T, resp TestResponse, field string) string {
	b, ok := resp.Data["booking"].(map[string]interface{})
	require.True(t, ok, "response has no booking object")
	v, _ := b[field].(string)
	return v
}

func validBookingBody(propertyID, roomID string) map[string]interface{} {
	checkIn := time.Now().UTC().AddDate(0, 0, 10)
	return map[string]interface{}{
		"property_id":  propertyID,
		"room_id":      roomID,
		"check_in":     checkIn.Format("2006-01-02"),
		"check_out":    checkIn.AddDate(0, 0, 3).Format("2006-01-02"),
		"guests":       2,
		"total_amount": 75000,
	}
}

func TestBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	_, travelerToken := s.createUser(t, "traveler@test.io", domain.RoleTraveler)
	_, salesToken := s.createUser(t, "sales@test.io", domain.RolePropertySales)
	_, adminToken := s.createUser(t, "admin@test.io", domain.RoleAdmin)
	property, room := s.createPropertyWithRoom(t)

	// Traveler creates a booking.
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", travelerToken, validBookingBody(property.ID, room.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := bookingField(t, resp, "id")
	assert.Equal(t, "pending", bookingField(t, resp, "status"))
	assert.Equal(t, "pending", bookingField(t, resp, "payment_status"))

	// Traveler cannot confirm their own booking.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/confirm", travelerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PERMISSION_DENIED", resp.Error.Code)

	// Sales confirms it.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/confirm", salesToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", bookingField(t, resp, "status"))

	// Confirming twice conflicts.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/confirm", salesToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)

	// Admin cannot pay on the traveler's behalf.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/pay", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner pays; a voucher is issued with the flip.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/pay", travelerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", bookingField(t, resp, "payment_status"))
	assert.Len(t, bookingField(t, resp, "voucher_code"), 10)

	// Paid bookings cannot be cancelled.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", travelerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)

	// Refund is staff-only and reconciles both states.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/refund", travelerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/refund", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", bookingField(t, resp, "status"))
	assert.Equal(t, "refunded", bookingField(t, resp, "payment_status"))

	// Refunding twice conflicts.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/refund", adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingCompletion_InternalOnly(t *testing.T) {
	s := setupTestSuite(t)
	_, travelerToken := s.createUser(t, "traveler@test.io", domain.RoleTraveler)
	_, salesToken := s.createUser(t, "sales@test.io", domain.RolePropertySales)
	property, room := s.createPropertyWithRoom(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", travelerToken, validBookingBody(property.ID, room.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := bookingField(t, resp, "id")

	w, _ = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/confirm", salesToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Completing a pending booking through the internal endpoint needs
	// the internal token, not a user JWT.
	w, _ = s.request(t, http.MethodPost, "/api/v1/internal/bookings/"+bookingID+"/complete", travelerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/bookings/"+bookingID+"/complete", nil)
	req.Header.Set("Authorization", "Bearer "+internalToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var parsed TestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "completed", bookingField(t, parsed, "status"))

	// Completed is terminal.
	w, resp = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", travelerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPaymentDecline_CancelledBookingStaysSettled(t *testing.T) {
	s := setupTestSuite(t)
	_, travelerToken := s.createUser(t, "traveler@test.io", domain.RoleTraveler)
	property, room := s.createPropertyWithRoom(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", travelerToken, validBookingBody(property.ID, room.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := bookingField(t, resp, "id")

	w, _ = s.request(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", travelerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A gateway decline arriving after cancellation must not flip the
	// payment sub-state on a terminal booking.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/bookings/"+bookingID+"/payment-failed", nil)
	req.Header.Set("Authorization", "Bearer "+internalToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var parsed TestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "INVALID_TRANSITION", parsed.Error.Code)

	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings/"+bookingID, travelerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", bookingField(t, resp, "status"))
	assert.Equal(t, "pending", bookingField(t, resp, "payment_status"))
}

func TestBookingVisibility(t *testing.T) {
	s := setupTestSuite(t)
	_, travelerToken := s.createUser(t, "asel@test.io", domain.RoleTraveler)
	_, otherToken := s.createUser(t, "bekzat@test.io", domain.RoleTraveler)
	_, salesToken := s.createUser(t, "sales@test.io", domain.RolePropertySales)
	property, room := s.createPropertyWithRoom(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", travelerToken, validBookingBody(property.ID, room.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := bookingField(t, resp, "id")

	// Another traveler cannot see it.
	w, _ = s.request(t, http.MethodGet, "/api/v1/bookings/"+bookingID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Staff can.
	w, _ = s.request(t, http.MethodGet, "/api/v1/bookings/"+bookingID, salesToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// List is scoped per caller.
	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data["bookings"])

	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings", salesToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["bookings"], 1)
}

func TestEscalationFlow(t *testing.T) {
	s := setupTestSuite(t)
	_, travelerToken := s.createUser(t, "traveler@test.io", domain.RoleTraveler)
	_, salesToken := s.createUser(t, "sales@test.io", domain.RolePropertySales)
	_, adminToken := s.createUser(t, "admin@test.io", domain.RoleAdmin)

	convID := uuid.NewString()

	// Traveler posts a message the agent cannot handle.
	w, resp := s.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/conversations/%s/messages", convID), travelerToken,
		map[string]interface{}{"content": "I need to move my dates"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	msg, ok := resp.Data["message"].(map[string]interface{})
	require.True(t, ok)
	messageID, _ := msg["id"].(string)

	// The agent flags it through the internal endpoint.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/messages/"+messageID+"/escalate", nil)
	req.Header.Set("Authorization", "Bearer "+internalToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Flagging twice conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/internal/messages/"+messageID+"/escalate", nil)
	req.Header.Set("Authorization", "Bearer "+internalToken)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Only admins see the queue.
	w, _ = s.request(t, http.MethodGet, "/api/v1/escalations", salesToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.request(t, http.MethodGet, "/api/v1/escalations", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["escalations"], 1)

	// Admin resolves the ticket.
	w, resp = s.request(t, http.MethodPut, "/api/v1/escalations/"+messageID, adminToken,
		map[string]interface{}{"admin_response": "Dates moved, voucher unchanged"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ticket, ok := resp.Data["escalation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "resolved", ticket["escalation_status"])
	assert.Equal(t, "Dates moved, voucher unchanged", ticket["admin_response"])

	// Resolved tickets are immutable.
	w, resp = s.request(t, http.MethodPut, "/api/v1/escalations/"+messageID, adminToken,
		map[string]interface{}{"admin_response": "second answer"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)

	// The admin reply landed in the conversation.
	w, resp = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/conversations/%s/messages", convID), travelerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	msgs, ok := resp.Data["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestDashboardStats(t *testing.T) {
	s := setupTestSuite(t)
	_, travelerToken := s.createUser(t, "traveler@test.io", domain.RoleTraveler)
	_, adminToken := s.createUser(t, "admin@test.io", domain.RoleAdmin)
	property, room := s.createPropertyWithRoom(t)

	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", travelerToken, validBookingBody(property.ID, room.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.request(t, http.MethodGet, "/api/v1/dashboard/stats", travelerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats, ok := resp.Data["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["pending"])
	assert.Equal(t, float64(1), stats["total"])
	assert.NotContains(t, stats, "pending_escalations")

	w, resp = s.request(t, http.MethodGet, "/api/v1/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats, ok = resp.Data["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), stats["pending_escalations"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"full_name": "Asel Nurlanova",
		"email":     "asel@mail.kz",
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user, ok := resp.Data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "traveler", user["role"])

	// Duplicate registration is rejected.
	w, _ = s.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"full_name": "Asel Again",
		"email":     "asel@mail.kz",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = s.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "asel@mail.kz",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)

	w, _ = s.request(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "asel@mail.kz",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
