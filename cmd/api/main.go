package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

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
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Message{},
	); err != nil {
		log.Fatal(err)
	}

	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(propertyRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, propertyRepo, repository.IsUniqueViolation)
	bookingHandler := booking.NewHandler(bookingService)

	chatService := chat.NewService(messageRepo)
	chatHandler := chat.NewHandler(chatService)

	hub := escalation.NewHub()
	defer hub.Close()

	escalationService := escalation.NewService(messageRepo, hub)
	escalationHandler := escalation.NewHandler(escalationService, hub)

	dashboardService := dashboard.NewService(
		bookingRepo,
		messageRepo,
		dashboard.NewStatsCache(redisClient),
	)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	requireAuth := middleware.RequireAuth(func(tokenStr string) (string, string, error) {
		claims, err := j.ValidateToken(tokenStr)
		if err != nil {
			return "", "", err
		}
		return claims.UserID, claims.Role, nil
	})

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		// protected
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

		// system-internal callbacks (completion sweeps, gateway
		// declines, agent escalation flagging)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth())
		{
			bookingHandler.RegisterInternalRoutes(internal)
			escalationHandler.RegisterInternalRoutes(internal)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
