package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"travelhub/internal/config"
	"travelhub/internal/domain"
	"travelhub/internal/middleware"
	"travelhub/internal/modules/auth"
	"travelhub/internal/modules/booking"
	"travelhub/internal/modules/catalog"
	"travelhub/internal/modules/export"
	"travelhub/internal/modules/moderation"
	"travelhub/internal/modules/notification"
	"travelhub/internal/modules/registration"
	"travelhub/internal/modules/subscription"
	"travelhub/internal/modules/upload"
	"travelhub/internal/pkg/jwt"
	"travelhub/internal/pkg/response"
	"travelhub/internal/repository"
)

// Deps are the process-wide collaborators the router is built from.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Tokens     *jwt.Service
	Dispatcher notification.Dispatcher
	Hub        *notification.Hub
	Redis      redis.Scripter // nil disables rate limiting
	Storage    *upload.Storage
	Log        zerolog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	repos := repository.NewRepos(d.DB)
	tx := repository.NewTxRunner(d.DB)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))

	r.GET("/health", health(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(d.Storage.URLBase(), d.Storage.BaseDir())

	limit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled && d.Redis != nil {
		limit = middleware.RateLimit(d.Redis, middleware.RateLimitOptions{
			Prefix:   "rl:auth",
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		}, d.Log)
	}

	// services
	notificationService := notification.NewService(repos.Notifications, repos.Activities, repos.Users, d.Hub, d.Log)
	registrationService := registration.NewService(tx, repos.Users, d.Log)
	authService := auth.NewService(repos.Identities, repos.Users, repos.Agents, d.Tokens, d.Tokens.TTL(), d.Log)
	moderationService := moderation.NewService(tx, repos.Agents, repos.Packages, repos.Users, repos.Bookings, repos.Activities, d.Log)
	catalogService := catalog.NewService(repos.Agents, repos.Packages, repos.Users, d.Log)
	bookingService := booking.NewService(repos.Bookings, repos.Packages, repos.Agents, d.Log)
	subscriptionService := subscription.NewService(repos.Agents, repos.Packages)
	uploadService := upload.NewService(repos.Agents, d.Storage, d.Log)
	exportService := export.NewService(repos.Agents, repos.Packages, repos.Bookings)

	// handlers
	notificationHandler := notification.NewHandler(notificationService, d.Hub, d.Tokens, cfg.HTTP.AllowedOrigins, d.Log)
	registrationHandler := registration.NewHandler(registrationService, d.Dispatcher, d.Tokens, d.Log)
	authHandler := auth.NewHandler(authService, d.Dispatcher, d.Log)
	moderationHandler := moderation.NewHandler(moderationService, d.Dispatcher, d.Log)
	catalogHandler := catalog.NewHandler(catalogService, d.Dispatcher, d.Log)
	bookingHandler := booking.NewHandler(bookingService, d.Dispatcher, d.Log)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	uploadHandler := upload.NewHandler(uploadService, d.Dispatcher, d.Log)
	exportHandler := export.NewHandler(exportService, d.Dispatcher, d.Log)

	v1 := r.Group("/api/v1")
	v1.GET("/ws/notifications", notificationHandler.HandleWebSocket)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.Tokens))

	agent := protected.Group("/agent")
	agent.Use(middleware.RequireRole(domain.RoleAgent))

	customer := protected.Group("")
	customer.Use(middleware.RequireRole(domain.RoleCustomer))

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())

	registrationHandler.RegisterRoutes(v1, limit)
	authHandler.RegisterRoutes(v1, protected, limit)
	notificationHandler.RegisterRoutes(protected)
	notificationHandler.RegisterAdminRoutes(admin)
	catalogHandler.RegisterRoutes(v1, agent)
	subscriptionHandler.RegisterRoutes(v1, agent)
	bookingHandler.RegisterRoutes(customer, agent)
	uploadHandler.RegisterRoutes(agent)
	moderationHandler.RegisterRoutes(admin)
	exportHandler.RegisterRoutes(admin)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
