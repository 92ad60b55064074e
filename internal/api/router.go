package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/api/handlers"
	"github.com/a2s-soft/subtrack/internal/api/middleware"
	"github.com/a2s-soft/subtrack/internal/authz"
	"github.com/a2s-soft/subtrack/internal/config"
	"github.com/a2s-soft/subtrack/internal/engine"
	"github.com/a2s-soft/subtrack/internal/metrics"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
	"github.com/a2s-soft/subtrack/pkg/identity"
)

type Server struct {
	Config *config.Config
	Router *gin.Engine
}

func NewServer(cfg *config.Config, repo *postgres.Repository, collector *metrics.Collector, idp *identity.Client, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))
	router.Use(middleware.Metrics(collector))

	server := &Server{
		Config: cfg,
		Router: router,
	}

	h := handlers.NewHandler(repo, collector, engine.NewAnalyzer(logger), logger)
	server.setupRoutes(h, repo, idp, logger)
	return server
}

func (s *Server) setupRoutes(h *handlers.Handler, repo *postgres.Repository, idp *identity.Client, logger *zap.Logger) {
	s.Router.GET("/health", h.Health)
	s.Router.GET("/ready", h.Ready)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.Router.Group("/api/v1")
	api.Use(middleware.TokenRequired(idp))
	api.Use(middleware.ProfileRequired(repo, logger))

	{
		api.GET("/clients", h.ListClients)
		api.POST("/clients", h.CreateClient)
		api.GET("/clients/:id", h.GetClient)
		api.PUT("/clients/:id", h.UpdateClient)
		api.DELETE("/clients/:id", h.DeleteClient)
	}

	{
		api.GET("/applications", h.ListApplications)
		api.POST("/applications", h.CreateApplication)
		api.GET("/applications/:id", h.GetApplication)
		api.PUT("/applications/:id", h.UpdateApplication)
		api.DELETE("/applications/:id", h.DeleteApplication)
	}

	{
		api.GET("/subscriptions", h.ListSubscriptions)
		api.POST("/subscriptions", h.CreateSubscription)
		api.GET("/subscriptions/:id", h.GetSubscription)
		api.PUT("/subscriptions/:id", h.UpdateSubscription)
		api.DELETE("/subscriptions/:id", h.DeleteSubscription)
		api.GET("/subscriptions/:id/reminders", h.ListSubscriptionReminders)
	}

	{
		api.GET("/payments", h.ListPayments)
		api.POST("/payments", h.CreatePayment)
		api.GET("/payments/:id", h.GetPayment)
		api.PUT("/payments/:id", h.UpdatePayment)
		api.DELETE("/payments/:id", h.DeletePayment)
	}

	{
		api.GET("/installations", h.ListInstallations)
		api.POST("/installations", h.CreateInstallation)
		api.GET("/installations/:id", h.GetInstallation)
		api.PUT("/installations/:id", h.UpdateInstallation)
		api.DELETE("/installations/:id", h.DeleteInstallation)
	}

	api.GET("/alerts", h.ListAlerts)
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/analysis", h.GetAnalysis)

	users := api.Group("/users")
	users.Use(middleware.UserManagerRequired(authz.NewPolicy()))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/stats", h.GetUserStats)
		users.POST("/activate", h.ActivateUsers)
		users.POST("/deactivate", h.DeactivateUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}
