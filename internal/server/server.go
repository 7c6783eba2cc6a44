package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quantive/execengine/internal/config"
	"github.com/quantive/execengine/internal/handlers"
	"github.com/quantive/execengine/internal/middleware"
)

// Server interface - following Interface Segregation Principle
type Server interface {
	Setup()
	Start() error
	Router() *gin.Engine
}

// HTTPServer implements the Server interface
type HTTPServer struct {
	router   *gin.Engine
	config   *config.Config
	logger   *zap.Logger
	services *Services
}

// Services holds all handler dependencies
type Services struct {
	ExecutionHandler *handlers.ExecutionHandler
	MetricsRegistry  *prometheus.Registry
}

// New creates a new server instance
func New(cfg *config.Config, svcs *Services, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		config:   cfg,
		services: svcs,
		logger:   logger,
	}
}

// Setup initializes the router, middleware and routes
func (s *HTTPServer) Setup() {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()
}

func (s *HTTPServer) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: s.config.CORS.AllowCredentials,
		MaxAge:           s.config.CORS.MaxAge,
	}))
}

func (s *HTTPServer) setupRoutes() {
	if s.config.Metrics.Enabled && s.services.MetricsRegistry != nil {
		s.router.GET(s.config.Metrics.Path, gin.WrapH(
			promhttp.HandlerFor(s.services.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/v1")

	v1.GET("/health", s.healthCheck)

	h := s.services.ExecutionHandler
	if h == nil {
		return
	}

	plans := v1.Group("/plans")
	{
		plans.POST("", h.BuildPlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
	}

	v1.POST("/slippage", h.EstimateSlippage)
	v1.POST("/fills", h.EstimateFill)
	v1.POST("/adjustments", h.AdjustOrder)

	queue := v1.Group("/queue/orders")
	{
		queue.POST("", h.TrackOrder)
		queue.GET("/:id", h.GetTrackedOrder)
		queue.POST("/:id/refresh", h.RefreshTrackedOrder)
		queue.DELETE("/:id", h.RemoveTrackedOrder)
	}

	v1.PUT("/snapshots", h.StoreSnapshot)
}

func (s *HTTPServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.config.Version,
		"uptime":    time.Since(s.config.StartTime).Seconds(),
	})
}

// Start starts the HTTP server with graceful shutdown
func (s *HTTPServer) Start() error {
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", s.config.Port),
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		s.logger.Info("Starting server",
			zap.Int("port", s.config.Port),
			zap.String("environment", s.config.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("Server exited")
	return nil
}

// Router returns the gin router for testing
func (s *HTTPServer) Router() *gin.Engine {
	return s.router
}
