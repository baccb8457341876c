package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/traffic-extrema/api/handlers"
	"github.com/OldStager01/traffic-extrema/api/middleware"
	"github.com/OldStager01/traffic-extrema/internal/metrics"
	"github.com/OldStager01/traffic-extrema/internal/orchestrator"
	"github.com/OldStager01/traffic-extrema/pkg/config"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

// reportRateLimit is report runs per client IP per minute
const reportRateLimit = 6

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.APIConfig
	runner     *orchestrator.Orchestrator
	monitor    handlers.HealthChecker
	metrics    *metrics.Metrics
	objects    []models.ObjectID
}

func NewServer(cfg config.APIConfig, mode string, runner *orchestrator.Orchestrator, monitor handlers.HealthChecker, m *metrics.Metrics, objects []models.ObjectID) *Server {
	switch mode {
	case "development":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.New(),
		config:  cfg,
		runner:  runner,
		monitor: monitor,
		metrics: m,
		objects: objects,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.config.CORS))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.monitor)
	metricsHandler := handlers.NewMetricsHandler(s.metrics)
	reportHandler := handlers.NewReportHandler(s.runner, s.objects)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/live", healthHandler.Live)
	s.router.GET("/metrics", metricsHandler.Exposition())

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/stats", metricsHandler.Stats)
		v1.GET("/report",
			middleware.RateLimit(middleware.NewRateLimiter(reportRateLimit, time.Minute)),
			reportHandler.Report,
		)
	}
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
