// Package ui exposes the HTTP surface: upload analysis, analysis history,
// rendered insight reports, health, and metrics.
package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insightengine/internal"
	"insightengine/internal/config"
	"insightengine/internal/dataset"
	"insightengine/ports"
)

// Server wires the gin router to the upload processor and the optional
// analysis history repository.
type Server struct {
	router    *gin.Engine
	processor *dataset.Processor
	repo      ports.AnalysisRepository // nil disables history endpoints
	cfg       *config.Config
	logger    *internal.Logger
}

// NewServer builds the HTTP server and registers all routes.
func NewServer(processor *dataset.Processor, repo ports.AnalysisRepository, cfg *config.Config) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:    gin.New(),
		processor: processor,
		repo:      repo,
		cfg:       cfg,
		logger:    internal.DefaultLogger,
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.MaxMultipartMemory = int64(cfg.Upload.MaxFileSizeMB) << 20
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyses", s.handleListAnalyses)
		api.GET("/analyses/:id", s.handleGetAnalysis)
		api.GET("/analyses/:id/insights.html", s.handleInsightsHTML)
	}
}

// Run starts the server on the configured port and blocks.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("[server] listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok", "history": s.repo != nil}
	c.JSON(http.StatusOK, status)
}
