package api

import (
	"github.com/gin-gonic/gin"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/api/handlers"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/api/middleware"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/infra/database/postgres"
	pgvuln "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/infra/database/postgres/vuln"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/pkg/config"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/pkg/logger"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/pkg/metrics"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/sbom"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/scoring"
)

// Router holds all dependencies for API routing
type Router struct {
	engine  *gin.Engine
	config  *config.Config
	dbPool  *postgres.Pool
	metrics *metrics.Metrics

	healthHandler      *handlers.HealthHandler
	cveHandler         *handlers.CVEHandler
	homeHandler        *handlers.HomeHandler
	searchHandler      *handlers.SearchHandler
	environmentHandler *handlers.EnvironmentHandler
}

// NewRouter creates a new API router with all dependencies
func NewRouter(cfg *config.Config, dbPool *postgres.Pool, version string) (*Router, error) {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Create Gin engine
	engine := gin.New()

	// Create data sources
	source := pgvuln.NewSignalSource(dbPool.Pool)
	catalog := pgvuln.NewCatalogReader(dbPool.Pool)

	// Create services
	scoringCfg := scoring.DefaultConfig()
	scoringCfg.Workers = cfg.Scoring.Workers
	scoringCfg.FetchTimeout = cfg.Scoring.FetchTimeout
	scoringCfg.CandidatePool = cfg.Scoring.CandidatePool
	scoringCfg.DefaultWindow = cfg.Scoring.DefaultWindow
	scoringCfg.DefaultRankLimit = cfg.Scoring.DefaultRankLimit

	scorer, err := scoring.NewService(source, scoringCfg)
	if err != nil {
		return nil, err
	}

	scanner := sbom.NewScanner(nil, sbom.Config{
		ToolPath: cfg.SBOM.ToolPath,
		WorkDir:  cfg.SBOM.WorkDir,
		Timeout:  cfg.SBOM.Timeout,
	})

	router := &Router{
		engine:  engine,
		config:  cfg,
		dbPool:  dbPool,
		metrics: metrics.New(),

		healthHandler:      handlers.NewHealthHandler(dbPool, version),
		cveHandler:         handlers.NewCVEHandler(scorer),
		homeHandler:        handlers.NewHomeHandler(scorer, catalog),
		searchHandler:      handlers.NewSearchHandler(catalog),
		environmentHandler: handlers.NewEnvironmentHandler(scanner),
	}

	// Setup middlewares and routes
	router.setupMiddlewares()
	router.setupRoutes()

	return router, nil
}

// setupMiddlewares configures all global middlewares
func (r *Router) setupMiddlewares() {
	// Recovery middleware (must be first)
	r.engine.Use(middleware.Recovery())

	// Request ID middleware
	r.engine.Use(middleware.RequestID())

	// Logging middleware
	accessLogger := logger.NewAccessLogger(
		r.config.Logging.FilePath,
		r.config.Logging.RotationSize,
		r.config.Logging.RetentionDays,
	)
	r.engine.Use(middleware.Logging(middleware.LoggingConfig{
		AccessLogger: &accessLogger,
		SkipPaths:    []string{"/health", "/health/ready", "/metrics"}, // Skip probes to reduce noise
	}))

	// CORS middleware
	if r.config.Server.Mode == "debug" {
		r.engine.Use(middleware.CORS(middleware.DevelopmentCORSConfig()))
	} else {
		r.engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	// Rate limit middleware
	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: r.config.RateLimit.RequestsPerSecond,
		Burst:             r.config.RateLimit.Burst,
	}))

	// Prometheus middleware
	r.engine.Use(middleware.Metrics(r.metrics))
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health checks and metrics (no /api prefix)
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/health/ready", r.healthHandler.Ready)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	// API routes
	api := r.engine.Group("/api/v1")
	{
		// Detailed health check
		api.GET("/health/detailed", r.healthHandler.Detailed)

		// Per-CVE API
		cve := api.Group("/cve/:id")
		{
			cve.GET("/basic", r.cveHandler.Basic)
			cve.GET("/scores", r.cveHandler.Scores)
			cve.GET("/stats", r.cveHandler.Stats)
			cve.GET("/timeline", r.cveHandler.Timeline)
			cve.GET("/related", r.cveHandler.Related)
			cve.POST("/summary", r.cveHandler.Summary)
			cve.POST("/recommendations", r.cveHandler.Recommendations)
		}

		// Home API
		home := api.Group("/home")
		{
			home.GET("/rankings", r.homeHandler.Rankings)
			home.GET("/latest-updates", r.homeHandler.LatestUpdates)
			home.GET("/today-news", r.homeHandler.TodayNews)
		}

		// Search API
		api.GET("/search", r.searchHandler.Search)

		// Environment scan API
		api.POST("/environment/scan", r.environmentHandler.Scan)
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
