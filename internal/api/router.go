package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/gustovivo/internal/api/handler"
	"github.com/timmy/gustovivo/internal/api/middleware"
	"github.com/timmy/gustovivo/internal/config"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/service"
)

// SetupRouter configures the Gin router with all routes.
// imagesDir is served under /images; an empty value disables it.
func SetupRouter(
	previewService *service.PreviewService,
	historyService *service.HistoryService,
	imagesDir string,
	cfg *config.ServerConfig,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	renderHandler := handler.NewRenderHandler(previewService)
	jobHandler := handler.NewJobHandler(historyService)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Generated tree
	if imagesDir != "" {
		r.Static("/images", imagesDir)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Categories
		v1.GET("/categories", renderHandler.ListCategories)

		// On-demand placeholders
		v1.GET("/render/:category", renderHandler.Render)

		// Run history
		v1.GET("/jobs", jobHandler.ListJobs)
		v1.GET("/jobs/:id", jobHandler.GetJob)
	}

	return r
}
