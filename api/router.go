package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/media-resolve-go/api/handlers"
	"github.com/yourusername/media-resolve-go/api/middleware"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/pkg/logger"
)

// resolvePaths are the routes serving the resolve handler
var resolvePaths = []string{"/api/resolve", "/api/v1/resolve"}

// SetupRouter sets up the HTTP router shared by the server and Lambda entrypoints
func SetupRouter(service *app.ResolveService, logAdapter *logger.LoggerAdapter) *gin.Engine {
	if logAdapter == nil {
		logAdapter = logger.NewSingleLoggerAdapter(nil)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logAdapter))
	router.Use(middleware.Recovery(logAdapter))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(service)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Resolve endpoints
	resolveHandler := handlers.NewResolveHandler(service)
	for _, path := range resolvePaths {
		router.GET(path, resolveHandler.Resolve)
		router.POST(path, resolveHandler.Resolve)
		router.OPTIONS(path, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	// Audit trail endpoints
	if service.HistoryEnabled() {
		historyHandler := handlers.NewHistoryHandler(service, logAdapter.General())
		resolutions := router.Group("/api/v1/resolutions")
		{
			resolutions.GET("", historyHandler.ListResolutions)
			resolutions.GET("/stats", historyHandler.GetStats)
			resolutions.GET("/:id", historyHandler.GetResolution)
		}
	}

	// Log endpoints, only when categorized log files are written
	if logsDir := logAdapter.LogsDir(); logsDir != "" {
		logHandler := handlers.NewLogHandler(logsDir)
		logs := router.Group("/api/v1/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/export", logHandler.ExportLogs)
		}
	}

	router.NoMethod(handlers.MethodNotAllowed)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
