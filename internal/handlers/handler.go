package handlers

import (
	"measurement_collector/internal/logger"
	"measurement_collector/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// WebSocket live feed (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware)
	{
		h.registerSeriesRoutes(api)
		h.registerExportRoutes(api)
		api.GET("/state", h.getState)
		api.GET("/archive", h.getArchive)
	}
}

func (h *Handler) registerSeriesRoutes(api *gin.RouterGroup) {
	series := api.Group("/series")
	{
		series.GET("", h.listSeries)
		series.GET("/:index", h.getSeries)
		series.DELETE("", h.removeAllSeries)
		series.DELETE("/last", h.removeLastSeries)
	}
}

func (h *Handler) registerExportRoutes(api *gin.RouterGroup) {
	export := api.Group("/export")
	{
		// Body example: {"filename":"run-2026-08-23.csv"}
		export.POST("/tabular", h.exportTabular)
		export.POST("/script", h.exportScript)
	}
}
