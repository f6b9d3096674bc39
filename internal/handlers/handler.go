package handlers

import (
	"controlling_motor/internal/logger"
	"controlling_motor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
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

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// status and log stream on the same port
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

// Reads are open; anything that changes the device needs credentials.
func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/info", h.getInfo)
		api.GET("/status", h.getStatus)
		api.GET("/history", h.getHistory)
		api.GET("/events", h.getEvents)
		api.GET("/sessions", h.getSessions)
		api.GET("/config", h.getConfig)
		api.GET("/calibration", h.getCalibration)
	}

	cmd := r.Group("/api/v1", h.commandAuthMiddleware)
	{
		cmd.POST("/config", h.setConfig)
		cmd.POST("/control", h.control)
		cmd.POST("/run_timer", h.runTimer)
		cmd.POST("/calibrate", h.calibrate)
		cmd.POST("/rtc", h.setRTC)
	}
}
