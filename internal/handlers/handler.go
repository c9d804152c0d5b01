package handlers

import (
	"roastwatch/internal/logger"
	"roastwatch/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	auth := router.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}

	api := router.Group("/api/v1", h.userIDMiddleware)
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", h.createSession)
			sessions.GET("", h.listSessions)
			sessions.GET("/:id", h.getSession)
			sessions.PUT("/:id", h.updateSession)

			sessions.POST("/:id/readings", h.addReading)
			sessions.GET("/:id/readings", h.listReadings)
			sessions.PUT("/:id/readings/:readingId", h.updateReading)
			sessions.DELETE("/:id/readings/:readingId", h.deleteReading)

			sessions.POST("/:id/oven-events", h.addOvenEvent)
			sessions.GET("/:id/oven-events", h.listOvenEvents)
			sessions.DELETE("/:id/oven-events/:eventId", h.deleteOvenEvent)

			sessions.GET("/:id/calculations", h.getCalculations)
			sessions.GET("/:id/responsiveness", h.getResponsiveness)
			sessions.GET("/:id/activity", h.getActivity)
			sessions.POST("/:id/recommendations/apply", h.applyRecommendation)
		}
	}

	// Live calculation stream over the same port.
	router.GET("/ws", h.wsConnect)

	return router
}
