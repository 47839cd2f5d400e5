package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/myifeai/myifeai/internal/handlers"
	"github.com/myifeai/myifeai/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	AuthMiddleware *middleware.AuthMiddleware
	PlanHandler    *handlers.PlanHandler
	ProfileHandler *handlers.ProfileHandler
	TaskHandler    *handlers.TaskHandler
	WebhookHandler *handlers.WebhookHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
	}
	if allowsAll(cfg.AllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/api/health", handlers.HealthCheck)
	router.POST("/api/webhook", cfg.WebhookHandler.HandleIdentityWebhook)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/daily-actions", cfg.PlanHandler.GetDailyPlan)
	protected.GET("/generate-plan", cfg.PlanHandler.GetDailyPlan)
	protected.GET("/get-profile", cfg.ProfileHandler.GetProfile)
	protected.POST("/complete-task", cfg.TaskHandler.CompleteTask)

	return router
}

func allowsAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
