package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/examtrail/examtrail-backend/internal/handlers"
	"github.com/examtrail/examtrail-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName     string
	AllowedOrigins  []string
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	PlanHandler     *handlers.PlanHandler
	ScheduleHandler *handlers.ScheduleHandler
	SessionHandler  *handlers.SessionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "examtrail"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	router.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)

	// Plans
	api.POST("/plans", cfg.PlanHandler.Create)
	api.GET("/plans", cfg.PlanHandler.List)
	api.GET("/plans/:id", cfg.PlanHandler.Get)
	api.POST("/plans/:id/subjects", cfg.PlanHandler.AddSubject)
	api.PATCH("/topics/:id", cfg.PlanHandler.UpdateTopic)

	// Schedule
	api.POST("/plans/:id/generate", cfg.ScheduleHandler.Generate)
	api.POST("/plans/:id/replan", cfg.ScheduleHandler.Replan)
	api.GET("/plans/:id/overdue", cfg.ScheduleHandler.Overdue)
	api.GET("/plans/:id/sessions", cfg.ScheduleHandler.Sessions)

	// Sessions
	api.PATCH("/sessions/:id/status", cfg.SessionHandler.UpdateStatus)
	api.PATCH("/sessions/:id/postpone", cfg.SessionHandler.Postpone)
	api.POST("/sessions/:id/reinforce", cfg.SessionHandler.Reinforce)

	return router
}
