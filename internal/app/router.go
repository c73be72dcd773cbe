package app

import (
	"github.com/gin-gonic/gin"

	"github.com/examtrail/examtrail-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     "examtrail",
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthHandler:     handlerset.Auth,
		AuthMiddleware:  middlewareset.Auth,
		PlanHandler:     handlerset.Plan,
		ScheduleHandler: handlerset.Schedule,
		SessionHandler:  handlerset.Session,
	})
}
