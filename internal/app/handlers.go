package app

import (
	"github.com/examtrail/examtrail-backend/internal/handlers"
	"github.com/examtrail/examtrail-backend/internal/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Plan     *handlers.PlanHandler
	Schedule *handlers.ScheduleHandler
	Session  *handlers.SessionHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth),
		Plan:     handlers.NewPlanHandler(serviceset.Plan),
		Schedule: handlers.NewScheduleHandler(serviceset.Schedule),
		Session:  handlers.NewSessionHandler(serviceset.Session),
	}
}
