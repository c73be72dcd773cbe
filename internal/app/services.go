package app

import (
	"os"

	"gorm.io/gorm"

	redisclient "github.com/examtrail/examtrail-backend/internal/clients/redis"
	"github.com/examtrail/examtrail-backend/internal/logger"
	"github.com/examtrail/examtrail-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Plan     services.PlanService
	Schedule services.ScheduleService
	Session  services.SessionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	var locker redisclient.PlanLocker
	if os.Getenv("REDIS_ADDR") != "" {
		l, err := redisclient.NewPlanLocker(log)
		if err != nil {
			return Services{}, err
		}
		locker = l
	} else {
		log.Warn("REDIS_ADDR not set, plan lock disabled")
		locker = redisclient.NoopPlanLocker{}
	}

	authService := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	planService := services.NewPlanService(db, log, reposet.StudyPlan, reposet.Subject, reposet.Topic)
	scheduleService := services.NewScheduleService(
		db, log,
		planService, reposet.Topic, reposet.StudySession, reposet.StudyPlan,
		locker,
	)
	sessionService := services.NewSessionService(db, log, reposet.StudyPlan, reposet.Topic, reposet.StudySession)

	return Services{
		Auth:     authService,
		Plan:     planService,
		Schedule: scheduleService,
		Session:  sessionService,
	}, nil
}
