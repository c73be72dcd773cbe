package app

import (
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/logger"
	"github.com/examtrail/examtrail-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	StudyPlan    repos.StudyPlanRepo
	Subject      repos.SubjectRepo
	Topic        repos.TopicRepo
	StudySession repos.StudySessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		StudyPlan:    repos.NewStudyPlanRepo(db, log),
		Subject:      repos.NewSubjectRepo(db, log),
		Topic:        repos.NewTopicRepo(db, log),
		StudySession: repos.NewStudySessionRepo(db, log),
	}
}
