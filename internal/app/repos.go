package app

import (
	"gorm.io/gorm"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/repos"
)

type Repos struct {
	Profile      repos.ProfileRepo
	Connection   repos.ConnectionRepo
	Availability repos.AvailabilityRepo
	ReadyPlan    repos.ReadyPlanRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:      repos.NewProfileRepo(db, log),
		Connection:   repos.NewConnectionRepo(db, log),
		Availability: repos.NewAvailabilityRepo(db, log),
		ReadyPlan:    repos.NewReadyPlanRepo(db, log),
	}
}
