package app

import (
	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/scheduler"
	"github.com/SitaaronKL/thenetwork-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	ReadyPlan services.ReadyPlanService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clientset Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(log, cfg.JWTSecretKey),
		ReadyPlan: services.NewReadyPlanService(
			log,
			reposet.Profile,
			reposet.Connection,
			reposet.Availability,
			reposet.ReadyPlan,
			clientset.Ranking,
			clientset.Windows,
			clientset.Venues,
			clientset.LLM,
			scheduler.Config{AllowNextBestDay: cfg.AllowNextBestDay},
		),
	}
}
