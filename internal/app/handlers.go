package app

import (
	"github.com/SitaaronKL/thenetwork-backend/internal/handlers"
	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
)

type Handlers struct {
	ReadyPlan *handlers.ReadyPlanHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		ReadyPlan: handlers.NewReadyPlanHandler(log, services.ReadyPlan),
	}
}
