package app

import (
	"github.com/gin-gonic/gin"

	"github.com/SitaaronKL/thenetwork-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:   middleware.Auth,
		ReadyPlanHandler: handlers.ReadyPlan,
		AllowOrigins:     cfg.AllowOrigins,
	})
}
