package participant

import (
	"mediation-api/core/middleware"
	"mediation-api/core/queue"
	"mediation-api/modules/participant/controller"
	"mediation-api/modules/participant/invariant"
	"mediation-api/modules/participant/repository"
	"mediation-api/modules/participant/router"
	"mediation-api/modules/participant/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, repo repository.ParticipantRepositoryInterface, mw *middleware.Middleware, publisher queue.Client, queueName string) *service.ParticipantService {
	svc := service.NewParticipantService(repo, invariant.NewEnforcer(), publisher, queueName)
	ctrl := controller.NewParticipantController(svc)

	router.NewParticipantRouter(ctrl).Register(e, mw)

	return svc
}
