package activity

import (
	"mediation-api/core/database"
	"mediation-api/core/middleware"
	"mediation-api/modules/activity/controller"
	"mediation-api/modules/activity/repository"
	"mediation-api/modules/activity/router"
	"mediation-api/modules/activity/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware, authorizer service.Authorizer) *service.ActivityService {
	repo := repository.NewActivityRepository(db)
	svc := service.NewActivityService(repo, authorizer)
	ctrl := controller.NewActivityController(svc)

	router.NewActivityRouter(ctrl).Register(e, mw)

	return svc
}

// NewService builds the service without HTTP routes, for the worker.
func NewService(db database.IDatabase, authorizer service.Authorizer) *service.ActivityService {
	return service.NewActivityService(repository.NewActivityRepository(db), authorizer)
}
