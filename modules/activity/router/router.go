package router

import (
	"mediation-api/core/middleware"
	"mediation-api/modules/activity/controller"

	"github.com/labstack/echo/v4"
)

type ActivityRouter struct {
	controller *controller.ActivityController
}

func NewActivityRouter(controller *controller.ActivityController) *ActivityRouter {
	return &ActivityRouter{controller: controller}
}

func (r *ActivityRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	e.GET("/cases/:caseId/activity", r.controller.ListByCase, mw.AuthMiddleware())
}
