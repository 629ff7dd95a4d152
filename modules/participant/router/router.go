package router

import (
	"mediation-api/core/middleware"
	"mediation-api/modules/participant/controller"

	"github.com/labstack/echo/v4"
)

type ParticipantRouter struct {
	controller *controller.ParticipantController
}

func NewParticipantRouter(controller *controller.ParticipantController) *ParticipantRouter {
	return &ParticipantRouter{controller: controller}
}

func (r *ParticipantRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/cases/:caseId/participants", mw.AuthMiddleware())
	group.GET("", r.controller.List)
	group.POST("/invite", r.controller.Invite)
	group.POST("/accept", r.controller.Accept)
	group.PATCH("/:userId", r.controller.Patch)
	group.DELETE("/:userId", r.controller.Delete)
}
