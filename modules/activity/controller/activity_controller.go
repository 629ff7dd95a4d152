package controller

import (
	"mediation-api/core/controller"
	"mediation-api/core/errors"
	"mediation-api/core/params"
	"mediation-api/modules/activity/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ActivityController struct {
	service *service.ActivityService
	controller.BaseController
}

func NewActivityController(service *service.ActivityService) *ActivityController {
	return &ActivityController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ListByCase returns the case's activity, newest first.
// @Summary List case activity
// @Description Paginated membership changes of the case; requires an active mediator
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param caseId path string true "Case ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.PaginatedActivityResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /cases/{caseId}/activity [get]
func (ctrl *ActivityController) ListByCase(c echo.Context) error {
	caseID, err := uuid.Parse(c.Param("caseId"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "caseId must be a valid UUID")
	}

	queryParams := params.NewQueryParams(c)
	result, err := ctrl.service.ListByCase(c.Request().Context(), caseID, *queryParams)
	if err != nil {
		return ctrl.ErrorResponse(c, err)
	}
	return ctrl.OK(c, result)
}
