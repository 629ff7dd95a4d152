package controller

import (
	"mediation-api/core/controller"
	"mediation-api/core/errors"
	"mediation-api/core/middleware"
	"mediation-api/modules/participant/dto"
	"mediation-api/modules/participant/entity"
	"mediation-api/modules/participant/mapper"
	"mediation-api/modules/participant/service"
	"mediation-api/modules/participant/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ParticipantController struct {
	service *service.ParticipantService
	controller.BaseController
}

func NewParticipantController(service *service.ParticipantService) *ParticipantController {
	return &ParticipantController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// List returns every participant of the case.
// @Summary List participants
// @Description Returns every participant attached to the case
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param caseId path string true "Case ID"
// @Success 200 {array} dto.ParticipantResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /cases/{caseId}/participants [get]
func (ctrl *ParticipantController) List(c echo.Context) error {
	caseID, err := pathUUID(c, "caseId")
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "caseId must be a valid UUID")
	}

	participants, err := ctrl.service.List(c.Request().Context(), caseID)
	if err != nil {
		return ctrl.ErrorResponse(c, err)
	}
	return ctrl.OK(c, mapper.ToParticipantResponses(participants))
}

// Invite attaches a user to the case with a role
// @Summary Invite participant
// @Description Creates or resets an invitation; requires an active mediator
// @Tags Participant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param caseId path string true "Case ID"
// @Param request body dto.InviteRequest true "User and role"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /cases/{caseId}/participants/invite [post]
func (ctrl *ParticipantController) Invite(c echo.Context) error {
	caseID, err := pathUUID(c, "caseId")
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "caseId must be a valid UUID")
	}

	requestData := new(dto.InviteRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	validationResult := validator.ValidateInviteRequest(requestData)
	if validationResult.HasError() {
		return ctrl.BadRequest(errors.ErrInvalidInput, validationResult.Message(), validationResult)
	}

	userID, err := uuid.Parse(requestData.UserID)
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "userId must be a valid UUID")
	}

	participant, err := ctrl.service.Invite(c.Request().Context(), caseID, userID, entity.Role(requestData.Role))
	if err != nil {
		return ctrl.ErrorResponse(c, err)
	}
	return ctrl.OK(c, mapper.ToParticipantResponse(participant))
}

// Accept activates the caller's own invitation.
// @Summary Accept invitation
// @Description Activates the caller's invitation to the case
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param caseId path string true "Case ID"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /cases/{caseId}/participants/accept [post]
func (ctrl *ParticipantController) Accept(c echo.Context) error {
	caseID, err := pathUUID(c, "caseId")
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "caseId must be a valid UUID")
	}
	caller, err := middleware.CallerFromContext(c)
	if err != nil {
		return ctrl.ErrorResponse(c, err)
	}

	participant, err := ctrl.service.Accept(c.Request().Context(), caseID, caller.UserID)
	if err != nil {
		return ctrl.ErrorResponse(c, err)
	}
	return ctrl.OK(c, mapper.ToParticipantResponse(participant))
}

// @Summary Update participant
// @Description Changes role and/or status; the last active mediator cannot be demoted
// @Tags Participant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param caseId path string true "Case ID"
// @Param userId path string true "User ID"
// @Param request body dto.PatchRequest true "Fields to change"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /cases/{caseId}/participants/{userId} [patch]
func (ctrl *ParticipantController) Patch(c echo.Context) error {
	caseID, userID, err := caseAndUser(c)
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, err.Error())
	}

	requestData := new(dto.PatchRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	validationResult := validator.ValidatePatchRequest(requestData)
	if validationResult.HasError() {
		return ctrl.BadRequest(errors.ErrInvalidInput, validationResult.Message(), validationResult)
	}

	participant, err := ctrl.service.Patch(c.Request().Context(), caseID, userID, mapper.ToPatch(requestData))
	if err != nil {
		return ctrl.ErrorResponse(c, err)
	}
	return ctrl.OK(c, mapper.ToParticipantResponse(participant))
}

// @Summary Remove participant
// @Description Detaches a user from the case; the last active mediator cannot be removed
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param caseId path string true "Case ID"
// @Param userId path string true "User ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /cases/{caseId}/participants/{userId} [delete]
func (ctrl *ParticipantController) Delete(c echo.Context) error {
	caseID, userID, err := caseAndUser(c)
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, err.Error())
	}

	if err := ctrl.service.Delete(c.Request().Context(), caseID, userID); err != nil {
		return ctrl.ErrorResponse(c, err)
	}
	return ctrl.OK(c, dto.DeleteResponse{Success: true})
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func caseAndUser(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	caseID, err := pathUUID(c, "caseId")
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("caseId must be a valid UUID")
	}
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("userId must be a valid UUID")
	}
	return caseID, userID, nil
}
