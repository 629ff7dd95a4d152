package mapper

import (
	"mediation-api/modules/participant/dto"
	"mediation-api/modules/participant/entity"
)

func ToParticipantResponse(p *entity.Participant) *dto.ParticipantResponse {
	return &dto.ParticipantResponse{
		CaseID:    p.CaseID,
		UserID:    p.UserID,
		Role:      string(p.Role),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToParticipantResponses(participants []entity.Participant) []dto.ParticipantResponse {
	responses := make([]dto.ParticipantResponse, len(participants))
	for i := range participants {
		responses[i] = *ToParticipantResponse(&participants[i])
	}
	return responses
}

// ToPatch converts an already validated request.
func ToPatch(req *dto.PatchRequest) entity.Patch {
	var patch entity.Patch
	if req.Role != nil {
		role := entity.Role(*req.Role)
		patch.Role = &role
	}
	if req.Status != nil {
		status := entity.Status(*req.Status)
		patch.Status = &status
	}
	return patch
}
