package mapper

import (
	"mediation-api/modules/activity/dto"
	"mediation-api/modules/activity/entity"
	participantEntity "mediation-api/modules/participant/entity"
)

func ToActivityEntity(event *participantEntity.ChangeEvent) *entity.Activity {
	return &entity.Activity{
		EventID:    event.EventID,
		CaseID:     event.CaseID,
		UserID:     event.UserID,
		ActorID:    event.ActorID,
		Action:     string(event.Action),
		Role:       string(event.Role),
		Status:     string(event.Status),
		OccurredAt: event.OccurredAt,
	}
}

func ToActivityResponse(a *entity.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:         a.ID,
		CaseID:     a.CaseID,
		UserID:     a.UserID,
		ActorID:    a.ActorID,
		Action:     a.Action,
		Role:       a.Role,
		Status:     a.Status,
		OccurredAt: a.OccurredAt,
	}
}

func ToActivityPaginationResponse(page *entity.PaginatedActivityEntity) *dto.PaginatedActivityResponse {
	if page == nil {
		return &dto.PaginatedActivityResponse{Items: []dto.ActivityResponse{}}
	}
	items := make([]dto.ActivityResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToActivityResponse(&page.Items[i])
	}
	return &dto.PaginatedActivityResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
