// Package task consumes participant change tasks from the queue.
package task

import (
	"context"
	"encoding/json"
	"fmt"

	"mediation-api/core/constants"
	"mediation-api/core/errors"
	"mediation-api/core/logger"
	"mediation-api/core/queue"
	"mediation-api/modules/activity/service"
	participantEntity "mediation-api/modules/participant/entity"
)

type Handler struct {
	service *service.ActivityService
}

func NewHandler(service *service.ActivityService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(srv queue.Server) {
	srv.Register(constants.TaskTypeParticipantChanged, h.HandleParticipantChanged)
}

// HandleParticipantChanged records one change event. Malformed payloads are
// dropped; store failures are returned so the queue retries.
func (h *Handler) HandleParticipantChanged(ctx context.Context, t queue.Task) error {
	var event participantEntity.ChangeEvent
	if err := json.Unmarshal(t.Payload, &event); err != nil {
		logger.Error("ActivityTask:HandleParticipantChanged:Decode", "error", err)
		return fmt.Errorf("decode %s payload: %v: %w", t.Type, err, queue.ErrSkipRetry)
	}

	if err := h.service.Record(ctx, &event); err != nil {
		if errors.CodeOf(err) == errors.ErrInvalidInput {
			return fmt.Errorf("%v: %w", err, queue.ErrSkipRetry)
		}
		logger.Error("ActivityTask:HandleParticipantChanged:Record", "event_id", event.EventID, "error", err)
		return err
	}
	return nil
}
