package httpapi

import (
	"net/http"
	"time"

	"github.com/osegonte/football-dashboard/internal/usecase"
)

func (h *Handler) TriggerPipelineRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerPipelineRun")
	defer span.End()

	if err := h.pipelineService.Start(ctx); err != nil {
		h.logger.WarnContext(ctx, "pipeline run rejected", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, runStatusToDTO(h.pipelineService.Status()))
}

func (h *Handler) GetPipelineStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPipelineStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, runStatusToDTO(h.pipelineService.Status()))
}

type runStatusDTO struct {
	State      string           `json:"state"`
	StartedAt  *string          `json:"startedAt"`
	FinishedAt *string          `json:"finishedAt"`
	Stats      usecase.RunStats `json:"stats"`
	Errors     []string         `json:"errors"`
}

func runStatusToDTO(v usecase.RunStatus) runStatusDTO {
	dto := runStatusDTO{
		State:  string(v.State),
		Stats:  v.Stats,
		Errors: append([]string{}, v.Errors...),
	}
	if v.StartedAt != nil {
		formatted := v.StartedAt.UTC().Format(time.RFC3339)
		dto.StartedAt = &formatted
	}
	if v.FinishedAt != nil {
		formatted := v.FinishedAt.UTC().Format(time.RFC3339)
		dto.FinishedAt = &formatted
	}

	return dto
}
