package schedule

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sumedhd1118/chargback-export/pkg/models/api"
	schedulesvc "github.com/sumedhd1118/chargback-export/pkg/services/schedule"
)

// StatusProvider exposes the scheduler state
type StatusProvider interface {
	Status() schedulesvc.Status
}

type Handler struct {
	provider StatusProvider
}

func NewHandler(provider StatusProvider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	status := h.provider.Status()

	response := api.ScheduleStatus{
		Spec:    status.Spec,
		NextRun: status.NextRun,
	}
	if last := status.LastRun; last != nil {
		record := &api.RunRecord{
			Period:     last.Period.Label(),
			StartedAt:  last.StartedAt,
			FinishedAt: last.FinishedAt,
			File:       last.FilePath,
			Rows:       last.Rows,
		}
		if last.Err != nil {
			record.Error = last.Err.Error()
		}
		response.LastRun = record
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode schedule status")
	}
}
