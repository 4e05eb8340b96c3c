package rest

import (
	"errors"
	"net/http"
	"strconv"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

const defaultHistoryLimit = 360

type TelemetryHandler struct {
	svc      domain.TelemetryService
	snapshot domain.SnapshotReader
	history  domain.CurrentSampleRepository
	log      logger.Logger
}

func NewTelemetryHandler(svc domain.TelemetryService, snapshot domain.SnapshotReader, history domain.CurrentSampleRepository, log logger.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		svc:      svc,
		snapshot: snapshot,
		history:  history,
		log:      log,
	}
}

// Snapshot serves the last scheduled sample without touching the shell.
func (h *TelemetryHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot.Latest()
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotReady) {
			JSONError(w, http.StatusServiceUnavailable, "Telemetry not collected yet")
			return
		}
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{Message: "OK", Data: snap})
}

func (h *TelemetryHandler) CPU(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{Message: "OK", Data: h.svc.CPUInfo(r.Context())})
}

func (h *TelemetryHandler) GPU(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{Message: "OK", Data: h.svc.GPUInfo(r.Context())})
}

func (h *TelemetryHandler) Battery(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{Message: "OK", Data: h.svc.BatteryInfo(r.Context())})
}

func (h *TelemetryHandler) System(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{Message: "OK", Data: h.svc.SystemInfo(r.Context())})
}

func (h *TelemetryHandler) BatteryApps(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{Message: "OK", Data: h.svc.AppBatteryUsage(r.Context())})
}

func (h *TelemetryHandler) CurrentHistory(w http.ResponseWriter, r *http.Request) {
	q := domain.HistoryQuery{Limit: defaultHistoryLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			JSONValidationError(w, map[string]string{"limit": "The limit must be an integer."})
			return
		}
		q.Limit = limit
	}

	if validationErrors := ValidateStruct(q); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	samples, err := h.history.Latest(r.Context(), q.Limit)
	if err != nil {
		h.log.Error("failed to read current history", "error", err)
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    samples,
		Meta:    map[string]int{"limit": q.Limit, "count": len(samples)},
	})
}
