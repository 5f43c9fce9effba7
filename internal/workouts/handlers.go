package workouts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ycfeng/slimhub/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleToggle handles POST /v1/workouts/toggle
func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	resp, err := h.service.Toggle(r.Context(), userID, req.Day, req.Exercise)
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleGetDay handles GET /v1/workouts/day?day=N
func (h *Handlers) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "day must be an integer")
		return
	}

	resp, err := h.service.GetDay(r.Context(), userID, day)
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleSummary handles GET /v1/workouts/summary
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	resp, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func handleWorkoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoSportPlan):
		writeError(w, http.StatusNotFound, "no_plan", "Generate a workout plan first")
	case errors.Is(err, ErrInvalidDay), errors.Is(err, ErrIndexOutOfRange), errors.Is(err, ErrBadUserID):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
