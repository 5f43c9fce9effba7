package planner

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetDietPlan handles GET /v1/plans/diet
func (h *Handlers) HandleGetDietPlan(w http.ResponseWriter, r *http.Request) {
	h.servePlan(w, r, plan.KindDiet)
}

// HandleGetSportPlan handles GET /v1/plans/sport
func (h *Handlers) HandleGetSportPlan(w http.ResponseWriter, r *http.Request) {
	h.servePlan(w, r, plan.KindSport)
}

func (h *Handlers) servePlan(w http.ResponseWriter, r *http.Request, kind plan.Kind) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	force := r.URL.Query().Get("force") == "1"

	result, err := h.service.GetPlan(r.Context(), userID, kind, force)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, ErrUnknownKind):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "plan_generation_failed", err.Error())
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
