package exercises

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDetail handles GET /v1/exercises/detail?name=...
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	detail, err := h.service.Detail(r.Context(), name)
	if err != nil {
		if errors.Is(err, ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		writeError(w, http.StatusBadGateway, "detail_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(detail)
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
