package reports

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ycfeng/slimhub/internal/userctx"
)

type Handlers struct {
	generator *Generator
}

func NewHandlers(generator *Generator) *Handlers {
	return &Handlers{generator: generator}
}

// HandleWeeklyReport handles GET /v1/reports/weekly?format=pdf|csv
func (h *Handlers) HandleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatPDF
	}

	data, contentType, err := h.generator.Generate(r.Context(), userID, format)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "report_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="weekly-report.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
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
