package foodlog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ycfeng/slimhub/internal/foodscan"
	"github.com/ycfeng/slimhub/internal/userctx"
)

type Handlers struct {
	service *Service
	scanner *foodscan.Service
}

func NewHandlers(service *Service, scanner *foodscan.Service) *Handlers {
	return &Handlers{
		service: service,
		scanner: scanner,
	}
}

// HandleLogText handles POST /v1/food/log/text
func (h *Handlers) HandleLogText(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	recognized, err := h.scanner.RecognizeText(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, foodscan.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "invalid_request", "description is required")
			return
		}
		writeError(w, http.StatusBadGateway, "recognition_failed", err.Error())
		return
	}

	entry := FoodEntry{
		FoodName: recognized.FoodName,
		MealType: req.MealType,
		Calories: recognized.Calories,
		Amount:   recognized.Amount,
		ImageURL: recognized.ImageURL,
	}

	resp, err := h.service.AddEntry(r.Context(), userID, req.Day, entry)
	if err != nil {
		handleLogError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleLogPhoto handles POST /v1/food/log/photo (multipart form with
// "image" file plus "day" and "meal_type" fields).
func (h *Handlers) HandleLogPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	// One extra MB of headroom for the multipart envelope.
	if err := r.ParseMultipartForm(int64(6) * 1024 * 1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Expected multipart form with image")
		return
	}

	day, err := strconv.Atoi(r.FormValue("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "day must be an integer")
		return
	}
	mealType := r.FormValue("meal_type")

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "image file is required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read image")
		return
	}

	recognized, err := h.scanner.RecognizeImage(r.Context(), userID, imageData)
	if err != nil {
		switch {
		case errors.Is(err, foodscan.ErrImageTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "image_too_large", err.Error())
		case errors.Is(err, foodscan.ErrUnsupportedMime):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_image_type", err.Error())
		case errors.Is(err, foodscan.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "invalid_request", "image is empty")
		default:
			writeError(w, http.StatusBadGateway, "recognition_failed", err.Error())
		}
		return
	}

	entry := FoodEntry{
		FoodName: recognized.FoodName,
		MealType: mealType,
		Calories: recognized.Calories,
		Amount:   recognized.Amount,
		ImageURL: recognized.ImageURL,
	}

	resp, err := h.service.AddEntry(r.Context(), userID, day, entry)
	if err != nil {
		handleLogError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleGetDay handles GET /v1/food/log/day?day=N
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
		handleLogError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func handleLogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDay), errors.Is(err, ErrInvalidMealType), errors.Is(err, ErrInvalidEntry):
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
