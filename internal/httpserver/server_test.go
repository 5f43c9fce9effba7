package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ycfeng/slimhub/internal/config"
)

func testServerConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Env:               "local",
		Port:              0,
		AuthRequired:      true,
		JWTSecret:         "test-secret",
		JWTIssuer:         "slimhub-test",
		JWTTTLMinutes:     60,
		PlanCacheTTLHours: 24,
		AIMode:            "mock",
		UploadMaxMB:       5,
		UploadAllowedMime: "image/jpeg,image/png,image/webp",
		Blob: config.BlobConfig{
			Mode:     config.BlobModeLocal,
			LocalDir: t.TempDir(),
		},
	}
}

func loginAndGetToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	body := []byte(`{
		"username": "maria",
		"password": "secret",
		"age": 28,
		"height_cm": 168,
		"weight_kg": 64,
		"target_kg": 58,
		"body_type": "pear",
		"activity_type": "aerobic"
	}`)

	req := httptest.NewRequest("POST", "/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	return resp.AccessToken
}

func TestServerEndToEnd(t *testing.T) {
	server := New(testServerConfig(t))
	defer server.Close()
	handler := server.Handler()

	token := loginAndGetToken(t, handler)

	authedGet := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("Healthz", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("PlansRequireAuth", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/v1/plans/diet", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", w.Code)
		}
	})

	t.Run("DietPlan", func(t *testing.T) {
		w := authedGet("/v1/plans/diet")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Kind      string          `json:"kind"`
			Plan      json.RawMessage `json:"plan"`
			FromCache bool            `json:"from_cache"`
		}
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Kind != "diet" {
			t.Errorf("expected kind diet, got %q", resp.Kind)
		}
		if resp.FromCache {
			t.Error("first fetch should not come from cache")
		}

		// Second fetch comes from cache.
		w2 := authedGet("/v1/plans/diet")
		var resp2 struct {
			FromCache bool `json:"from_cache"`
		}
		json.NewDecoder(w2.Body).Decode(&resp2)
		if !resp2.FromCache {
			t.Error("second fetch should hit cache")
		}
	})

	t.Run("WorkoutFlow", func(t *testing.T) {
		if w := authedGet("/v1/plans/sport"); w.Code != http.StatusOK {
			t.Fatalf("sport plan failed: %d %s", w.Code, w.Body.String())
		}

		body := []byte(`{"day": 0, "exercise": 0}`)
		req := httptest.NewRequest("POST", "/v1/workouts/toggle", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("toggle failed: %d %s", w.Code, w.Body.String())
		}

		if w := authedGet("/v1/workouts/summary"); w.Code != http.StatusOK {
			t.Fatalf("summary failed: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("FoodLogText", func(t *testing.T) {
		body := []byte(`{"day": 0, "meal_type": "lunch", "description": "grilled chicken with rice"}`)
		req := httptest.NewRequest("POST", "/v1/food/log/text", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("food log failed: %d %s", w.Code, w.Body.String())
		}

		if w := authedGet("/v1/food/log/day?day=0"); w.Code != http.StatusOK {
			t.Fatalf("get day failed: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("WeeklyReportCSV", func(t *testing.T) {
		w := authedGet("/v1/reports/weekly?format=csv")
		if w.Code != http.StatusOK {
			t.Fatalf("report failed: %d %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("expected text/csv, got %q", ct)
		}
	})

	t.Run("ExerciseDetail", func(t *testing.T) {
		w := authedGet("/v1/exercises/detail?name=Squats")
		if w.Code != http.StatusOK {
			t.Fatalf("detail failed: %d %s", w.Code, w.Body.String())
		}
	})
}
