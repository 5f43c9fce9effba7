package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase string
	token   string
	client  = &http.Client{Timeout: 150 * time.Second}
)

func main() {
	fmt.Println("=== SlimHub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Login", testLogin},
		{"Me", testMe},
		{"Diet Plan", testDietPlan},
		{"Diet Plan (cached)", testDietPlanCached},
		{"Sport Plan", testSportPlan},
		{"Log Food (text)", testLogFoodText},
		{"Food Day", testFoodDay},
		{"Toggle Workout", testToggleWorkout},
		{"Workout Summary", testWorkoutSummary},
		{"Exercise Detail", testExerciseDetail},
		{"Weekly Report (CSV)", testWeeklyReportCSV},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("✅ SMOKE TEST PASSED")
}

// ---- steps ----

func testHealthz() error {
	resp, body, err := doRequest("GET", "/healthz", nil, false)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func testLogin() error {
	payload := map[string]any{
		"username":      fmt.Sprintf("smoke_%d", time.Now().Unix()),
		"password":      "smoke-pass",
		"age":           30,
		"height_cm":     175.0,
		"weight_kg":     82.0,
		"target_kg":     74.0,
		"body_type":     "balanced",
		"activity_type": "mixed",
	}
	resp, body, err := doRequest("POST", "/v1/auth/login", payload, false)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("empty access_token in response: %s", body)
	}
	token = out.AccessToken
	return nil
}

func testMe() error {
	resp, body, err := doRequest("GET", "/v1/auth/me", nil, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func testDietPlan() error {
	return fetchPlan("/v1/plans/diet", false)
}

func testDietPlanCached() error {
	return fetchPlan("/v1/plans/diet", true)
}

func testSportPlan() error {
	return fetchPlan("/v1/plans/sport", false)
}

func fetchPlan(path string, wantCached bool) error {
	resp, body, err := doRequest("GET", path, nil, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Plan      json.RawMessage `json:"plan"`
		FromCache bool            `json:"from_cache"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode plan response: %w", err)
	}
	if len(out.Plan) == 0 {
		return fmt.Errorf("empty plan in response")
	}
	if wantCached && !out.FromCache {
		return fmt.Errorf("expected from_cache=true on second fetch")
	}
	return nil
}

func testLogFoodText() error {
	payload := map[string]any{
		"day":         0,
		"meal_type":   "lunch",
		"description": "a bowl of rice with chicken",
	}
	resp, body, err := doRequest("POST", "/v1/food/log/text", payload, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func testFoodDay() error {
	resp, body, err := doRequest("GET", "/v1/food/log/day?day=0", nil, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode day response: %w", err)
	}
	if len(out.Entries) == 0 {
		return fmt.Errorf("expected at least one entry after text log")
	}
	return nil
}

func testToggleWorkout() error {
	payload := map[string]any{"day": 0, "exercise": 0}
	resp, body, err := doRequest("POST", "/v1/workouts/toggle", payload, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func testWorkoutSummary() error {
	resp, body, err := doRequest("GET", "/v1/workouts/summary", nil, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		DoneCount int `json:"done_count"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode summary response: %w", err)
	}
	if out.DoneCount < 1 {
		return fmt.Errorf("expected done_count >= 1 after toggle, got %d", out.DoneCount)
	}
	return nil
}

func testExerciseDetail() error {
	resp, body, err := doRequest("GET", "/v1/exercises/detail?name=squat", nil, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func testWeeklyReportCSV() error {
	resp, body, err := doRequest("GET", "/v1/reports/weekly?format=csv", nil, true)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(string(body), "day,") {
		return fmt.Errorf("unexpected CSV header: %q", firstLine(string(body)))
	}
	return nil
}

// ---- plumbing ----

func doRequest(method, path string, payload any, withAuth bool) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reqBody)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read body: %w", err)
	}
	return resp, body, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
