package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/plan"
)

func testProfile() plan.UserProfile {
	return plan.UserProfile{
		Age:          30,
		HeightCm:     175,
		WeightKg:     82,
		TargetKg:     74,
		BodyType:     plan.BodyBalanced,
		ActivityType: plan.ActivityMixed,
	}
}

// arkTestProvider spins up a fake chat completions endpoint that always
// answers with the given message content.
func arkTestProvider(t *testing.T, content string) *ArkProvider {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		response := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	return NewArkProvider(&config.Config{
		ArkAPIKey:    "test-key",
		ArkBaseURL:   server.URL,
		ArkChatModel: "test-model",
	})
}

func dietDayJSON(day string, macroSuffix string) string {
	return fmt.Sprintf(
		`{"day": %q, "diet": {"max_calorie": 1800, "carbohydrate%s": 200, "protein%s": 90, "fat%s": 55, "sugar%s": 30, `+
			`"breakfast": "oatmeal", "lunch": "chicken and rice", "dinner": "fish and vegetables"}}`,
		day, macroSuffix, macroSuffix, macroSuffix, macroSuffix,
	)
}

func weekDietJSON(macroSuffix string) string {
	days := make([]string, 0, 7)
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		days = append(days, dietDayJSON(day, macroSuffix))
	}
	return `{"plan": [` + strings.Join(days, ",") + `]}`
}

func TestRecognizeFoodTextStringCalories(t *testing.T) {
	provider := arkTestProvider(t, `{"food_name": "红烧肉", "calories": "约250大卡", "amount": "1份"}`)

	estimate, err := provider.RecognizeFoodText(context.Background(), "红烧肉")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.FoodName != "红烧肉" {
		t.Errorf("unexpected food name %q", estimate.FoodName)
	}
	if got := estimate.Calories.Int(); got != 250 {
		t.Errorf("expected 250 kcal from text calories, got %d", got)
	}
}

func TestGenerateDietPlanParsesMacros(t *testing.T) {
	provider := arkTestProvider(t, weekDietJSON("_g"))

	dietPlan, err := provider.GenerateDietPlan(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	monday := dietPlan.Days[0].Diet
	if monday.MaxCalorie != 1800 || monday.Carbohydrate != 200 || monday.Protein != 90 || monday.Fat != 55 {
		t.Errorf("macros lost in parsing: %+v", monday)
	}
}

func TestGenerateDietPlanRejectsMissingMacros(t *testing.T) {
	// Macro keys without the _g suffix land nowhere, so every macro
	// stays zero and the plan must be rejected.
	provider := arkTestProvider(t, weekDietJSON(""))

	_, err := provider.GenerateDietPlan(context.Background(), testProfile())
	if !errors.Is(err, ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat for zero macros, got %v", err)
	}
}

func TestGenerateDietPlanRejectsWrongDayCount(t *testing.T) {
	provider := arkTestProvider(t, `{"plan": [`+dietDayJSON("Monday", "_g")+`]}`)

	_, err := provider.GenerateDietPlan(context.Background(), testProfile())
	if !errors.Is(err, ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat for short plan, got %v", err)
	}
}
