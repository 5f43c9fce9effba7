package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/foodlog"
	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/storage/memory"
	"github.com/ycfeng/slimhub/internal/workouts"
)

func setupReportTest(t *testing.T) (*Generator, string) {
	t.Helper()

	memStorage := memory.New()
	userID := uuid.New()

	foodService := foodlog.NewService(memStorage.FoodLogs())
	workoutService := workouts.NewService(memStorage.Plans(), memStorage.Completions())
	generator := NewGenerator(foodService, workoutService)

	ctx := context.Background()
	if _, err := foodService.AddEntry(ctx, userID.String(), 0, foodlog.FoodEntry{
		FoodName: "Oatmeal", MealType: foodlog.MealBreakfast, Calories: 320,
	}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	sportPlan := plan.SportPlan{Days: []plan.DayWorkout{
		{Day: "Monday", Exercises: []plan.Exercise{{Name: "Squats", Calories: plan.Calories(60)}}},
		{Day: "Tuesday"}, {Day: "Wednesday"}, {Day: "Thursday"},
		{Day: "Friday"}, {Day: "Saturday"}, {Day: "Sunday"},
	}}
	payload, _ := json.Marshal(sportPlan)
	if err := memStorage.Plans().UpsertCachedPlan(ctx, userID, string(plan.KindSport), payload, time.Now()); err != nil {
		t.Fatalf("seed plan failed: %v", err)
	}
	if _, err := workoutService.Toggle(ctx, userID.String(), 0, 0); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	return generator, userID.String()
}

func TestGenerateCSV(t *testing.T) {
	generator, userID := setupReportTest(t)

	data, contentType, err := generator.Generate(context.Background(), userID, FormatCSV)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if contentType != "text/csv" {
		t.Errorf("unexpected content type %q", contentType)
	}

	csv := string(data)
	if !strings.Contains(csv, "day,intake_kcal,burned_kcal,net_kcal") {
		t.Error("missing CSV header")
	}
	if !strings.Contains(csv, "Monday,320,60,260") {
		t.Errorf("unexpected Monday row, csv:\n%s", csv)
	}
	if !strings.Contains(csv, "Sunday,0,0,0") {
		t.Errorf("unexpected Sunday row, csv:\n%s", csv)
	}
}

func TestGeneratePDF(t *testing.T) {
	generator, userID := setupReportTest(t)

	data, contentType, err := generator.Generate(context.Background(), userID, FormatPDF)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if contentType != "application/pdf" {
		t.Errorf("unexpected content type %q", contentType)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	generator, userID := setupReportTest(t)

	_, _, err := generator.Generate(context.Background(), userID, "xlsx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGenerateWithoutWorkoutPlan(t *testing.T) {
	memStorage := memory.New()
	generator := NewGenerator(
		foodlog.NewService(memStorage.FoodLogs()),
		workouts.NewService(memStorage.Plans(), memStorage.Completions()),
	)

	// No plan and no journal: the report still renders with zeros.
	data, _, err := generator.Generate(context.Background(), uuid.NewString(), FormatCSV)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(string(data), "Monday,0,0,0") {
		t.Errorf("expected zero rows, got:\n%s", string(data))
	}
}
