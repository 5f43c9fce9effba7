package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/ycfeng/slimhub/internal/plan"
)

var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MockProvider returns deterministic plans for local runs and tests.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) GenerateDietPlan(ctx context.Context, profile plan.UserProfile) (*plan.DietPlan, error) {
	_ = ctx

	// Rough Mifflin-St Jeor style estimate with a deficit.
	base := 10*profile.WeightKg + 6.25*profile.HeightCm - 5*float64(profile.Age)
	maxCalorie := base - 300
	if maxCalorie < 1200 {
		maxCalorie = 1200
	}

	days := make([]plan.DayDiet, 0, plan.DaysPerWeek)
	for _, day := range weekDays {
		days = append(days, plan.DayDiet{
			Day: day,
			Diet: plan.DietInfo{
				MaxCalorie:   maxCalorie,
				Carbohydrate: maxCalorie * 0.45 / 4,
				Protein:      maxCalorie * 0.30 / 4,
				Fat:          maxCalorie * 0.25 / 9,
				Sugar:        25,
				Breakfast:    "Oatmeal with berries and a boiled egg",
				Lunch:        "Grilled chicken breast with quinoa and greens",
				Dinner:       "Baked fish with steamed vegetables",
			},
		})
	}

	return &plan.DietPlan{Days: days}, nil
}

func (p *MockProvider) GenerateSportPlan(ctx context.Context, profile plan.UserProfile) (*plan.SportPlan, error) {
	_ = ctx

	intensity := "medium"
	if profile.ActivityType == plan.ActivitySedentary {
		intensity = "low"
	}

	days := make([]plan.DayWorkout, 0, plan.DaysPerWeek)
	for i, day := range weekDays {
		// Sunday is a rest day.
		if i == len(weekDays)-1 {
			days = append(days, plan.DayWorkout{Day: day, Exercises: []plan.Exercise{}})
			continue
		}

		days = append(days, plan.DayWorkout{
			Day: day,
			Exercises: []plan.Exercise{
				{
					Name:      "Brisk walking",
					Intensity: intensity,
					SetsReps:  "1x1",
					Duration:  "30 min",
					Calories:  plan.Calories(150),
				},
				{
					Name:      "Bodyweight squats",
					Intensity: intensity,
					SetsReps:  "3x15",
					Duration:  "10 min",
					Calories:  plan.Calories(60),
				},
			},
		})
	}

	return &plan.SportPlan{Days: days}, nil
}

func (p *MockProvider) ExerciseDetail(ctx context.Context, exerciseName string) (*plan.ExerciseDetail, error) {
	_ = ctx

	return &plan.ExerciseDetail{
		Name:           exerciseName,
		Description:    fmt.Sprintf("Demo description for %s. Perform the movement in a slow, controlled manner.", exerciseName),
		Muscles:        "Legs, core",
		Difficulty:     "beginner",
		Equipment:      "none",
		CommonMistakes: "Rushing through repetitions, holding your breath",
		SafetyTips:     "Warm up first and stop on sharp pain",
	}, nil
}

func (p *MockProvider) RecognizeFoodText(ctx context.Context, description string) (*FoodEstimate, error) {
	_ = ctx

	name := strings.TrimSpace(description)
	if name == "" {
		name = "Unknown dish"
	}

	// Deterministic pseudo-estimate keyed off the description length.
	calories := 150 + (len(name)*17)%400

	return &FoodEstimate{
		FoodName: name,
		Calories: plan.Calories(calories),
		Amount:   "1 serving",
	}, nil
}
