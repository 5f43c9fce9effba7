package ai

import (
	"context"

	"github.com/ycfeng/slimhub/internal/plan"
)

// Provider generates personalized plans and exercise reference content.
type Provider interface {
	// GenerateDietPlan returns a 7-day meal plan for the profile.
	GenerateDietPlan(ctx context.Context, profile plan.UserProfile) (*plan.DietPlan, error)

	// GenerateSportPlan returns a 7-day workout plan for the profile.
	GenerateSportPlan(ctx context.Context, profile plan.UserProfile) (*plan.SportPlan, error)

	// ExerciseDetail returns reference information for a named exercise.
	ExerciseDetail(ctx context.Context, exerciseName string) (*plan.ExerciseDetail, error)

	// RecognizeFoodText estimates calories for a free-form meal description.
	RecognizeFoodText(ctx context.Context, description string) (*FoodEstimate, error)
}

// FoodEstimate — результат распознавания еды по тексту.
// Calories tolerates free-text model answers ("约250大卡") the same way
// exercise calories do.
type FoodEstimate struct {
	FoodName string            `json:"food_name"`
	Calories plan.CalorieValue `json:"calories"`
	Amount   string            `json:"amount,omitempty"`
}
