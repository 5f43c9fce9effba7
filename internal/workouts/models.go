package workouts

import "github.com/ycfeng/slimhub/internal/plan"

// ExerciseStatus — упражнение с отметкой выполнения
type ExerciseStatus struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Intensity string `json:"intensity,omitempty"`
	SetsReps  string `json:"sets_reps,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Calories  int    `json:"calories"`
	Done      bool   `json:"done"`
}

// DayStatus — день плана с отметками и суммой сожжённых калорий.
// BurnedCalories учитывает только выполненные упражнения.
type DayStatus struct {
	Day            int              `json:"day"`
	DayName        string           `json:"day_name,omitempty"`
	Exercises      []ExerciseStatus `json:"exercises"`
	BurnedCalories int              `json:"burned_calories"`
}

// ToggleRequest — запрос на переключение отметки
type ToggleRequest struct {
	Day      int `json:"day"`
	Exercise int `json:"exercise"`
}

// WeekSummary — сводка за неделю
type WeekSummary struct {
	Days       [plan.DaysPerWeek]int `json:"days"` // burned kcal per day
	WeekTotal  int                   `json:"week_total"`
	DoneCount  int                   `json:"done_count"`
	TotalCount int                   `json:"total_count"`
}
