package foodlog

import "github.com/ycfeng/slimhub/internal/plan"

// Meal types accepted in the journal.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snacks"
)

// FoodEntry — одна запись журнала питания
type FoodEntry struct {
	FoodName string `json:"food_name"`
	MealType string `json:"meal_type"`
	Calories int    `json:"calories"`
	Amount   string `json:"amount,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Time     string `json:"time"` // HH:MM последнего добавления
}

// MealTotals — калории за день с разбивкой по приёмам пищи
type MealTotals struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snacks"`
}

// Journal — недельный журнал питания. Записи и агрегаты живут в одном
// объекте и сохраняются одной операцией.
type Journal struct {
	Days          [plan.DaysPerWeek][]FoodEntry `json:"days"`
	DailyCalories [plan.DaysPerWeek]int         `json:"daily_calories"`
	MealCalories  [plan.DaysPerWeek]MealTotals  `json:"meal_calories"`
}

// AddEntryRequest — запрос на добавление записи по тексту
type AddEntryRequest struct {
	Day         int    `json:"day"`
	MealType    string `json:"meal_type"`
	Description string `json:"description"`
}

// DayResponse — записи и агрегаты одного дня
type DayResponse struct {
	Day           int         `json:"day"`
	Entries       []FoodEntry `json:"entries"`
	TotalCalories int         `json:"total_calories"`
	MealCalories  MealTotals  `json:"meal_calories"`
}
