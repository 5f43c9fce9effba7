package plan

// DaysPerWeek is the fixed length of every generated plan (Monday..Sunday).
const DaysPerWeek = 7

// Kind selects which generated plan a cache entry holds.
type Kind string

const (
	KindDiet  Kind = "diet"
	KindSport Kind = "sport"
)

// Body types accepted at login.
const (
	BodyPear     = "pear"
	BodyApple    = "apple"
	BodyBalanced = "balanced"
)

// Activity types accepted at login.
const (
	ActivitySedentary = "sedentary"
	ActivityAerobic   = "aerobic"
	ActivityAnaerobic = "anaerobic"
	ActivityMixed     = "mixed"
)

// UserProfile carries the body metrics used as plan-generation input.
// It is created at login and immutable for the session.
type UserProfile struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Age          int     `json:"age"`
	HeightCm     float64 `json:"height_cm"`
	WeightKg     float64 `json:"weight_kg"`
	TargetKg     float64 `json:"target_kg"`
	BodyType     string  `json:"body_type"`
	ActivityType string  `json:"activity_type"`
}

// DayDiet is one day of a generated diet plan.
type DayDiet struct {
	Day  string   `json:"day"`
	Diet DietInfo `json:"diet"`
}

// DietInfo mirrors the generator's diet block for a single day.
type DietInfo struct {
	MaxCalorie   float64 `json:"max_calorie"`
	Carbohydrate float64 `json:"carbohydrate_g"`
	Protein      float64 `json:"protein_g"`
	Fat          float64 `json:"fat_g"`
	Sugar        float64 `json:"sugar_g"`
	Breakfast    string  `json:"breakfast"`
	Lunch        string  `json:"lunch"`
	Dinner       string  `json:"dinner"`
}

// DietPlan is an ordered week of day diets. Index = day index (Monday=0).
type DietPlan struct {
	Days []DayDiet `json:"plan"`
}

// Exercise is a single planned exercise. Calories may arrive from the
// generator as a bare number or as free text with embedded digits.
type Exercise struct {
	Name      string       `json:"name"`
	Intensity string       `json:"intensity"`
	SetsReps  string       `json:"sets_reps"`
	Duration  string       `json:"duration"`
	Calories  CalorieValue `json:"calories"`
}

// DayWorkout is one day of a generated workout plan.
type DayWorkout struct {
	Day       string     `json:"day"`
	Exercises []Exercise `json:"exercises"`
}

// SportPlan is an ordered week of day workouts. Index = day index (Monday=0).
type SportPlan struct {
	Days []DayWorkout `json:"plan"`
}

// ExerciseCounts returns the per-day exercise counts, used to size a
// completion matrix for this plan.
func (p SportPlan) ExerciseCounts() []int {
	counts := make([]int, len(p.Days))
	for i, d := range p.Days {
		counts[i] = len(d.Exercises)
	}
	return counts
}

// ExerciseDetail is the structured coaching detail for a single exercise.
type ExerciseDetail struct {
	Name           string `json:"action_name"`
	Description    string `json:"description"`
	Muscles        string `json:"muscles"`
	Difficulty     string `json:"difficulty"`
	Equipment      string `json:"equipment"`
	CommonMistakes string `json:"common_mistakes"`
	SafetyTips     string `json:"safety_tips"`
}
