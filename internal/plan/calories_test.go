package plan

import (
	"encoding/json"
	"testing"
)

func TestCalorieValueInt(t *testing.T) {
	cases := []struct {
		name string
		json string
		want int
	}{
		{"plain number", `250`, 250},
		{"float number", `320.5`, 320},
		{"numeric string", `"180"`, 180},
		{"text with embedded digits", `"约250大卡"`, 250},
		{"text with digits then more text", `"burns 95 kcal per set"`, 95},
		{"no digits", `"未知"`, 0},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"negative number", `-40`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v CalorieValue
			if err := json.Unmarshal([]byte(tc.json), &v); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.json, err)
			}
			if got := v.Int(); got != tc.want {
				t.Fatalf("Int() for %s = %d, want %d", tc.json, got, tc.want)
			}
		})
	}
}

func TestCalorieValueMarshalEmitsInt(t *testing.T) {
	v := CaloriesFromString("约250大卡")
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "250" {
		t.Fatalf("marshal = %s, want 250", out)
	}
}

func TestSportPlanExerciseCounts(t *testing.T) {
	p := SportPlan{Days: []DayWorkout{
		{Day: "Monday", Exercises: []Exercise{{Name: "squat"}, {Name: "plank"}}},
		{Day: "Tuesday", Exercises: nil},
		{Day: "Wednesday", Exercises: []Exercise{{Name: "run"}}},
	}}
	counts := p.ExerciseCounts()
	want := []int{2, 0, 1}
	if len(counts) != len(want) {
		t.Fatalf("got %d counts, want %d", len(counts), len(want))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts[%d] = %d, want %d", i, counts[i], want[i])
		}
	}
}
