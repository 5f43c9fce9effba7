package ai

import (
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	raw := "Here is your plan:\n```json\n{\"plan\": []}\n```\nEnjoy!"

	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"plan": []}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := ExtractJSONObject("sorry, I cannot help with that")
	if !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already valid",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "single quotes",
			in:   `{'day': 'Monday'}`,
			want: `{"day": "Monday"}`,
		},
		{
			name: "bare keys",
			in:   `{day: "Monday", diet: {max_calorie: 1800}}`,
			want: `{"day": "Monday", "diet": {"max_calorie": 1800}}`,
		},
		{
			name: "trailing commas",
			in:   `{"plan": [1, 2, 3,],}`,
			want: `{"plan": [1, 2, 3]}`,
		},
		{
			name: "all three at once",
			in:   `{plan: [{day: 'Monday', exercises: [],},],}`,
			want: `{"plan": [{"day": "Monday", "exercises": []}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RepairJSON(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepairJSON_Unrepairable(t *testing.T) {
	_, err := RepairJSON(`{"plan": [`)
	if !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestExtractAndRepair(t *testing.T) {
	raw := "Result: {plan: [{day: 'Monday'},]} done"

	got, err := ExtractAndRepair(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"plan": [{"day": "Monday"}]}` {
		t.Errorf("unexpected repair result: %q", got)
	}
}
